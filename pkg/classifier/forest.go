// Package classifier implements the privacy-risk model: a random forest of
// CART trees over encoded record features, predicting the ordinal risk
// level. Training is deterministic under a fixed seed.
package classifier

import (
	"math/rand"
	"sort"
)

// Options configure the forest. Zero values fall back to defaults matching
// the production model: 100 trees, depth 10, seed 42.
type Options struct {
	NumTrees   int
	MaxDepth   int
	MinSamples int   // minimum samples required to split a node
	Seed       int64 // base seed; tree i uses Seed+i
}

// DefaultOptions returns the production model configuration.
func DefaultOptions() Options {
	return Options{
		NumTrees:   100,
		MaxDepth:   10,
		MinSamples: 2,
		Seed:       42,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.NumTrees <= 0 {
		o.NumTrees = d.NumTrees
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = d.MaxDepth
	}
	if o.MinSamples <= 0 {
		o.MinSamples = d.MinSamples
	}
	if o.Seed == 0 {
		o.Seed = d.Seed
	}
	return o
}

// RandomForest is a bagged ensemble of decision trees. Exported fields are
// the fitted state serialized into the model artifact.
type RandomForest struct {
	Opts        Options
	Trees       []*TreeNode
	Classes     []int // distinct training labels, ascending
	NumFeatures int
}

// New creates an untrained forest.
func New(opts Options) *RandomForest {
	return &RandomForest{Opts: opts.withDefaults()}
}

// Trained reports whether the forest has fitted trees.
func (f *RandomForest) Trained() bool {
	return len(f.Trees) > 0 && len(f.Classes) > 0
}

// Train fits the ensemble on the feature matrix X and labels y. Each tree
// trains on a bootstrap sample and examines sqrt(features) per split.
func (f *RandomForest) Train(X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return ErrEmptyTrainingSet
	}

	f.NumFeatures = len(X[0])
	f.Classes = distinctSorted(y)

	classIndex := make(map[int]int, len(f.Classes))
	for i, c := range f.Classes {
		classIndex[c] = i
	}
	yIdx := make([]int, len(y))
	for i, label := range y {
		yIdx[i] = classIndex[label]
	}

	f.Trees = make([]*TreeNode, f.Opts.NumTrees)
	for t := 0; t < f.Opts.NumTrees; t++ {
		rng := rand.New(rand.NewSource(f.Opts.Seed + int64(t)))

		sample := make([]int, len(X))
		for i := range sample {
			sample[i] = rng.Intn(len(X))
		}

		tree := &decisionTree{
			maxDepth:    f.Opts.MaxDepth,
			minSamples:  f.Opts.MinSamples,
			numFeatures: defaultMtry(f.NumFeatures),
			numClasses:  len(f.Classes),
			rng:         rng,
		}
		f.Trees[t] = tree.fit(X, yIdx, sample, 0)
	}

	return nil
}

// Predict returns the majority-vote label for each row.
func (f *RandomForest) Predict(X [][]float64) ([]int, error) {
	proba, err := f.PredictProba(X)
	if err != nil {
		return nil, err
	}

	labels := make([]int, len(proba))
	for i, dist := range proba {
		best := 0
		for j := 1; j < len(dist); j++ {
			if dist[j] > dist[best] {
				best = j
			}
		}
		labels[i] = f.Classes[best]
	}
	return labels, nil
}

// PredictOne classifies a single feature vector.
func (f *RandomForest) PredictOne(row []float64) (int, []float64, error) {
	labels, err := f.Predict([][]float64{row})
	if err != nil {
		return 0, nil, err
	}
	proba, err := f.PredictProba([][]float64{row})
	if err != nil {
		return 0, nil, err
	}
	return labels[0], proba[0], nil
}

// PredictProba returns, for each row, the per-class probabilities averaged
// over all trees. Each row sums to 1 and has one column per training class,
// in Classes order.
func (f *RandomForest) PredictProba(X [][]float64) ([][]float64, error) {
	if !f.Trained() {
		return nil, ErrNotTrained
	}

	out := make([][]float64, len(X))
	for i, row := range X {
		if len(row) != f.NumFeatures {
			return nil, &FeatureMismatchError{Trained: f.NumFeatures, Got: len(row)}
		}

		avg := make([]float64, len(f.Classes))
		for _, tree := range f.Trees {
			dist := tree.predict(row)
			for j, p := range dist {
				avg[j] += p
			}
		}
		for j := range avg {
			avg[j] /= float64(len(f.Trees))
		}
		out[i] = avg
	}
	return out, nil
}

// Accuracy scores predictions against known labels.
func (f *RandomForest) Accuracy(X [][]float64, y []int) (float64, error) {
	pred, err := f.Predict(X)
	if err != nil {
		return 0, err
	}
	if len(pred) == 0 {
		return 0, nil
	}
	correct := 0
	for i := range pred {
		if pred[i] == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(pred)), nil
}

func distinctSorted(y []int) []int {
	seen := make(map[int]bool)
	var classes []int
	for _, v := range y {
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Ints(classes)
	return classes
}
