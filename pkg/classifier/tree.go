package classifier

import (
	"math"
	"math/rand"
	"sort"
)

// TreeNode is one node of a fitted decision tree. Leaf nodes carry the
// class distribution of the training samples that reached them; internal
// nodes split on Feature <= Threshold.
type TreeNode struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Dist      []float64 // per-class probabilities, aligned with forest classes
}

// decisionTree fits a single CART tree with Gini impurity.
type decisionTree struct {
	maxDepth    int
	minSamples  int
	numFeatures int // features examined per split (mtry)
	numClasses  int
	rng         *rand.Rand
}

// fit builds a tree over the sample indices idx drawn from X/y.
// y values are class indices in [0, numClasses).
func (t *decisionTree) fit(X [][]float64, y []int, idx []int, depth int) *TreeNode {
	counts := make([]float64, t.numClasses)
	for _, i := range idx {
		counts[y[i]]++
	}

	if depth >= t.maxDepth || len(idx) < t.minSamples || isPure(counts) {
		return leafNode(counts)
	}

	feature, threshold, ok := t.bestSplit(X, y, idx, counts)
	if !ok {
		return leafNode(counts)
	}

	var left, right []int
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leafNode(counts)
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.fit(X, y, left, depth+1),
		Right:     t.fit(X, y, right, depth+1),
	}
}

// bestSplit searches a random feature subset for the split with the lowest
// weighted Gini impurity. Returns ok=false when no split improves on the
// parent node.
func (t *decisionTree) bestSplit(X [][]float64, y []int, idx []int, parentCounts []float64) (int, float64, bool) {
	parentGini := gini(parentCounts, float64(len(idx)))

	bestGini := parentGini
	bestFeature := -1
	bestThreshold := 0.0

	totalFeatures := len(X[idx[0]])
	for _, feature := range t.sampleFeatures(totalFeatures) {
		// Sort samples by this feature, then sweep split points between
		// distinct neighboring values.
		order := make([]int, len(idx))
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool {
			return X[order[a]][feature] < X[order[b]][feature]
		})

		leftCounts := make([]float64, t.numClasses)
		rightCounts := make([]float64, t.numClasses)
		copy(rightCounts, parentCounts)

		for pos := 0; pos < len(order)-1; pos++ {
			cls := y[order[pos]]
			leftCounts[cls]++
			rightCounts[cls]--

			cur := X[order[pos]][feature]
			next := X[order[pos+1]][feature]
			if cur == next {
				continue
			}

			nLeft := float64(pos + 1)
			nRight := float64(len(order) - pos - 1)
			weighted := (nLeft*giniRaw(leftCounts, nLeft) + nRight*giniRaw(rightCounts, nRight)) / float64(len(order))

			if weighted < bestGini-1e-12 {
				bestGini = weighted
				bestFeature = feature
				bestThreshold = (cur + next) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

// sampleFeatures picks numFeatures distinct feature indices at random.
func (t *decisionTree) sampleFeatures(total int) []int {
	if t.numFeatures >= total {
		all := make([]int, total)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := t.rng.Perm(total)
	return perm[:t.numFeatures]
}

// predict walks the tree and returns the leaf class distribution.
func (n *TreeNode) predict(row []float64) []float64 {
	node := n
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Dist
}

func leafNode(counts []float64) *TreeNode {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	dist := make([]float64, len(counts))
	if total > 0 {
		for i, c := range counts {
			dist[i] = c / total
		}
	}
	return &TreeNode{Leaf: true, Dist: dist}
}

func isPure(counts []float64) bool {
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}

func gini(counts []float64, n float64) float64 {
	return giniRaw(counts, n)
}

// giniRaw computes 1 - sum((count/n)^2); n must be the sum of counts.
func giniRaw(counts []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := c / n
		sum += p * p
	}
	return 1 - sum
}

// defaultMtry is the per-split feature budget: floor(sqrt(total)), min 1.
func defaultMtry(total int) int {
	m := int(math.Sqrt(float64(total)))
	if m < 1 {
		m = 1
	}
	return m
}
