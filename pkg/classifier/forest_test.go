package classifier

import (
	"errors"
	"math"
	"testing"

	"github.com/privalytics/riskpipe/pkg/dataset"
	"github.com/privalytics/riskpipe/pkg/preprocess"
)

// trainingData builds a small encoded dataset for model tests.
func trainingData(t *testing.T, n int) ([][]float64, []int, *preprocess.Preprocessor) {
	t.Helper()
	records := dataset.NewGenerator(42).Generate(n)
	p := preprocess.New()
	X, y, err := p.FitTransform(records)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}
	return X, y, p
}

// testOptions keeps unit tests fast; production defaults use 100 trees.
func testOptions() Options {
	return Options{NumTrees: 15, MaxDepth: 8, Seed: 42}
}

func TestTrainAndPredict(t *testing.T) {
	X, y, _ := trainingData(t, 300)

	f := New(testOptions())
	if err := f.Train(X, y); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	if !f.Trained() {
		t.Fatal("Trained() = false after Train")
	}

	// A forest should fit its own training data well.
	acc, err := f.Accuracy(X, y)
	if err != nil {
		t.Fatalf("Accuracy failed: %v", err)
	}
	if acc < 0.8 {
		t.Errorf("Training accuracy %.3f, expected >= 0.8", acc)
	}

	t.Logf("✓ Training accuracy %.3f over %d samples", acc, len(X))
}

func TestPredictProbaRowsSumToOne(t *testing.T) {
	X, y, _ := trainingData(t, 250)

	f := New(testOptions())
	if err := f.Train(X, y); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	proba, err := f.PredictProba(X[:50])
	if err != nil {
		t.Fatalf("PredictProba failed: %v", err)
	}

	for i, row := range proba {
		if len(row) != len(f.Classes) {
			t.Fatalf("Row %d has %d columns, want %d (one per class)", i, len(row), len(f.Classes))
		}
		sum := 0.0
		for _, p := range row {
			if p < 0 || p > 1 {
				t.Errorf("Row %d: probability %v outside [0,1]", i, p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("Row %d sums to %v, want 1", i, sum)
		}
	}
}

func TestPredictBeforeTrain(t *testing.T) {
	f := New(testOptions())

	_, err := f.Predict([][]float64{{1, 2, 3}})
	if !errors.Is(err, ErrNotTrained) {
		t.Errorf("Predict on untrained model: got %v, want ErrNotTrained", err)
	}

	_, err = f.PredictProba([][]float64{{1, 2, 3}})
	if !errors.Is(err, ErrNotTrained) {
		t.Errorf("PredictProba on untrained model: got %v, want ErrNotTrained", err)
	}
}

func TestFeatureMismatch(t *testing.T) {
	X, y, _ := trainingData(t, 120)

	f := New(testOptions())
	if err := f.Train(X, y); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	short := X[0][:len(X[0])-3]
	_, err := f.Predict([][]float64{short})
	if !IsFeatureMismatch(err) {
		t.Fatalf("Expected FeatureMismatchError, got %v", err)
	}

	var fme *FeatureMismatchError
	if errors.As(err, &fme) {
		if fme.Trained != len(X[0]) || fme.Got != len(short) {
			t.Errorf("Mismatch fields = (%d, %d), want (%d, %d)", fme.Trained, fme.Got, len(X[0]), len(short))
		}
	}
}

func TestTrainDeterministic(t *testing.T) {
	X, y, _ := trainingData(t, 200)

	a := New(testOptions())
	b := New(testOptions())
	if err := a.Train(X, y); err != nil {
		t.Fatalf("Train failed: %v", err)
	}
	if err := b.Train(X, y); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	pa, err := a.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	pb, err := b.Predict(X)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("Prediction %d differs between identically seeded models: %d vs %d", i, pa[i], pb[i])
		}
	}

	t.Logf("✓ Two seed-42 models agree on all %d predictions", len(pa))
}

func TestTrainRejectsEmptySet(t *testing.T) {
	f := New(testOptions())
	if err := f.Train(nil, nil); !errors.Is(err, ErrEmptyTrainingSet) {
		t.Errorf("Train(nil) = %v, want ErrEmptyTrainingSet", err)
	}
}

func TestClassesSortedAscending(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}, {6}}
	y := []int{5, 3, 1, 5, 3, 1}

	f := New(Options{NumTrees: 3, MaxDepth: 3, Seed: 1})
	if err := f.Train(X, y); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	want := []int{1, 3, 5}
	if len(f.Classes) != len(want) {
		t.Fatalf("Classes = %v, want %v", f.Classes, want)
	}
	for i := range want {
		if f.Classes[i] != want[i] {
			t.Fatalf("Classes = %v, want %v", f.Classes, want)
		}
	}
}
