// Command pipeline runs the full workflow in one process: generate the
// dataset, write the analysis reports, train the classifier, and save the
// model artifact.
package main

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/privalytics/riskpipe/pkg/analysis"
	"github.com/privalytics/riskpipe/pkg/classifier"
	"github.com/privalytics/riskpipe/pkg/config"
	"github.com/privalytics/riskpipe/pkg/dataset"
	"github.com/privalytics/riskpipe/pkg/logging"
	"github.com/privalytics/riskpipe/pkg/preprocess"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	logger := logging.DefaultLogger().With(logging.Component("pipeline"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading config", logging.Error(err))
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("pipeline failed", logging.Error(err))
		os.Exit(1)
	}
	logger.Info("pipeline complete")
}

func run(cfg *config.Config, logger logging.Logger) error {
	// Generate
	all := dataset.NewGenerator(cfg.Dataset.Seed).Generate(cfg.Dataset.Records)
	train, test := dataset.Split(all, cfg.Dataset.TrainRatio)
	if err := os.MkdirAll(cfg.Paths.ProcessedDir, 0755); err != nil {
		return err
	}
	if err := dataset.WriteCSVFile(filepath.Join(cfg.Paths.ProcessedDir, "train.csv"), train); err != nil {
		return err
	}
	if err := dataset.WriteCSVFile(filepath.Join(cfg.Paths.ProcessedDir, "test.csv"), test); err != nil {
		return err
	}
	logger.Info("dataset generated",
		logging.Int("train_records", len(train)),
		logging.Int("test_records", len(test)))

	// Analyze
	report, err := analysis.Analyze(train)
	if err != nil {
		return err
	}
	if err := analysis.WriteReport(cfg.Paths.AnalysisDir, report); err != nil {
		return err
	}
	logger.Info("analysis written", logging.String("dir", cfg.Paths.AnalysisDir))

	// Train
	pp := preprocess.New()
	X, y, err := pp.FitTransform(train)
	if err != nil {
		return err
	}
	forest := classifier.New(classifier.Options{
		NumTrees:   cfg.Classifier.Trees,
		MaxDepth:   cfg.Classifier.MaxDepth,
		MinSamples: cfg.Classifier.MinSamples,
		Seed:       cfg.Classifier.Seed,
	})
	if err := forest.Train(X, y); err != nil {
		return err
	}

	testX, err := pp.Transform(test)
	if err != nil {
		return err
	}
	accuracy, err := forest.Accuracy(testX, preprocess.Labels(test))
	if err != nil {
		return err
	}
	logger.Info("model trained", logging.Float64("accuracy", accuracy))

	artifact := &classifier.Artifact{
		Forest:       forest,
		Preprocessor: pp,
		TrainedAt:    time.Now().UTC(),
	}
	if err := classifier.SaveArtifact(cfg.Paths.ModelPath, artifact); err != nil {
		return err
	}
	logger.Info("artifact saved", logging.String("path", cfg.Paths.ModelPath))
	return nil
}
