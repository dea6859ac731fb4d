// Command train-classifier fits the random forest on the train CSV,
// evaluates it on the test CSV, and saves the model artifact.
package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/privalytics/riskpipe/pkg/classifier"
	"github.com/privalytics/riskpipe/pkg/config"
	"github.com/privalytics/riskpipe/pkg/dataset"
	"github.com/privalytics/riskpipe/pkg/logging"
	"github.com/privalytics/riskpipe/pkg/preprocess"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	logger := logging.DefaultLogger().With(logging.Component("train-classifier"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading config", logging.Error(err))
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("training failed", logging.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	train, err := dataset.ReadCSVFile(filepath.Join(cfg.Paths.ProcessedDir, "train.csv"))
	if err != nil {
		return err
	}
	test, err := dataset.ReadCSVFile(filepath.Join(cfg.Paths.ProcessedDir, "test.csv"))
	if err != nil {
		return err
	}
	logger.Info("datasets loaded",
		logging.Int("train_records", len(train)),
		logging.Int("test_records", len(test)))

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

	timer := logging.StartTimer(logger, "train forest", logging.Int("trees", cfg.Classifier.Trees))
	if err := forest.Train(X, y); err != nil {
		return err
	}
	timer.End()

	testX, err := pp.Transform(test)
	if err != nil {
		return err
	}
	accuracy, err := forest.Accuracy(testX, preprocess.Labels(test))
	if err != nil {
		return err
	}
	logger.Info("model evaluated",
		logging.Float64("accuracy", accuracy),
		logging.Int("trees", len(forest.Trees)),
		logging.Int("features", forest.NumFeatures))

	artifact := &classifier.Artifact{
		Forest:       forest,
		Preprocessor: pp,
		TrainedAt:    time.Now().UTC(),
	}
	if err := classifier.SaveArtifact(cfg.Paths.ModelPath, artifact); err != nil {
		return err
	}
	logger.Info("artifact saved", logging.String("path", cfg.Paths.ModelPath))

	if cfg.Backup.Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		backup, err := classifier.NewArtifactBackup(ctx, classifier.BackupConfig{
			Bucket:    cfg.Backup.Bucket,
			Prefix:    cfg.Backup.Prefix,
			Region:    cfg.Backup.Region,
			Endpoint:  cfg.Backup.Endpoint,
			AccessKey: cfg.Backup.AccessKey,
			SecretKey: cfg.Backup.SecretKey,
		})
		if err != nil {
			return err
		}
		key, err := backup.Upload(ctx, cfg.Paths.ModelPath)
		if err != nil {
			return err
		}
		logger.Info("artifact backed up",
			logging.String("bucket", cfg.Backup.Bucket),
			logging.String("key", key))
	}

	return nil
}
