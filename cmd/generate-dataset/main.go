// Command generate-dataset writes synthetic IoT privacy records as train and
// test CSVs for the rest of the pipeline.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/privalytics/riskpipe/pkg/config"
	"github.com/privalytics/riskpipe/pkg/dataset"
	"github.com/privalytics/riskpipe/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	records := flag.Int("records", 0, "Number of records to generate (overrides config)")
	seed := flag.Uint64("seed", 0, "Generator seed (overrides config)")
	flag.Parse()

	logger := logging.DefaultLogger().With(logging.Component("generate-dataset"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading config", logging.Error(err))
		os.Exit(1)
	}
	if *records > 0 {
		cfg.Dataset.Records = *records
	}
	if *seed > 0 {
		cfg.Dataset.Seed = *seed
	}

	logger.Info("generating dataset",
		logging.Records(cfg.Dataset.Records),
		logging.Int64("seed", int64(cfg.Dataset.Seed)))

	all := dataset.NewGenerator(cfg.Dataset.Seed).Generate(cfg.Dataset.Records)
	train, test := dataset.Split(all, cfg.Dataset.TrainRatio)

	if err := os.MkdirAll(cfg.Paths.ProcessedDir, 0755); err != nil {
		logger.Error("creating output directory", logging.Error(err))
		os.Exit(1)
	}

	trainPath := filepath.Join(cfg.Paths.ProcessedDir, "train.csv")
	testPath := filepath.Join(cfg.Paths.ProcessedDir, "test.csv")

	if err := dataset.WriteCSVFile(trainPath, train); err != nil {
		logger.Error("writing train CSV", logging.Error(err))
		os.Exit(1)
	}
	if err := dataset.WriteCSVFile(testPath, test); err != nil {
		logger.Error("writing test CSV", logging.Error(err))
		os.Exit(1)
	}

	logger.Info("dataset written",
		logging.String("train", trainPath),
		logging.Int("train_records", len(train)),
		logging.String("test", testPath),
		logging.Int("test_records", len(test)))
}
