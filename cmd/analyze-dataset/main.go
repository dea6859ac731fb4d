// Command analyze-dataset computes summary statistics and correlation
// reports for a generated dataset CSV.
package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/privalytics/riskpipe/pkg/analysis"
	"github.com/privalytics/riskpipe/pkg/config"
	"github.com/privalytics/riskpipe/pkg/dataset"
	"github.com/privalytics/riskpipe/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	input := flag.String("in", "", "Input CSV (default: <processed_dir>/train.csv)")
	output := flag.String("out", "", "Report directory (default: config analysis dir)")
	flag.Parse()

	logger := logging.DefaultLogger().With(logging.Component("analyze-dataset"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading config", logging.Error(err))
		os.Exit(1)
	}

	inPath := *input
	if inPath == "" {
		inPath = filepath.Join(cfg.Paths.ProcessedDir, "train.csv")
	}
	outDir := *output
	if outDir == "" {
		outDir = cfg.Paths.AnalysisDir
	}

	records, err := dataset.ReadCSVFile(inPath)
	if err != nil {
		logger.Error("reading dataset", logging.String("path", inPath), logging.Error(err))
		os.Exit(1)
	}
	logger.Info("dataset loaded", logging.String("path", inPath), logging.Records(len(records)))

	report, err := analysis.Analyze(records)
	if err != nil {
		logger.Error("analyzing dataset", logging.Error(err))
		os.Exit(1)
	}

	if err := analysis.WriteReport(outDir, report); err != nil {
		logger.Error("writing report", logging.Error(err))
		os.Exit(1)
	}

	logger.Info("analysis written",
		logging.String("dir", outDir),
		logging.Int("numeric_columns", len(report.Numeric)),
		logging.Int("categorical_columns", len(report.Categorical)))
}
