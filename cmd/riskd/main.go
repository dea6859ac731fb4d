// Command riskd serves the privacy-risk API: model predictions, ontology
// queries and mutations, device risk assessments, and policy management.
package main

import (
	"flag"
	"os"

	"github.com/privalytics/riskpipe/pkg/api"
	"github.com/privalytics/riskpipe/pkg/classifier"
	"github.com/privalytics/riskpipe/pkg/config"
	"github.com/privalytics/riskpipe/pkg/logging"
	"github.com/privalytics/riskpipe/pkg/ontology"
	"github.com/privalytics/riskpipe/pkg/server"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	logger := logging.DefaultLogger().With(logging.Component("riskd"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading config", logging.Error(err))
		os.Exit(1)
	}
	// A missing artifact is not fatal: prediction endpoints answer 503
	// until one is trained and the process is reloaded.
	artifact, err := classifier.LoadArtifact(cfg.Paths.ModelPath)
	if err != nil {
		logger.Warn("no model artifact loaded",
			logging.String("path", cfg.Paths.ModelPath),
			logging.Error(err))
		artifact = nil
	} else {
		logger.Info("model artifact loaded",
			logging.String("path", cfg.Paths.ModelPath),
			logging.Int("trees", len(artifact.Forest.Trees)))
	}

	ont, err := ontology.LoadOrCreate(cfg.Paths.OntologyPath)
	if err != nil {
		logger.Error("loading ontology",
			logging.String("path", cfg.Paths.OntologyPath),
			logging.Error(err))
		os.Exit(1)
	}
	classes, individuals := ont.Stats()
	logger.Info("ontology loaded",
		logging.String("path", cfg.Paths.OntologyPath),
		logging.Int("classes", classes),
		logging.Int("individuals", individuals))

	apiServer, err := api.NewServer(cfg, artifact, ont, api.WithLogger(logger))
	if err != nil {
		logger.Error("initializing server", logging.Error(err))
		os.Exit(1)
	}
	defer apiServer.Close()

	gs := server.NewGracefulServer(cfg.Addr(), apiServer.Handler(),
		server.WithLogger(logger),
		server.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout))

	// SIGHUP re-reads the model artifact so a freshly trained model can be
	// picked up without a restart.
	gs.SetConfigReloadFunc(func() error {
		reloaded, err := classifier.LoadArtifact(cfg.Paths.ModelPath)
		if err != nil {
			return err
		}
		apiServer.SetArtifact(reloaded)
		logger.Info("model artifact reloaded", logging.String("path", cfg.Paths.ModelPath))
		return nil
	})

	logger.Info("riskd listening", logging.String("addr", cfg.Addr()))
	if err := gs.Start(); err != nil {
		logger.Error("server error", logging.Error(err))
		os.Exit(1)
	}
}
