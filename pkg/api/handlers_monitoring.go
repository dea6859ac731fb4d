package api

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/privalytics/riskpipe/pkg/health"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	result := s.healthChecker.Check()

	checks := make(map[string]CheckResult, len(result.Checks))
	for name, check := range result.Checks {
		checks[name] = CheckResult{
			Status:  string(check.Status),
			Message: check.Message,
		}
	}

	status := "ok"
	httpStatus := http.StatusOK
	switch result.Status {
	case health.StatusDegraded:
		status = "degraded"
	case health.StatusUnhealthy:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	s.respondJSON(w, httpStatus, HealthResponse{
		Status:  status,
		Version: s.version,
		Uptime:  time.Since(s.startTime).Truncate(time.Second).String(),
		Checks:  checks,
	})
}

// metricsHandler serves the Prometheus exposition format. System gauges are
// refreshed on scrape.
func (s *Server) metricsHandler() http.Handler {
	exposition := promhttp.HandlerFor(
		s.metricsRegistry.GetPrometheusRegistry(),
		promhttp.HandlerOpts{},
	)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metricsRegistry.UpdateSystemMetrics(s.startTime)
		exposition.ServeHTTP(w, r)
	})
}

func (s *Server) registerHealthChecks() {
	s.healthChecker.RegisterLivenessCheck("api", func() health.Check {
		return health.SimpleCheck("api")
	})

	s.healthChecker.RegisterCheck("model", health.ModelCheck(func() (bool, int, int) {
		a := s.artifact()
		if a == nil || a.Forest == nil || !a.Forest.Trained() {
			return false, 0, 0
		}
		return true, len(a.Forest.Classes), a.Forest.NumFeatures
	}))

	s.healthChecker.RegisterCheck("ontology", health.OntologyCheck(func() (bool, int, int) {
		classes, individuals := s.ont.Stats()
		return true, classes, individuals
	}))

	s.healthChecker.RegisterCheck("memory", health.MemoryCheck(func() (uint64, uint64) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		return ms.Alloc, ms.Sys
	}))
}

func (s *Server) publishModelMetrics() {
	a := s.artifact()
	if a == nil || a.Forest == nil || !a.Forest.Trained() {
		s.metricsRegistry.SetModelInfo(false, 0, 0, 0, time.Time{})
		return
	}
	s.metricsRegistry.SetModelInfo(true,
		len(a.Forest.Classes), a.Forest.NumFeatures, len(a.Forest.Trees), a.TrainedAt)
}

func (s *Server) publishOntologyMetrics() {
	classes, individuals := s.ont.Stats()
	s.metricsRegistry.SetOntologyStats(classes, individuals)
}
