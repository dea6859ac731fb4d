package api

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/privalytics/riskpipe/pkg/audit"
	"github.com/privalytics/riskpipe/pkg/auth"
	"github.com/privalytics/riskpipe/pkg/classifier"
	"github.com/privalytics/riskpipe/pkg/config"
	"github.com/privalytics/riskpipe/pkg/health"
	"github.com/privalytics/riskpipe/pkg/logging"
	"github.com/privalytics/riskpipe/pkg/metrics"
	"github.com/privalytics/riskpipe/pkg/ontology"
)

// Server is the HTTP API. All dependencies are held explicitly: there is no
// package-level state, so two servers in one process never share anything.
type Server struct {
	cfg    *config.Config
	logger logging.Logger

	modelMu sync.RWMutex
	model   *classifier.Artifact

	ont *ontology.Ontology

	userStore      *auth.UserStore
	jwtManager     *auth.JWTManager
	tokenValidator auth.TokenValidator

	devices     *DeviceStore
	assessments *AssessmentStore
	policies    *PolicyStore

	auditTrail *audit.Trail
	auditLog   audit.Logger
	auditFile  *audit.FileLogger

	healthChecker   *health.HealthChecker
	metricsRegistry *metrics.Registry

	startTime time.Time
	version   string
}

// Option configures optional server dependencies.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetricsRegistry sets the metrics registry. Tests use a private
// registry so collectors never collide across server instances.
func WithMetricsRegistry(reg *metrics.Registry) Option {
	return func(s *Server) { s.metricsRegistry = reg }
}

// NewServer wires an API server from its dependencies. The model artifact
// may be nil; prediction endpoints then answer 503 until one is loaded.
// The ontology must be non-nil.
func NewServer(cfg *config.Config, artifact *classifier.Artifact, ont *ontology.Ontology, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if ont == nil {
		return nil, fmt.Errorf("ontology is required")
	}

	s := &Server{
		cfg:         cfg,
		logger:      logging.NewNopLogger(),
		model:       artifact,
		ont:         ont,
		userStore:   auth.NewUserStore(),
		devices:     NewDeviceStore(),
		assessments: NewAssessmentStore(),
		policies:    NewPolicyStore(),
		startTime:   time.Now(),
		version:     "1.0.0",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metricsRegistry == nil {
		s.metricsRegistry = metrics.DefaultRegistry()
	}

	s.auditTrail = audit.NewTrail(1024)
	s.auditLog = s.auditTrail
	if cfg.Paths.AuditDir != "" {
		fileLog, err := audit.NewFileLogger(cfg.Paths.AuditDir)
		if err != nil {
			return nil, fmt.Errorf("init audit log: %w", err)
		}
		s.auditFile = fileLog
		s.auditLog = audit.Tee{s.auditTrail, fileLog}
	}

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		// Development fallback. Production deployments set RISKPIPE_JWT_SECRET.
		randomBytes := make([]byte, 32)
		if _, err := rand.Read(randomBytes); err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		jwtSecret = fmt.Sprintf("%x", randomBytes)
		s.logger.Warn("no JWT secret configured, generated a random one; tokens will not survive restarts")
	}
	jwtManager, err := auth.NewJWTManager(jwtSecret, cfg.Auth.TokenDuration, cfg.Auth.RefreshDuration)
	if err != nil {
		return nil, fmt.Errorf("init jwt manager: %w", err)
	}
	s.jwtManager = jwtManager
	s.tokenValidator = jwtManager

	if cfg.Paths.UsersDir != "" {
		if err := s.userStore.LoadUsers(cfg.Paths.UsersDir); err != nil {
			s.logger.Warn("could not load persisted users", logging.Error(err))
		} else if n := len(s.userStore.ListUsers()); n > 0 {
			s.logger.Info("loaded persisted users", logging.Int("users", n))
		}
	}

	s.healthChecker = health.NewHealthChecker()
	s.registerHealthChecks()
	s.publishModelMetrics()
	s.publishOntologyMetrics()

	return s, nil
}

// Handler returns the full HTTP handler: routes wrapped in the middleware
// chain. It is what cmd/riskd hands to the graceful server, and what tests
// drive through httptest.
func (s *Server) Handler() http.Handler {
	return s.wrapMiddleware(s.routes())
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	// Monitoring
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/ready", s.healthChecker.ReadinessHandler())
	mux.HandleFunc("/health/live", s.healthChecker.LivenessHandler())
	mux.Handle("/metrics", s.metricsHandler())

	// Classification
	mux.HandleFunc("/predict", s.handlePredict)

	// Ontology
	mux.HandleFunc("/ontology/personal-data-types", s.handlePersonalDataTypes)
	mux.HandleFunc("/ontology/risk-levels", s.handleRiskLevels)
	mux.HandleFunc("/ontology/risks", s.requireAuth(s.handleAddRisk))
	mux.HandleFunc("/ontology/save", s.requireAuth(s.handleOntologySave))

	// Auth
	mux.HandleFunc("/token", s.handleToken)
	mux.HandleFunc("/users", s.handleUsers)

	// Devices and assessments
	mux.HandleFunc("/devices", s.handleDevices)
	mux.HandleFunc("/devices/", s.handleDevice) // /devices/{id}
	mux.HandleFunc("/assess_risk", s.requireAuth(s.handleAssessRisk))
	mux.HandleFunc("/risk_history/", s.handleRiskHistory) // /risk_history/{device_id}
	mux.HandleFunc("/risks/", s.requireAuth(s.handleRiskResolve))

	// Policies
	mux.HandleFunc("/policies", s.handlePolicies)
	mux.HandleFunc("/policies/", s.handlePolicy) // /policies/{id}

	// Audit
	mux.HandleFunc("/audit/events", s.requireAdmin(s.handleAuditEvents))

	return mux
}

func (s *Server) wrapMiddleware(mux *http.ServeMux) http.Handler {
	mw := middlewareChain(s.cfg, s.logger, s.metricsRegistry)
	var handler http.Handler = mux
	for i := len(mw) - 1; i >= 0; i-- {
		handler = mw[i](handler)
	}
	return handler
}

// Close releases server resources, currently the on-disk audit log.
func (s *Server) Close() error {
	if s.auditFile != nil {
		return s.auditFile.Close()
	}
	return nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr()
}

// UserStore exposes the user registry for bootstrap wiring in cmd/riskd.
func (s *Server) UserStore() *auth.UserStore {
	return s.userStore
}

// SetArtifact swaps the model artifact, e.g. after a SIGHUP reload.
func (s *Server) SetArtifact(a *classifier.Artifact) {
	s.modelMu.Lock()
	s.model = a
	s.modelMu.Unlock()
	s.publishModelMetrics()
}

// artifact returns the current model artifact, which may be nil.
func (s *Server) artifact() *classifier.Artifact {
	s.modelMu.RLock()
	defer s.modelMu.RUnlock()
	return s.model
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}
