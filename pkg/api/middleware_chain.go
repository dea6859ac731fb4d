package api

import (
	"net/http"

	"github.com/privalytics/riskpipe/pkg/api/middleware"
	"github.com/privalytics/riskpipe/pkg/config"
	"github.com/privalytics/riskpipe/pkg/logging"
	"github.com/privalytics/riskpipe/pkg/metrics"
)

// maxRequestBody caps request bodies well above the largest legitimate
// payload (a single record is under 1 KB).
const maxRequestBody = 1 << 20 // 1 MiB

// middlewareChain assembles the standard middleware stack, outermost first.
func middlewareChain(cfg *config.Config, logger logging.Logger, reg *metrics.Registry) []func(http.Handler) http.Handler {
	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins
	}

	return []func(http.Handler) http.Handler{
		middleware.PanicRecovery(),
		middleware.RequestID(),
		middleware.Logging(logger, middleware.GetRequestID),
		middleware.Metrics(reg),
		middleware.CORS(corsConfig),
		middleware.SecurityHeaders(nil),
		middleware.BodySizeLimit(maxRequestBody),
	}
}
