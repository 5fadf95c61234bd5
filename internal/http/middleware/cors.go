package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/solemia/studio-api/internal/config"
	"go.uber.org/zap"
)

// allowAnyOrigin reflects whatever origin the browser sent. Only development
// setups should reach this.
func allowAnyOrigin(r *http.Request, origin string) bool {
	return origin != ""
}

// CORS builds the cross-origin policy the studio frontends call through.
// Origins come from config; an empty list means allow-all in development
// and deny-all everywhere else.
func CORS(cfg *config.CORSConfig, environment string, logger *zap.Logger) func(http.Handler) http.Handler {
	isDev := environment == "development" || environment == "local" || environment == ""

	options := cors.Options{
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   cfg.ExposedHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}

	switch {
	case hasWildcard(cfg.AllowedOrigins):
		if !isDev {
			logger.Warn("CORS configured with wildcard origin outside development",
				zap.String("environment", environment))
		}
		options.AllowOriginFunc = allowAnyOrigin

	case len(cfg.AllowedOrigins) > 0:
		options.AllowedOrigins = cfg.AllowedOrigins
		logger.Info("CORS configured with explicit origins",
			zap.Strings("origins", cfg.AllowedOrigins))

	case isDev:
		options.AllowOriginFunc = allowAnyOrigin
		logger.Info("CORS allowing all origins in development mode")

	default:
		// The chi cors handler treats an empty AllowedOrigins as "*", so the
		// deny-all case needs an explicit func.
		options.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
		logger.Warn("CORS has no allowed origins, denying all cross-origin requests",
			zap.String("environment", environment))
	}

	return cors.Handler(options)
}

func hasWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
