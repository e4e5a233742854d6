package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quimipool/quimipool/infrastructure/http/middleware"
	"github.com/quimipool/quimipool/infrastructure/service/logger"
)

// ServerConfig represents server configuration.
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// Server is the HTTP surface the admin UI talks to.
type Server struct {
	addr   string
	server *http.Server
	logger logger.Logger
}

// NewServer assembles the router, middleware chain and handlers.
func NewServer(
	config ServerConfig,
	log logger.Logger,
	authMW *middleware.AuthMiddleware,
	entityHandler *EntityHandler,
	auditHandler *AuditHandler,
	authHandler *AuthHandler,
) *Server {
	router := mux.NewRouter()

	router.Use(middleware.RequestMeta)
	router.Use(middleware.CORS(config.AllowedOrigins))
	router.Use(middleware.Metrics)
	router.Use(loggingMiddleware(log))
	router.Use(recoveryMiddleware(log))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Audit and auth routes register before the generic {entity} routes so
	// the router does not treat them as collections.
	authHandler.RegisterRoutes(router, authMW.RequireAuth)
	auditHandler.RegisterRoutes(router, authMW.RequireAuth)
	entityHandler.RegisterRoutes(router, authMW.RequireAuth)

	return &Server{
		addr:   ":" + config.Port,
		logger: log,
		server: &http.Server{
			Addr:         ":" + config.Port,
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "Starting HTTP server", map[string]interface{}{"addr": s.addr})
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}

func loggingMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug(r.Context(), "request handled", map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"remote":   r.RemoteAddr,
				"duration": time.Since(start).String(),
			})
		})
	}
}

func recoveryMiddleware(log logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error(r.Context(), "panic recovered", nil, map[string]interface{}{
						"panic": err,
						"path":  r.URL.Path,
					})
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
