package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mnohosten/versionvec/pkg/changestream"
	"github.com/mnohosten/versionvec/pkg/embedder"
	gql "github.com/mnohosten/versionvec/pkg/graphql"
	"github.com/mnohosten/versionvec/pkg/metrics"
	"github.com/mnohosten/versionvec/pkg/mvcc"
	"github.com/mnohosten/versionvec/pkg/server/handlers"
	"github.com/mnohosten/versionvec/pkg/vectorindex"
)

// Server binds the HTTP, websocket, and GraphQL surfaces over a single
// in-process VersionedStore.
type Server struct {
	config       *Config
	store        *mvcc.VersionedStore
	router       *chi.Mux
	httpSrv      *http.Server
	startTime    time.Time
	collector    *metrics.Collector
	promExporter *metrics.PrometheusExporter
	changes      *changestream.Hub
	handlers     *handlers.Handlers
}

// New creates a new HTTP server instance around a fresh, empty store.
func New(config *Config) (*Server, error) {
	if config.EnableTLS {
		if config.TLSCertFile == "" || config.TLSKeyFile == "" {
			return nil, fmt.Errorf("TLS enabled but certificate or key file not specified")
		}
		if _, err := os.Stat(config.TLSCertFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("TLS certificate file not found: %s", config.TLSCertFile)
		}
		if _, err := os.Stat(config.TLSKeyFile); os.IsNotExist(err) {
			return nil, fmt.Errorf("TLS key file not found: %s", config.TLSKeyFile)
		}
	}

	metric, err := vectorindex.ParseDistanceMetric(config.DistanceMetric)
	if err != nil {
		return nil, err
	}

	index := vectorindex.New(metric)
	emb := embedder.New(config.EmbedderDimension)
	store := mvcc.NewVersionedStore(index, emb)

	collector := metrics.NewCollector()
	promExporter := metrics.NewPrometheusExporter(collector, "versionvec")
	changes := changestream.NewHub()

	srv := &Server{
		config:       config,
		store:        store,
		router:       chi.NewRouter(),
		startTime:    time.Now(),
		collector:    collector,
		promExporter: promExporter,
		changes:      changes,
		handlers:     handlers.New(store, changes, collector, config.DefaultQueryK),
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	if config.EnableGraphQL {
		if err := srv.setupGraphQLRoutes(); err != nil {
			return nil, fmt.Errorf("failed to setup GraphQL routes: %w", err)
		}
	}

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	srv.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      srv.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return srv, nil
}

// setupMiddleware configures HTTP middleware stack
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)

	if s.config.EnableLogging {
		s.router.Use(middleware.Logger)
	}

	if s.config.EnableCORS {
		s.router.Use(s.corsMiddleware)
	}

	s.router.Use(s.requestSizeLimitMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

// setupRoutes configures the six-verb transaction surface plus health,
// metrics, and the websocket change feed.
func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.Get("/_health", h.Health(s.startTime))
	s.router.Get("/_metrics", s.handlePrometheusMetrics)
	s.router.Get("/_ws/watch", h.HandleChangeStream())

	s.router.Route("/txn", func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Post("/", h.Begin())
		r.Route("/{name}", func(r chi.Router) {
			r.Post("/insert", h.Insert())
			r.Post("/update", h.Update())
			r.Post("/delete", h.Delete())
			r.Post("/commit", h.Commit())
			r.Post("/abort", h.Abort())
			r.Post("/query", h.Query())
		})
	})
}

// setupGraphQLRoutes configures GraphQL routes
func (s *Server) setupGraphQLRoutes() error {
	graphqlHandler, err := gql.NewHandler(s.store, s.handlers, s.config.DefaultQueryK)
	if err != nil {
		return fmt.Errorf("failed to create GraphQL handler: %w", err)
	}

	s.router.Post("/graphql", graphqlHandler.ServeHTTP)
	s.router.Get("/graphiql", gql.GraphiQLHandler())

	fmt.Println("GraphQL API enabled: /graphql, GraphiQL playground: /graphiql")
	return nil
}

// corsMiddleware handles CORS headers
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.config.AllowedOrigins) > 0 {
			origin = s.config.AllowedOrigins[0]
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requestSizeLimitMiddleware limits request body size
func (s *Server) requestSizeLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxRequestSize)
		next.ServeHTTP(w, r)
	})
}

// handlePrometheusMetrics handles the Prometheus metrics endpoint
func (s *Server) handlePrometheusMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	if err := s.promExporter.WriteMetrics(w); err != nil {
		http.Error(w, fmt.Sprintf("Error writing metrics: %v", err), http.StatusInternalServerError)
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start() error {
	protocol := "http"
	wsProtocol := "ws"
	if s.config.EnableTLS {
		protocol = "https"
		wsProtocol = "wss"
		fmt.Printf("TLS enabled, certificate: %s\n", s.config.TLSCertFile)
	}
	fmt.Printf("versionvec server starting on %s://%s:%d\n", protocol, s.config.Host, s.config.Port)
	fmt.Printf("change feed: %s://%s:%d/_ws/watch\n", wsProtocol, s.config.Host, s.config.Port)

	errChan := make(chan error, 1)
	go func() {
		var err error
		if s.config.EnableTLS {
			err = s.httpSrv.ListenAndServeTLS(s.config.TLSCertFile, s.config.TLSKeyFile)
		} else {
			err = s.httpSrv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		fmt.Printf("\nreceived signal: %v\n", sig)
		return s.Shutdown()
	}
}

// GetStore returns the underlying transaction store.
func (s *Server) GetStore() *mvcc.VersionedStore {
	return s.store
}

// GetMetricsCollector returns the metrics collector
func (s *Server) GetMetricsCollector() *metrics.Collector {
	return s.collector
}

// Handler returns the server's HTTP handler, for embedding in an
// httptest.Server without opening a real listener via Start.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	fmt.Println("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpSrv.Shutdown(ctx); err != nil {
		fmt.Printf("server shutdown error: %v\n", err)
		return err
	}

	fmt.Println("server shutdown complete")
	return nil
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		fmt.Printf("Error encoding JSON response: %v\n", err)
	}
}

// WriteError writes an error response
func WriteError(w http.ResponseWriter, statusCode int, errorType, message string) {
	WriteJSON(w, statusCode, map[string]interface{}{
		"ok":      false,
		"error":   errorType,
		"message": message,
		"code":    statusCode,
	})
}

// WriteSuccess writes a success response
func WriteSuccess(w http.ResponseWriter, result interface{}) {
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"result": result,
	})
}
