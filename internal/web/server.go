package web

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"

	"github.com/vbonduro/folio/internal/mediastore"
	"github.com/vbonduro/folio/internal/service"
)

type Server struct {
	service     *service.PortfolioService
	mediaStore  mediastore.MediaStore
	mediaPrefix string
	mux         *http.ServeMux
	handler     http.Handler
	logger      *slog.Logger
}

// NewServer builds the REST API. Files are served under mediaPrefix (for
// example "/uploads"); allowedOrigins configures CORS.
func NewServer(svc *service.PortfolioService, ms mediastore.MediaStore, mediaPrefix string, allowedOrigins []string, logger *slog.Logger) *Server {
	s := &Server{
		service:     svc,
		mediaStore:  ms,
		mediaPrefix: "/" + strings.Trim(mediaPrefix, "/"),
		mux:         http.NewServeMux(),
		logger:      logger,
	}
	s.registerRoutes()

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	s.handler = requestLogger(s.logger, corsHandler(securityHeaders(s.mux)))
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /api/portfolios", s.handleListPortfolios)
	s.mux.HandleFunc("POST /api/portfolios", s.handleCreatePortfolio)
	s.mux.HandleFunc("GET /api/portfolios/{id}", s.handleGetPortfolio)
	s.mux.HandleFunc("PUT /api/portfolios/{id}", s.handleUpdatePortfolio)
	s.mux.HandleFunc("DELETE /api/portfolios/{id}", s.handleDeletePortfolio)

	s.mux.HandleFunc("GET /api/portfolios/{id}/sections", s.handleListSections)
	s.mux.HandleFunc("POST /api/portfolios/{id}/sections", s.handleCreateSection)
	s.mux.HandleFunc("PUT /api/portfolios/{id}/sections/{sectionID}", s.handleUpdateSection)
	s.mux.HandleFunc("DELETE /api/portfolios/{id}/sections/{sectionID}", s.handleDeleteSection)

	s.mux.HandleFunc("POST /api/portfolios/{id}/items", s.handleCreateItem)
	s.mux.HandleFunc("PATCH /api/portfolios/{id}/items/{itemID}", s.handleUpdateItem)
	s.mux.HandleFunc("DELETE /api/portfolios/{id}/items/{itemID}", s.handleDeleteItem)

	s.mux.HandleFunc("POST /api/upload", s.handleUpload)
	s.mux.HandleFunc("GET "+s.mediaPrefix+"/{file}", s.handleGetMedia)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; img-src 'self'; media-src 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// HTTPServer returns an http.Server for addr with the API as its handler.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
