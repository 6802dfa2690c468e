// Package api exposes the list and catalog use cases as a JSON HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/shoplist/internal/apperrors"
	"github.com/Kerhoff/shoplist/internal/usecase/catalog"
	"github.com/Kerhoff/shoplist/internal/usecase/lists"
	"github.com/Kerhoff/shoplist/internal/validation"
)

// Pinger reports whether the storage is reachable. *sql.DB implements it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server provides the HTTP API.
type Server struct {
	lists    *lists.UseCases
	catalog  *catalog.Service
	db       Pinger
	validate *validation.Validator
	logger   *logrus.Entry
	router   *chi.Mux
}

// NewServer creates a Server and registers all routes.
func NewServer(uc *lists.UseCases, cat *catalog.Service, db Pinger, logger *logrus.Entry) *Server {
	s := &Server{
		lists:    uc,
		catalog:  cat,
		db:       db,
		validate: validation.New(),
		logger:   logger,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HandlePost registers an extra POST endpoint, such as the bot webhook.
func (s *Server) HandlePost(pattern string, h http.Handler) {
	s.router.Method(http.MethodPost, pattern, h)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) routes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/lists", func(r chi.Router) {
			r.Get("/", s.handleGetUserLists)
			r.Post("/", s.handleCreateList)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetList)
				r.Patch("/", s.handleUpdateList)
				r.Delete("/", s.handleDeleteList)
				r.Post("/use", s.handleUseList)

				r.Get("/products", s.handleGetListProducts)
				r.Post("/products", s.handleAddProduct)
				r.Delete("/products/{productID}", s.handleRemoveProduct)
				r.Put("/products/{productID}/quantity", s.handleUpdateQuantity)
				r.Put("/products/{productID}/purchased", s.handleMarkPurchased)
				r.Delete("/products/{productID}/purchased", s.handleUnmarkPurchased)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", s.handleListProducts)
			r.Post("/", s.handleCreateProduct)
			r.Get("/{id}", s.handleGetProduct)
			r.Delete("/{id}", s.handleDeleteProduct)
		})
	})
}

// requestLogger logs every request once it has been served.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("Served request")
	})
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			s.logger.WithError(err).Warn("Health check failed")
			s.respondJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			return
		}
	}
	s.respondJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

type errorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

// respondError maps err to a status and an error body. Errors outside the
// application taxonomy are logged and reported as internal.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		s.respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error: "internal server error",
			Code:  string(apperrors.CodeInternal),
		})
		return
	}

	if appErr.Code == apperrors.CodeInternal {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	s.respondJSON(w, appErr.HTTPStatus(), errorResponse{
		Error:   appErr.Message,
		Code:    string(appErr.Code),
		Details: appErr.Details,
	})
}

// decodeJSON reads the request body into dst and validates its struct tags.
func (s *Server) decodeJSON(r *http.Request, op apperrors.Op, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.Validation(op, "request body is empty")
		}
		return apperrors.Validationf(op, "invalid JSON: %v", err)
	}
	return s.validate.Struct(op, dst)
}
