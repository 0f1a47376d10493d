package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/wefi-dex/munchclub-admin/internal/config"
	"github.com/wefi-dex/munchclub-admin/internal/service"
	apperrors "github.com/wefi-dex/munchclub-admin/pkg/errors"
	"github.com/wefi-dex/munchclub-admin/pkg/logger"
	"github.com/wefi-dex/munchclub-admin/pkg/ratelimit"
)

// Services are the application services the HTTP surface dispatches to
type Services struct {
	Orders  *service.OrderService
	Printer *service.PrinterService
	Coupons *service.CouponService
	Users   *service.UserService
	Admin   *service.AdminService
}

// HealthCheck reports whether one dependency is reachable
type HealthCheck func(ctx context.Context) error

type Server struct {
	config         *config.Config
	logger         logger.Logger
	router         *mux.Router
	httpServer     *http.Server
	services       Services
	validate       *validator.Validate
	checks         map[string]HealthCheck
	refreshLimiter *ratelimit.KeyedLimiter
}

// NewServer creates the HTTP server and registers its routes. Dependencies
// are built and owned by the caller.
func NewServer(cfg *config.Config, services Services, checks map[string]HealthCheck, logger logger.Logger) *Server {
	r := mux.NewRouter()

	server := &Server{
		config: cfg,
		logger: logger,
		router: r,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		services:       services,
		validate:       newValidator(),
		checks:         checks,
		refreshLimiter: newRefreshLimiter(cfg.Limits.PrinterRefreshBurst, cfg.Limits.PrinterRefreshPerSec),
	}

	server.setupRoutes()

	return server
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// setupRoutes configures all the routes of the admin API
func (s *Server) setupRoutes() {
	s.router.Use(s.recoveryMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/health", s.healthCheckHandler).Methods(http.MethodGet)

	s.router.HandleFunc("/orders", s.listOrdersHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/orders/{id}", s.getOrderDetailHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/orders/{id}", s.updateOrderStatusHandler).Methods(http.MethodPatch)
	s.router.HandleFunc("/orders/{id}", s.deleteOrderHandler).Methods(http.MethodDelete)
	s.router.Handle("/orders/{id}/printer-status",
		s.refreshLimitMiddleware(http.HandlerFunc(s.refreshPrinterStatusHandler))).Methods(http.MethodGet)

	s.router.HandleFunc("/coupons", s.listCouponsHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/coupons/{id}", s.redeemCouponHandler).Methods(http.MethodPatch)

	s.router.HandleFunc("/users", s.listUsersHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/users/{id}", s.deleteUserHandler).Methods(http.MethodDelete)
	s.router.HandleFunc("/books", s.listBooksHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/recipes", s.listRecipesHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/payments", s.listPaymentsHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/stats", s.statsHandler).Methods(http.MethodGet)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respondWithError(w, http.StatusNotFound, "Route not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware for logging requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("Request processed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"remoteAddr", r.RemoteAddr,
		)
	})
}

// recoveryMiddleware turns a handler panic into a generic 500
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("Handler panicked", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondWithError(w, http.StatusInternalServerError, apperrors.GenericInternalMessage)
			}
		}()

		next.ServeHTTP(w, r)
	})
}
