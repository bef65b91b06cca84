package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/answer-validator.net/internal/core/ports/primary"
	"gitlab.com/answer-validator.net/internal/core/services/history"
	"gitlab.com/answer-validator.net/internal/core/services/validation"
	"gitlab.com/answer-validator.net/internal/handlers"
	"gitlab.com/answer-validator.net/internal/handlers/puzzles"
	validationhandler "gitlab.com/answer-validator.net/internal/handlers/validation"
)

type ServiceProvider struct {
	validationService validation.IValidationService
	historyService    history.IHistoryService

	// jwt is nil when bearer tokens are not configured
	jwt            primary.JWTService
	metricsHandler http.Handler
}

func NewServiceProvider(
	validationService validation.IValidationService,
	historyService history.IHistoryService,
	jwt primary.JWTService,
	metricsHandler http.Handler,
) *ServiceProvider {
	return &ServiceProvider{
		validationService: validationService,
		historyService:    historyService,
		jwt:               jwt,
		metricsHandler:    metricsHandler,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	handlers.NewHealthHandler(s.ServiceName).RegisterRoutes(r)
	if s.ServiceProvider.metricsHandler != nil {
		r.Handle("/metrics", s.ServiceProvider.metricsHandler).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(handlers.New(s.ServiceProvider.jwt, s.logger).IdentityMiddleware)
	validationhandler.
		NewValidationHandler(s.ServiceProvider.validationService, s.logger).
		RegisterRoutes(api)
	puzzles.
		NewPuzzleHandler(s.ServiceProvider.historyService, s.ServiceProvider.validationService, s.logger).
		RegisterRoutes(api)

	s.router = r
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr, "service", s.ServiceName)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

// Stop stops accepting requests and waits for in-flight ones until ctx is done
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", "error", err)
		return fmt.Errorf("failed to shutdown http server: %w", err)
	}
	return nil
}
