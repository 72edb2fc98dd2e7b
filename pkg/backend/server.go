package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/pkg/db"
)

// Store is the data access the backend needs
type Store interface {
	db.ReferenceStore
	db.VolunteerStore
}

// Server serves the volunteer profile REST API
type Server struct {
	store  Store
	logger *zap.Logger
}

// NewServer creates a server backed by store
func NewServer(store Store, logger *zap.Logger) *Server {
	return &Server{store: store, logger: logger}
}

// Router registers every route
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogging)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ciclos", s.handleGetCycles).Methods(http.MethodGet)
	api.HandleFunc("/categories/{kind}", s.handleGetCategories).Methods(http.MethodGet)

	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/profile", s.requireVolunteer(s.handleGetProfile)).Methods(http.MethodGet)
	auth.HandleFunc("/profile", s.requireVolunteer(s.handleUpdateProfile)).Methods(http.MethodPut)

	return r
}

// Handler wraps the router with CORS for the given origins. No origins allows any.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	}).Handler(s.Router())
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts down gracefully
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Backend listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	<-errChan

	logger.Info("Backend stopped")
	return nil
}
