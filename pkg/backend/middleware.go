package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-profile/pkg/db"
)

// RequestIDHeader carries the per-request identifier
const RequestIDHeader = "X-Request-ID"

type contextKey int

const (
	requestIDKey contextKey = iota
	volunteerDNIKey
)

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// requestLogging tags each request with an ID (reusing the caller's when sent) and logs its outcome
func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID)))

		s.logger.Info("Request handled",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", requestID))
	})
}

// requireVolunteer resolves the bearer token to a volunteer DNI or answers 401
func (s *Server) requireVolunteer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, msgUnauthenticated, nil)
			return
		}

		dni, err := s.store.GetVolunteerDNIByToken(r.Context(), token)
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, msgUnauthenticated, nil)
			return
		}
		if err != nil {
			s.logger.Error("Failed to resolve token", zap.Error(err))
			writeError(w, http.StatusInternalServerError, msgInternal, nil)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), volunteerDNIKey, dni)))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func volunteerDNI(ctx context.Context) string {
	dni, _ := ctx.Value(volunteerDNIKey).(string)
	return dni
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
