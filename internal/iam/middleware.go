package iam

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/HabibPro1999/cabinet-optimizer/internal/access"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/monitoring"
)

// AuthMiddleware authenticates requests and installs the session
// claims in the request context.
type AuthMiddleware struct {
	tokens  *TokenManager
	logger  *logger.Logger
	metrics *monitoring.MetricsCollector
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(tokens *TokenManager, log *logger.Logger, metrics *monitoring.MetricsCollector) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:  tokens,
		logger:  log,
		metrics: metrics,
	}
}

// Handler validates the Bearer token and rejects unauthenticated
// requests.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.unauthorized(w, "missing authorization header")
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			m.unauthorized(w, "authorization header must use the Bearer scheme")
			return
		}

		claims, err := m.tokens.ValidateToken(tokenString)
		if err != nil {
			m.metrics.RecordAuthAttempt("token", "failure")
			m.logger.WithError(err).Warn("Token validation failed")
			m.unauthorized(w, "invalid or expired token")
			return
		}

		m.metrics.RecordAuthAttempt("token", "success")
		next.ServeHTTP(w, r.WithContext(access.ContextWithClaims(r.Context(), claims)))
	})
}

func (m *AuthMiddleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  message,
		"status": http.StatusUnauthorized,
	})
}
