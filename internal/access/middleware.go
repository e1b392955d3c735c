package access

import (
	"encoding/json"
	"net/http"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/monitoring"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Middleware enforces role permissions on mutating routes. A denied
// check is a normal 403 response, never a server error.
type Middleware struct {
	logger  *logger.Logger
	metrics *monitoring.MetricsCollector
}

// NewMiddleware creates a new access control middleware
func NewMiddleware(log *logger.Logger, metrics *monitoring.MetricsCollector) *Middleware {
	return &Middleware{
		logger:  log,
		metrics: metrics,
	}
}

// Require wraps a handler with a permission predicate over the session
// role. Requests without resolved claims are rejected as unauthorized.
func (m *Middleware) Require(action string, allowed func(types.Role) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				m.writeDenied(w, http.StatusUnauthorized, types.NewAuthenticationError(
					types.ErrCodeUnauthorized, "authentication required"))
				return
			}

			if !allowed(claims.Role) {
				m.logger.AccessDenied(claims.UserID, string(claims.Role), action)
				m.metrics.RecordAccessDenial(string(claims.Role), action)
				m.writeDenied(w, http.StatusForbidden, types.NewAuthorizationError(
					types.ErrCodeForbidden, "role does not permit this action"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireMutatePatient guards patient create/edit/delete routes
func (m *Middleware) RequireMutatePatient(next http.Handler) http.Handler {
	return m.Require("patient:mutate", CanMutatePatient)(next)
}

// RequireMutateAppointment guards appointment create/edit/delete routes
func (m *Middleware) RequireMutateAppointment(next http.Handler) http.Handler {
	return m.Require("appointment:mutate", CanMutateAppointment)(next)
}

// RequireManageUsers guards user management routes
func (m *Middleware) RequireManageUsers(next http.Handler) http.Handler {
	return m.Require("users:manage", CanManageUsers)(next)
}

// RequireViewAnalytics guards analytics routes
func (m *Middleware) RequireViewAnalytics(next http.Handler) http.Handler {
	return m.Require("analytics:view", CanViewAnalytics)(next)
}

func (m *Middleware) writeDenied(w http.ResponseWriter, statusCode int, cerr *types.CabinetError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(cerr)
}
