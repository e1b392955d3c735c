package analytics

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HabibPro1999/cabinet-optimizer/internal/access"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Handler exposes the analytics service over HTTP
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new analytics HTTP handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures analytics routes
func (h *Handler) RegisterRoutes(api *mux.Router, guard *access.Middleware) {
	api.Handle("/analytics/dashboard", guard.RequireViewAnalytics(http.HandlerFunc(h.dashboardHandler))).Methods("GET")
	api.Handle("/analytics/doctors", guard.RequireViewAnalytics(http.HandlerFunc(h.doctorStatsHandler))).Methods("GET")

	h.logger.Info("Analytics routes configured")
}

func (h *Handler) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	stats, err := h.service.DashboardStats(claims)
	if err != nil {
		h.writeServiceError(w, "Failed to build dashboard stats", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, stats)
}

func (h *Handler) doctorStatsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	stats, err := h.service.DoctorStats(claims, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		h.writeServiceError(w, "Failed to build doctor stats", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"doctors": stats,
		"count":   len(stats),
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, message string, err error) {
	var cerr *types.CabinetError
	if errors.As(err, &cerr) {
		switch cerr.Type {
		case types.ErrorTypeValidation:
			h.writeErrorResponse(w, http.StatusBadRequest, message, err)
		case types.ErrorTypeAuthentication:
			h.writeErrorResponse(w, http.StatusUnauthorized, message, err)
		case types.ErrorTypeAuthorization:
			h.writeErrorResponse(w, http.StatusForbidden, message, err)
		case types.ErrorTypeNotFound:
			h.writeErrorResponse(w, http.StatusNotFound, message, err)
		default:
			h.writeErrorResponse(w, http.StatusInternalServerError, message, err)
		}
		return
	}
	h.writeErrorResponse(w, http.StatusInternalServerError, message, err)
}

// writeJSONResponse writes a JSON response
func (h *Handler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (h *Handler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	if err != nil {
		h.logger.WithError(err).Error(message)
	}

	response := map[string]interface{}{
		"error":  message,
		"status": statusCode,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	h.writeJSONResponse(w, statusCode, response)
}
