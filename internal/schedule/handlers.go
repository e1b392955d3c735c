package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/HabibPro1999/cabinet-optimizer/internal/access"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Handler exposes the schedule service over HTTP
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new schedule HTTP handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures appointment and week view routes
func (h *Handler) RegisterRoutes(api *mux.Router, guard *access.Middleware) {
	api.HandleFunc("/appointments", h.listAppointmentsHandler).Methods("GET")
	api.HandleFunc("/appointments/{id}", h.getAppointmentHandler).Methods("GET")
	api.Handle("/appointments", guard.RequireMutateAppointment(http.HandlerFunc(h.createAppointmentHandler))).Methods("POST")
	api.Handle("/appointments/{id}", guard.RequireMutateAppointment(http.HandlerFunc(h.updateAppointmentHandler))).Methods("PATCH")
	api.Handle("/appointments/{id}", guard.RequireMutateAppointment(http.HandlerFunc(h.deleteAppointmentHandler))).Methods("DELETE")

	api.HandleFunc("/schedule/week", h.weekViewHandler).Methods("GET")

	h.logger.Info("Schedule routes configured")
}

// createAppointmentHandler handles appointment creation
func (h *Handler) createAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var apt types.Appointment
	if err := json.NewDecoder(r.Body).Decode(&apt); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.service.CreateAppointment(claims, &apt)
	if err != nil {
		h.writeServiceError(w, "Failed to create appointment", err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, created)
}

// getAppointmentHandler handles appointment retrieval
func (h *Handler) getAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	apt, err := h.service.GetAppointment(claims, mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, "Failed to get appointment", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, apt)
}

// updateAppointmentHandler handles partial appointment updates
func (h *Handler) updateAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var updates types.AppointmentUpdates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.UpdateAppointment(claims, mux.Vars(r)["id"], &updates); err != nil {
		h.writeServiceError(w, "Failed to update appointment", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Appointment updated successfully"})
}

// deleteAppointmentHandler handles appointment deletion
func (h *Handler) deleteAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.service.DeleteAppointment(claims, mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, "Failed to delete appointment", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Appointment deleted successfully"})
}

// listAppointmentsHandler handles filtered appointment listing
func (h *Handler) listAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	filters := &types.AppointmentFilters{
		DoctorID:  r.URL.Query().Get("doctorId"),
		PatientID: r.URL.Query().Get("patientId"),
		Status:    types.AppointmentStatus(r.URL.Query().Get("status")),
		FromDate:  r.URL.Query().Get("from"),
		ToDate:    r.URL.Query().Get("to"),
		Search:    r.URL.Query().Get("search"),
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filters.Limit = l
		}
	}
	if offset := r.URL.Query().Get("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil {
			filters.Offset = o
		}
	}

	appointments, err := h.service.ListAppointments(claims, filters)
	if err != nil {
		h.writeServiceError(w, "Failed to list appointments", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// weekViewHandler returns the assembled week grid around the "date"
// query parameter, defaulting to the current week.
func (h *Handler) weekViewHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	view, err := h.service.WeekView(claims, r.URL.Query().Get("date"))
	if err != nil {
		h.writeServiceError(w, "Failed to build week view", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, view)
}

// writeServiceError translates structured service errors into HTTP
// status codes.
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
		case types.ErrorTypeConflict:
			h.writeErrorResponse(w, http.StatusConflict, message, err)
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
