package patients

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

// Handler exposes the patients service over HTTP
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new patients HTTP handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures patient and note routes
func (h *Handler) RegisterRoutes(api *mux.Router, guard *access.Middleware) {
	api.HandleFunc("/patients", h.searchPatientsHandler).Methods("GET")
	api.HandleFunc("/patients/{id}", h.getPatientHandler).Methods("GET")
	api.Handle("/patients", guard.RequireMutatePatient(http.HandlerFunc(h.createPatientHandler))).Methods("POST")
	api.Handle("/patients/{id}", guard.RequireMutatePatient(http.HandlerFunc(h.updatePatientHandler))).Methods("PATCH")
	api.Handle("/patients/{id}", guard.RequireMutatePatient(http.HandlerFunc(h.deletePatientHandler))).Methods("DELETE")

	api.HandleFunc("/patients/{id}/notes", h.getNotesHandler).Methods("GET")
	api.HandleFunc("/patients/{id}/notes", h.addNoteHandler).Methods("POST")

	h.logger.Info("Patient routes configured")
}

// createPatientHandler handles patient creation
func (h *Handler) createPatientHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var patient types.Patient
	if err := json.NewDecoder(r.Body).Decode(&patient); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.service.CreatePatient(claims, &patient)
	if err != nil {
		h.writeServiceError(w, "Failed to create patient", err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, created)
}

// getPatientHandler handles patient retrieval
func (h *Handler) getPatientHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	patient, err := h.service.GetPatient(claims, mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, "Failed to get patient", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, patient)
}

// updatePatientHandler handles partial patient updates
func (h *Handler) updatePatientHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var updates types.PatientUpdates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.UpdatePatient(claims, mux.Vars(r)["id"], &updates); err != nil {
		h.writeServiceError(w, "Failed to update patient", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Patient updated successfully"})
}

// deletePatientHandler handles patient deletion
func (h *Handler) deletePatientHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.service.DeletePatient(claims, mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, "Failed to delete patient", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Patient deleted successfully"})
}

// searchPatientsHandler handles patient listing and search
func (h *Handler) searchPatientsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	patients, err := h.service.SearchPatients(claims, r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		h.writeServiceError(w, "Failed to search patients", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"patients": patients,
		"count":    len(patients),
	})
}

// addNoteHandler attaches a note to a patient
func (h *Handler) addNoteHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var note types.Note
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.service.AddNote(claims, mux.Vars(r)["id"], &note)
	if err != nil {
		h.writeServiceError(w, "Failed to add note", err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, created)
}

// getNotesHandler lists a patient's notes
func (h *Handler) getNotesHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	notes, err := h.service.GetNotes(claims, mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, "Failed to get notes", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"notes": notes,
		"count": len(notes),
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
