package iam

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HabibPro1999/cabinet-optimizer/internal/access"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Handler exposes authentication and user management over HTTP
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new iam HTTP handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterPublicRoutes configures routes reachable without a session
func (h *Handler) RegisterPublicRoutes(api *mux.Router) {
	api.HandleFunc("/auth/login", h.loginHandler).Methods("POST")
}

// RegisterRoutes configures authenticated session and user management
// routes
func (h *Handler) RegisterRoutes(api *mux.Router, guard *access.Middleware) {
	api.HandleFunc("/auth/me", h.meHandler).Methods("GET")
	api.HandleFunc("/auth/nav", h.navHandler).Methods("GET")

	api.Handle("/users", guard.RequireManageUsers(http.HandlerFunc(h.listUsersHandler))).Methods("GET")
	api.Handle("/users", guard.RequireManageUsers(http.HandlerFunc(h.createUserHandler))).Methods("POST")
	api.Handle("/users/{id}", guard.RequireManageUsers(http.HandlerFunc(h.updateUserHandler))).Methods("PATCH")
	api.Handle("/users/{id}", guard.RequireManageUsers(http.HandlerFunc(h.deleteUserHandler))).Methods("DELETE")

	h.logger.Info("IAM routes configured")
}

type loginRequest struct {
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     types.Role `json:"role"`
	Password string     `json:"password"`
}

// loginHandler authenticates credentials and returns a session token
func (h *Handler) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	token, claims, err := h.service.Login(req.TenantID, &types.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeServiceError(w, "Login failed", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  claims,
	})
}

// meHandler returns the resolved session identity
func (h *Handler) meHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, claims)
}

// navHandler returns the navigation items visible to the session's
// role
func (h *Handler) navHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	items := h.service.Navigation(claims)
	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// createUserHandler handles staff account creation
func (h *Handler) createUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user := &types.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}

	created, err := h.service.CreateUser(claims, user, req.Password)
	if err != nil {
		h.writeServiceError(w, "Failed to create user", err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, created)
}

// updateUserHandler handles staff account updates
func (h *Handler) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var updates types.UserUpdates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.UpdateUser(claims, mux.Vars(r)["id"], &updates); err != nil {
		h.writeServiceError(w, "Failed to update user", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "User updated successfully"})
}

// deleteUserHandler handles staff account deletion
func (h *Handler) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.service.DeleteUser(claims, mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, "Failed to delete user", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// listUsersHandler lists the tenant's staff accounts
func (h *Handler) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	users, err := h.service.ListUsers(claims)
	if err != nil {
		h.writeServiceError(w, "Failed to list users", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
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
