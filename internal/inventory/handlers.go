package inventory

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HabibPro1999/cabinet-optimizer/internal/access"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Handler exposes the inventory service over HTTP
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new inventory HTTP handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures inventory routes. The whole surface is
// admin-only, enforced both here and in the service.
func (h *Handler) RegisterRoutes(api *mux.Router, guard *access.Middleware) {
	requireAdmin := guard.Require("inventory", func(role types.Role) bool {
		return role == types.RoleAdmin
	})
	admin := func(fn http.HandlerFunc) http.Handler {
		return requireAdmin(fn)
	}

	api.Handle("/inventory", admin(h.listItemsHandler)).Methods("GET")
	api.Handle("/inventory/low-stock", admin(h.lowStockHandler)).Methods("GET")
	api.Handle("/inventory/{id}", admin(h.getItemHandler)).Methods("GET")
	api.Handle("/inventory", admin(h.createItemHandler)).Methods("POST")
	api.Handle("/inventory/{id}", admin(h.updateItemHandler)).Methods("PATCH")
	api.Handle("/inventory/{id}", admin(h.deleteItemHandler)).Methods("DELETE")

	h.logger.Info("Inventory routes configured")
}

func (h *Handler) createItemHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var item types.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	created, err := h.service.CreateItem(claims, &item)
	if err != nil {
		h.writeServiceError(w, "Failed to create inventory item", err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, created)
}

func (h *Handler) getItemHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	item, err := h.service.GetItem(claims, mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, "Failed to get inventory item", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, item)
}

func (h *Handler) updateItemHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var updates types.InventoryItemUpdates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := h.service.UpdateItem(claims, mux.Vars(r)["id"], &updates); err != nil {
		h.writeServiceError(w, "Failed to update inventory item", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Inventory item updated successfully"})
}

func (h *Handler) deleteItemHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.service.DeleteItem(claims, mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, "Failed to delete inventory item", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Inventory item deleted successfully"})
}

func (h *Handler) listItemsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	items, err := h.service.ListItems(claims, r.URL.Query().Get("category"))
	if err != nil {
		h.writeServiceError(w, "Failed to list inventory items", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

func (h *Handler) lowStockHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := access.ClaimsFromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	items, err := h.service.LowStockItems(claims)
	if err != nil {
		h.writeServiceError(w, "Failed to list low stock items", err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
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
