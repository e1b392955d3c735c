package inventory

import (
	"strings"

	"github.com/google/uuid"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Service implements stock management. Inventory is admin territory;
// every call is gated on the caller's role.
type Service struct {
	logger     *logger.Logger
	repository Repository
}

// NewService creates a new inventory service
func NewService(log *logger.Logger, repo Repository) *Service {
	return &Service{
		logger:     log,
		repository: repo,
	}
}

func (s *Service) requireAdmin(claims *types.UserClaims, action string) error {
	if claims.Role != types.RoleAdmin {
		s.logger.AccessDenied(claims.UserID, string(claims.Role), action)
		return types.NewAuthorizationError(types.ErrCodeForbidden, "inventory requires the admin role")
	}
	return nil
}

// CreateItem validates and persists a new inventory item
func (s *Service) CreateItem(claims *types.UserClaims, item *types.InventoryItem) (*types.InventoryItem, error) {
	if err := s.requireAdmin(claims, "inventory:create"); err != nil {
		return nil, err
	}

	if strings.TrimSpace(item.Name) == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "item name is required", nil)
	}
	if item.Quantity < 0 || item.MinQuantity < 0 {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "quantities cannot be negative", nil)
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.TenantID = claims.TenantID

	if err := s.repository.CreateItem(claims.TenantID, item); err != nil {
		return nil, err
	}

	s.logger.Audit(claims.UserID, "inventory:create", item.ID, true, nil)
	return item, nil
}

// GetItem retrieves an inventory item
func (s *Service) GetItem(claims *types.UserClaims, id string) (*types.InventoryItem, error) {
	if err := s.requireAdmin(claims, "inventory:read"); err != nil {
		return nil, err
	}
	return s.repository.GetItemByID(claims.TenantID, id)
}

// UpdateItem applies partial updates to an inventory item
func (s *Service) UpdateItem(claims *types.UserClaims, id string, updates *types.InventoryItemUpdates) error {
	if err := s.requireAdmin(claims, "inventory:update"); err != nil {
		return err
	}

	if updates.Quantity != nil && *updates.Quantity < 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "quantity cannot be negative", nil)
	}
	if updates.MinQuantity != nil && *updates.MinQuantity < 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "min quantity cannot be negative", nil)
	}

	if err := s.repository.UpdateItem(claims.TenantID, id, updates); err != nil {
		return err
	}

	s.logger.Audit(claims.UserID, "inventory:update", id, true, nil)
	return nil
}

// DeleteItem removes an inventory item
func (s *Service) DeleteItem(claims *types.UserClaims, id string) error {
	if err := s.requireAdmin(claims, "inventory:delete"); err != nil {
		return err
	}

	if err := s.repository.DeleteItem(claims.TenantID, id); err != nil {
		return err
	}

	s.logger.Audit(claims.UserID, "inventory:delete", id, true, nil)
	return nil
}

// ListItems retrieves the tenant's inventory
func (s *Service) ListItems(claims *types.UserClaims, category string) ([]*types.InventoryItem, error) {
	if err := s.requireAdmin(claims, "inventory:list"); err != nil {
		return nil, err
	}
	return s.repository.GetItems(claims.TenantID, category)
}

// LowStockItems returns the items at or below their reorder threshold
func (s *Service) LowStockItems(claims *types.UserClaims) ([]*types.InventoryItem, error) {
	items, err := s.ListItems(claims, "")
	if err != nil {
		return nil, err
	}

	low := make([]*types.InventoryItem, 0)
	for _, item := range items {
		if item.LowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}
