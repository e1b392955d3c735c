package inventory

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/HabibPro1999/cabinet-optimizer/pkg/database"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/logger"
	"github.com/HabibPro1999/cabinet-optimizer/pkg/types"
)

// Repository defines inventory persistence, scoped to a tenant.
type Repository interface {
	CreateItem(tenantID string, item *types.InventoryItem) error
	GetItemByID(tenantID, id string) (*types.InventoryItem, error)
	UpdateItem(tenantID, id string, updates *types.InventoryItemUpdates) error
	DeleteItem(tenantID, id string) error
	GetItems(tenantID, category string) ([]*types.InventoryItem, error)
}

// SQLRepository implements Repository over postgres
type SQLRepository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new inventory repository
func NewRepository(db *database.DB, log *logger.Logger) Repository {
	return &SQLRepository{
		db:     db,
		logger: log,
	}
}

// CreateItem creates a new inventory item
func (r *SQLRepository) CreateItem(tenantID string, item *types.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, tenant_id, name, category, quantity, min_quantity, unit, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		item.ID,
		tenantID,
		item.Name,
		item.Category,
		item.Quantity,
		item.MinQuantity,
		item.Unit,
		item.Price,
	)

	if err != nil {
		r.logger.WithError(err).Error("Failed to create inventory item")
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	r.logger.WithTenant(tenantID).Infof("Created inventory item %s", item.ID)
	return nil
}

// GetItemByID retrieves an inventory item by ID
func (r *SQLRepository) GetItemByID(tenantID, id string) (*types.InventoryItem, error) {
	query := `
		SELECT id, tenant_id, name, category, quantity, min_quantity, unit, price, created_at, updated_at
		FROM inventory_items
		WHERE tenant_id = $1 AND id = $2`

	item := &types.InventoryItem{}
	err := r.db.QueryRow(query, tenantID, id).Scan(
		&item.ID,
		&item.TenantID,
		&item.Name,
		&item.Category,
		&item.Quantity,
		&item.MinQuantity,
		&item.Unit,
		&item.Price,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("inventory item not found: %s", id))
		}
		r.logger.WithError(err).Errorf("Failed to get inventory item %s", id)
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}

	return item, nil
}

// UpdateItem updates an existing inventory item
func (r *SQLRepository) UpdateItem(tenantID, id string, updates *types.InventoryItemUpdates) error {
	setParts := []string{}
	args := []interface{}{}
	argIndex := 1

	if updates.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", argIndex))
		args = append(args, *updates.Name)
		argIndex++
	}

	if updates.Category != nil {
		setParts = append(setParts, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *updates.Category)
		argIndex++
	}

	if updates.Quantity != nil {
		setParts = append(setParts, fmt.Sprintf("quantity = $%d", argIndex))
		args = append(args, *updates.Quantity)
		argIndex++
	}

	if updates.MinQuantity != nil {
		setParts = append(setParts, fmt.Sprintf("min_quantity = $%d", argIndex))
		args = append(args, *updates.MinQuantity)
		argIndex++
	}

	if updates.Unit != nil {
		setParts = append(setParts, fmt.Sprintf("unit = $%d", argIndex))
		args = append(args, *updates.Unit)
		argIndex++
	}

	if updates.Price != nil {
		setParts = append(setParts, fmt.Sprintf("price = $%d", argIndex))
		args = append(args, *updates.Price)
		argIndex++
	}

	if len(setParts) == 0 {
		return types.NewValidationError(types.ErrCodeInvalidInput, "no updates provided", nil)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", argIndex))
	args = append(args, time.Now())
	argIndex++

	query := fmt.Sprintf("UPDATE inventory_items SET %s WHERE tenant_id = $%d AND id = $%d",
		strings.Join(setParts, ", "), argIndex, argIndex+1)
	args = append(args, tenantID, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		r.logger.WithError(err).Errorf("Failed to update inventory item %s", id)
		return fmt.Errorf("failed to update inventory item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("inventory item not found: %s", id))
	}

	return nil
}

// DeleteItem deletes an inventory item
func (r *SQLRepository) DeleteItem(tenantID, id string) error {
	result, err := r.db.Exec(`DELETE FROM inventory_items WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		r.logger.WithError(err).Errorf("Failed to delete inventory item %s", id)
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return types.NewNotFoundError(types.ErrCodeNotFound, fmt.Sprintf("inventory item not found: %s", id))
	}

	return nil
}

// GetItems retrieves the tenant's inventory, optionally filtered by
// category, ordered by name.
func (r *SQLRepository) GetItems(tenantID, category string) ([]*types.InventoryItem, error) {
	query := `
		SELECT id, tenant_id, name, category, quantity, min_quantity, unit, price, created_at, updated_at
		FROM inventory_items
		WHERE tenant_id = $1`

	args := []interface{}{tenantID}
	if category != "" {
		query += " AND category = $2"
		args = append(args, category)
	}
	query += " ORDER BY name ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query inventory items")
		return nil, fmt.Errorf("failed to query inventory items: %w", err)
	}
	defer rows.Close()

	var items []*types.InventoryItem
	for rows.Next() {
		item := &types.InventoryItem{}
		err := rows.Scan(
			&item.ID,
			&item.TenantID,
			&item.Name,
			&item.Category,
			&item.Quantity,
			&item.MinQuantity,
			&item.Unit,
			&item.Price,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory items: %w", err)
	}

	return items, nil
}
