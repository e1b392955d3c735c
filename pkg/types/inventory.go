package types

import "time"

// InventoryItem represents a stock item (equipment or consumable)
type InventoryItem struct {
	ID          string    `json:"id" db:"id"`
	TenantID    string    `json:"tenant_id" db:"tenant_id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Quantity    int       `json:"quantity" db:"quantity"`
	MinQuantity int       `json:"min_quantity" db:"min_quantity"`
	Unit        string    `json:"unit" db:"unit"`
	Price       float64   `json:"price" db:"price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// LowStock reports whether the item has fallen to or below its
// reorder threshold.
func (i *InventoryItem) LowStock() bool {
	return i.Quantity <= i.MinQuantity
}

// InventoryItemUpdates represents updates to an inventory item
type InventoryItemUpdates struct {
	Name        *string  `json:"name,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
	MinQuantity *int     `json:"min_quantity,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}
