package models

// InventoryItem is shop stock (powder, media, packaging) consumed by jobs.
type InventoryItem struct {
	Base
	Name         string  `gorm:"not null;index" json:"name"`
	SKU          string  `gorm:"uniqueIndex" json:"sku,omitempty"`
	Quantity     int     `gorm:"not null;default:0" json:"quantity"`
	Unit         string  `json:"unit,omitempty"`
	ReorderLevel int     `gorm:"default:0" json:"reorder_level"`
	UnitCost     float64 `gorm:"default:0" json:"unit_cost"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
