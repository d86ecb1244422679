package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryItem tracks an ingredient or supply held by the kitchen.
type InventoryItem struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemName      string           `gorm:"column:item_name;not null" json:"item_name"`
	CurrentStock  decimal.Decimal  `gorm:"column:current_stock;type:numeric(10,2);not null;default:0" json:"current_stock"`
	MinimumStock  decimal.Decimal  `gorm:"column:minimum_stock;type:numeric(10,2);not null;default:0" json:"minimum_stock"`
	MaximumStock  decimal.Decimal  `gorm:"column:maximum_stock;type:numeric(10,2);not null" json:"maximum_stock"`
	Unit          string           `gorm:"column:unit;not null" json:"unit"`
	CostPerUnit   *decimal.Decimal `gorm:"column:cost_per_unit;type:numeric(10,2)" json:"cost_per_unit,omitempty"`
	Supplier      *string          `gorm:"column:supplier" json:"supplier,omitempty"`
	LastRestocked *time.Time       `gorm:"column:last_restocked" json:"last_restocked,omitempty"`
	ExpiryDate    *time.Time       `gorm:"column:expiry_date;type:date" json:"expiry_date,omitempty"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InventoryItem) TableName() string { return "inventory" }
