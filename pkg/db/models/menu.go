package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/angelmondragon/canteen-backend/pkg/db/types"
)

type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	ImageURL    *string   `gorm:"column:image_url" json:"image_url,omitempty"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Category) TableName() string { return "categories" }

// MenuItem is a dish on the menu. OrderItems is only populated for analytics loads.
type MenuItem struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string            `gorm:"column:name;not null" json:"name"`
	Description     *string           `gorm:"column:description" json:"description,omitempty"`
	Price           decimal.Decimal   `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	CategoryID      *uuid.UUID        `gorm:"column:category_id;type:uuid" json:"category_id,omitempty"`
	ImageURL        *string           `gorm:"column:image_url" json:"image_url,omitempty"`
	IsAvailable     bool              `gorm:"column:is_available;not null" json:"is_available"`
	PreparationTime int               `gorm:"column:preparation_time;not null;default:15" json:"preparation_time"`
	Allergens       dbtypes.TextArray `gorm:"column:allergens;type:text[]" json:"allergens"`
	NutritionalInfo map[string]any    `gorm:"column:nutritional_info;type:jsonb;serializer:json" json:"nutritional_info,omitempty"`
	Category        *Category         `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	OrderItems      []OrderItem       `gorm:"foreignKey:MenuItemID" json:"order_items,omitempty"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (MenuItem) TableName() string { return "menu_items" }
