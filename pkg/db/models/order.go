package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

// Order is a student's submitted cart. TotalAmount never changes after insert.
type Order struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID              uuid.UUID           `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Status              enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	TotalAmount         decimal.Decimal     `gorm:"column:total_amount;type:numeric(10,2);not null" json:"total_amount"`
	PaymentStatus       enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'" json:"payment_status"`
	PaymentMethod       *string             `gorm:"column:payment_method" json:"payment_method,omitempty"`
	SpecialInstructions *string             `gorm:"column:special_instructions" json:"special_instructions,omitempty"`
	EstimatedReadyTime  *time.Time          `gorm:"column:estimated_ready_time" json:"estimated_ready_time,omitempty"`
	ActualReadyTime     *time.Time          `gorm:"column:actual_ready_time" json:"actual_ready_time,omitempty"`
	Items               []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one cart line. TotalPrice equals Quantity x UnitPrice when written.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID         uuid.UUID       `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	MenuItemID      uuid.UUID       `gorm:"column:menu_item_id;type:uuid;not null" json:"menu_item_id"`
	Quantity        int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null" json:"unit_price"`
	TotalPrice      decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null" json:"total_price"`
	SpecialRequests *string         `gorm:"column:special_requests" json:"special_requests,omitempty"`
	MenuItem        *MenuItem       `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }
