package orders

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

// LineInput is one cart line.
type LineInput struct {
	MenuItemID      uuid.UUID `json:"menu_item_id" validate:"required"`
	Quantity        int       `json:"quantity" validate:"required,min=1,max=50"`
	SpecialRequests *string   `json:"special_requests,omitempty" validate:"omitempty,max=500"`
}

// PlaceOrderInput is a submitted cart.
type PlaceOrderInput struct {
	Items               []LineInput `json:"items" validate:"required,min=1,max=25,dive"`
	SpecialInstructions *string     `json:"special_instructions,omitempty" validate:"omitempty,max=500"`
}

// Actor is the caller asking for an order.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
}

// Card is an order on the kitchen board with the action it offers.
type Card struct {
	models.Order
	ShortID    string             `json:"short_id"`
	NextStatus *enums.OrderStatus `json:"next_status,omitempty"`
}

// Column is one lifecycle stage on the board.
type Column struct {
	Status enums.OrderStatus `json:"status"`
	Title  string            `json:"title"`
	Count  int               `json:"count"`
	Orders []Card            `json:"orders"`
}

// Board is the admin kanban view, one column per forward stage.
type Board struct {
	Columns []Column `json:"columns"`
	Total   int      `json:"total"`
}
