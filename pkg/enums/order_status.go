package enums

import "fmt"

// OrderStatus tracks where an order sits in the canteen workflow.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStages is the forward lifecycle shown on the kitchen board. Cancelled is not part of it.
var OrderStages = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
}

var validOrderStatuses = append(append([]OrderStatus{}, OrderStages...), OrderStatusCancelled)

// OrderStatuses lists every status, forward stages first and cancelled last.
func OrderStatuses() []OrderStatus {
	return append([]OrderStatus{}, validOrderStatuses...)
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// StageIndex returns the position in OrderStages, or -1 for cancelled and unknown values.
func (s OrderStatus) StageIndex() int {
	for i, stage := range OrderStages {
		if stage == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether the order has left the kitchen flow for good.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Next returns the following stage. ok is false for completed, cancelled and unknown values.
func (s OrderStatus) Next() (OrderStatus, bool) {
	idx := s.StageIndex()
	if idx < 0 || idx+1 >= len(OrderStages) {
		return "", false
	}
	return OrderStages[idx+1], true
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
