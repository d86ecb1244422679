package orders

import (
	"time"

	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

// NextStatus returns the stage that follows current on the kitchen board.
// ok is false for completed, cancelled and unknown statuses.
func NextStatus(current enums.OrderStatus) (enums.OrderStatus, bool) {
	return current.Next()
}

// transitionStamps returns the timestamp columns written when an order enters to.
func transitionStamps(to enums.OrderStatus, now time.Time) map[string]any {
	stamps := map[string]any{}
	switch to {
	case enums.OrderStatusReady:
		stamps["estimated_ready_time"] = now
	case enums.OrderStatusCompleted:
		stamps["actual_ready_time"] = now
	}
	return stamps
}
