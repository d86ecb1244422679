package enums

import "fmt"

// Collection names a stored row set that emits change events.
type Collection string

const (
	CollectionProfiles      Collection = "profiles"
	CollectionMenuItems     Collection = "menu_items"
	CollectionCategories    Collection = "categories"
	CollectionOrders        Collection = "orders"
	CollectionOrderItems    Collection = "order_items"
	CollectionInventory     Collection = "inventory"
	CollectionUserStats     Collection = "user_stats"
	CollectionNotifications Collection = "notifications"
)

var validCollections = []Collection{
	CollectionProfiles,
	CollectionMenuItems,
	CollectionCategories,
	CollectionOrders,
	CollectionOrderItems,
	CollectionInventory,
	CollectionUserStats,
	CollectionNotifications,
}

func (c Collection) IsValid() bool {
	for _, candidate := range validCollections {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCollection converts raw input into a Collection.
func ParseCollection(value string) (Collection, error) {
	for _, candidate := range validCollections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid collection %q", value)
}

// ChangeKind is the row-level mutation carried by a change event.
type ChangeKind string

const (
	ChangeInsert ChangeKind = "INSERT"
	ChangeUpdate ChangeKind = "UPDATE"
	ChangeDelete ChangeKind = "DELETE"
)

func (k ChangeKind) IsValid() bool {
	return k == ChangeInsert || k == ChangeUpdate || k == ChangeDelete
}
