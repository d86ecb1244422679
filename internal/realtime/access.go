package realtime

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/canteen-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
)

// Rows in these collections belong to one profile and are only streamed to
// their owner. Admins see other owners' orders and stats but only their own
// notifications.
var ownedCollections = map[enums.Collection]bool{
	enums.CollectionOrders:        true,
	enums.CollectionUserStats:     true,
	enums.CollectionNotifications: true,
}

var publicCollections = map[enums.Collection]bool{
	enums.CollectionMenuItems:  true,
	enums.CollectionCategories: true,
}

var defaultCollections = map[enums.Role][]enums.Collection{
	enums.RoleStudent: {enums.CollectionOrders, enums.CollectionNotifications, enums.CollectionUserStats, enums.CollectionMenuItems},
	enums.RoleAdmin:   {enums.CollectionOrders, enums.CollectionInventory, enums.CollectionNotifications, enums.CollectionMenuItems},
}

// FiltersFor scopes a stream request to what the role may read. An empty
// request selects the role's default collections.
func FiltersFor(role enums.Role, userID uuid.UUID, requested []enums.Collection) ([]Filter, error) {
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role cannot subscribe")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	if len(requested) == 0 {
		requested = defaultCollections[role]
	}

	owner := userID
	seen := map[enums.Collection]bool{}
	filters := make([]Filter, 0, len(requested))
	for _, collection := range requested {
		if seen[collection] {
			continue
		}
		seen[collection] = true

		switch {
		case !collection.IsValid():
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown collection").
				WithDetails(map[string]any{"collection": string(collection)})
		case publicCollections[collection]:
			filters = append(filters, Filter{Collection: collection})
		case role == enums.RoleAdmin && collection != enums.CollectionNotifications:
			filters = append(filters, Filter{Collection: collection})
		case ownedCollections[collection]:
			filters = append(filters, Filter{Collection: collection, UserID: &owner})
		default:
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "collection not readable by role").
				WithDetails(map[string]any{"collection": string(collection), "role": string(role)})
		}
	}
	return filters, nil
}
