package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/canteen-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
)

func TestFiltersForStudentScopesOwnedRows(t *testing.T) {
	me := uuid.New()
	filters, err := FiltersFor(enums.RoleStudent, me, []enums.Collection{enums.CollectionOrders, enums.CollectionMenuItems, enums.CollectionOrders})
	require.NoError(t, err)
	require.Len(t, filters, 2)

	mine := Event{Collection: enums.CollectionOrders, UserID: &me}
	other := uuid.New()
	theirs := Event{Collection: enums.CollectionOrders, UserID: &other}
	menu := Event{Collection: enums.CollectionMenuItems}
	assert.True(t, MatchAny(filters, mine))
	assert.False(t, MatchAny(filters, theirs))
	assert.True(t, MatchAny(filters, menu))
}

func TestFiltersForStudentRejectsAdminCollections(t *testing.T) {
	_, err := FiltersFor(enums.RoleStudent, uuid.New(), []enums.Collection{enums.CollectionInventory})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = FiltersFor(enums.RoleStudent, uuid.New(), []enums.Collection{"widgets"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestFiltersForAdmin(t *testing.T) {
	me := uuid.New()
	filters, err := FiltersFor(enums.RoleAdmin, me, nil)
	require.NoError(t, err)
	require.Len(t, filters, 4)

	student := uuid.New()
	assert.True(t, MatchAny(filters, Event{Collection: enums.CollectionOrders, UserID: &student}))
	assert.True(t, MatchAny(filters, Event{Collection: enums.CollectionInventory}))
	assert.False(t, MatchAny(filters, Event{Collection: enums.CollectionNotifications, UserID: &student}))
	assert.True(t, MatchAny(filters, Event{Collection: enums.CollectionNotifications, UserID: &me}))
}

func TestFiltersForRejectsUnknownRole(t *testing.T) {
	_, err := FiltersFor("guest", uuid.New(), nil)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}
