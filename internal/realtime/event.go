package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/canteen-backend/pkg/enums"
)

// Event is one row-level change. Row holds the JSON of the row after the change
// (or before it, for deletes). UserID is set for rows that belong to one profile.
type Event struct {
	Collection enums.Collection `json:"collection"`
	Kind       enums.ChangeKind `json:"kind"`
	Key        uuid.UUID        `json:"key"`
	UserID     *uuid.UUID       `json:"user_id,omitempty"`
	Row        json.RawMessage  `json:"row,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewEvent marshals row into an Event.
func NewEvent(collection enums.Collection, kind enums.ChangeKind, key uuid.UUID, owner *uuid.UUID, row any, now time.Time) (Event, error) {
	if !collection.IsValid() {
		return Event{}, fmt.Errorf("invalid collection %q", collection)
	}
	if !kind.IsValid() {
		return Event{}, fmt.Errorf("invalid change kind %q", kind)
	}
	if key == uuid.Nil {
		return Event{}, fmt.Errorf("event key required")
	}
	evt := Event{Collection: collection, Kind: kind, Key: key, UserID: owner, OccurredAt: now.UTC()}
	if row != nil {
		data, err := json.Marshal(row)
		if err != nil {
			return Event{}, fmt.Errorf("marshal %s row: %w", collection, err)
		}
		evt.Row = data
	}
	return evt, nil
}

// Decode unmarshals the row payload into T.
func Decode[T any](evt Event) (T, error) {
	var out T
	if len(evt.Row) == 0 {
		return out, fmt.Errorf("%s %s event has no row", evt.Collection, evt.Kind)
	}
	if err := json.Unmarshal(evt.Row, &out); err != nil {
		return out, fmt.Errorf("decode %s row: %w", evt.Collection, err)
	}
	return out, nil
}

// Filter selects events of one collection, optionally only those owned by UserID.
type Filter struct {
	Collection enums.Collection
	UserID     *uuid.UUID
}

func (f Filter) Matches(evt Event) bool {
	if f.Collection != evt.Collection {
		return false
	}
	if f.UserID == nil {
		return true
	}
	return evt.UserID != nil && *evt.UserID == *f.UserID
}

// MatchAny reports whether any filter accepts the event.
func MatchAny(filters []Filter, evt Event) bool {
	for _, f := range filters {
		if f.Matches(evt) {
			return true
		}
	}
	return false
}
