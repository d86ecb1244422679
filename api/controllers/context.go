package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/canteen-backend/api/middleware"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
)

// callerID returns the authenticated user or an UNAUTHORIZED error.
func callerID(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.UserUUIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return id, nil
}
