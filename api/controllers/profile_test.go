package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
)

type stubProfiles map[uuid.UUID]models.Profile

func (s stubProfiles) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, ok := s[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return &profile, nil
}

func TestMeReturnsProfileAndCapabilities(t *testing.T) {
	userID := uuid.New()
	svc := stubProfiles{userID: {ID: userID, Email: "kim@campus.edu", Role: enums.RoleStudent}}

	resp := httptest.NewRecorder()
	Me(svc, testLogger())(resp, asUser(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil), userID))
	require.Equal(t, http.StatusOK, resp.Code)

	var body meResponse
	decodeData(t, resp, &body)
	require.NotNil(t, body.Profile)
	assert.Equal(t, "kim@campus.edu", body.Profile.Email)
	assert.Equal(t, enums.RoleStudent.Capabilities(), body.Capabilities)
}

func TestMeUnknownProfile(t *testing.T) {
	resp := httptest.NewRecorder()
	Me(stubProfiles{}, testLogger())(resp, asUser(httptest.NewRequest(http.MethodGet, "/api/v1/me", nil), uuid.New()))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
