// Package testdb opens throwaway sqlite databases carrying the canteen schema.
package testdb

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	"github.com/angelmondragon/canteen-backend/pkg/migrate"
)

// Open returns an isolated in-memory database with every table created.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.ApplySQLiteSchema(context.Background(), sqlDB))
	return db
}

// Profile inserts a profile with the given role.
func Profile(t testing.TB, db *gorm.DB, role enums.Role) models.Profile {
	t.Helper()
	id := uuid.New()
	p := models.Profile{ID: id, Email: id.String()[:8] + "@campus.test", Role: role}
	require.NoError(t, db.Create(&p).Error)
	return p
}
