package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/angelmondragon/canteen-backend/internal/notifications"
	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
)

const defaultExpiryWarningDays = 3

// ExpiryAlertJobParams configure the expiring-stock alert. Emitter is optional.
type ExpiryAlertJobParams struct {
	Logger        *logger.Logger
	Inventory     expiringLister
	Admins        adminLister
	Notifications notificationWriter
	Emitter       notifications.ChangeEmitter
	WarningDays   int
	Location      *time.Location
}

type expiringLister interface {
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]models.InventoryItem, error)
}

type adminLister interface {
	ListAdminIDs(ctx context.Context) ([]uuid.UUID, error)
}

type notificationWriter interface {
	CreateMany(ctx context.Context, rows []models.Notification) error
}

// NewExpiryAlertJob alerts every admin about inventory that expires within
// the warning window or has already expired.
func NewExpiryAlertJob(params ExpiryAlertJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Admins == nil {
		return nil, fmt.Errorf("admin lister required")
	}
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	days := params.WarningDays
	if days <= 0 {
		days = defaultExpiryWarningDays
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	return &expiryAlertJob{
		logg:    params.Logger,
		stock:   params.Inventory,
		admins:  params.Admins,
		notes:   params.Notifications,
		emitter: params.Emitter,
		days:    days,
		loc:     loc,
		now:     time.Now,
	}, nil
}

type expiryAlertJob struct {
	logg    *logger.Logger
	stock   expiringLister
	admins  adminLister
	notes   notificationWriter
	emitter notifications.ChangeEmitter
	days    int
	loc     *time.Location
	now     func() time.Time
}

func (j *expiryAlertJob) Name() string { return ExpiryAlertJobName }

func (j *expiryAlertJob) Run(ctx context.Context) error {
	adminIDs, err := j.admins.ListAdminIDs(ctx)
	if err != nil {
		return fmt.Errorf("list admins: %w", err)
	}
	if len(adminIDs) == 0 {
		j.logg.Warn(ctx, "no admin profiles to alert; skipping expiry check")
		return nil
	}

	today := calendarDay(j.now().In(j.loc))
	cutoff := today.AddDate(0, 0, j.days+1)
	items, err := j.stock.ListExpiringBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list expiring inventory: %w", err)
	}

	var errs error
	sent := 0
	for _, item := range items {
		if item.ExpiryDate == nil {
			continue
		}
		left := int(calendarDay(*item.ExpiryDate).Sub(today).Hours() / 24)
		rows := notifications.Expiring(adminIDs, item, left)
		if err := j.notes.CreateMany(ctx, rows); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("alert %s: %w", item.ItemName, err))
			continue
		}
		notifications.EmitCreated(ctx, j.emitter, rows)
		sent += len(rows)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"items":          len(items),
		"alerts_created": sent,
		"warning_days":   j.days,
	})
	j.logg.Info(logCtx, "expiry check complete")
	return errs
}

// calendarDay maps t to UTC midnight of its calendar date, so dates from a
// DATE column and local timestamps compare by day.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
