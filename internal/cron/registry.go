package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/canteen-backend/internal/notifications"
	"github.com/angelmondragon/canteen-backend/pkg/logger"
)

const (
	ExpiryAlertJobName         = "inventory-expiry-alert"
	NotificationCleanupJobName = "notification-cleanup"
)

// Job is one maintenance task run by the cron worker. Its name labels logs and
// metrics, so it must be unique within a registry.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registry holds the jobs of one worker in run order.
type Registry struct {
	jobs  []Job
	names map[string]struct{}
}

// NewRegistry builds a registry from jobs, rejecting nil, unnamed and
// duplicate entries.
func NewRegistry(jobs ...Job) (*Registry, error) {
	registry := &Registry{names: map[string]struct{}{}}
	for _, job := range jobs {
		if err := registry.Register(job); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Register appends a job.
func (r *Registry) Register(job Job) error {
	if job == nil {
		return fmt.Errorf("cron job required")
	}
	name := job.Name()
	if name == "" {
		return fmt.Errorf("cron job name required")
	}
	if r.names == nil {
		r.names = map[string]struct{}{}
	}
	if _, dup := r.names[name]; dup {
		return fmt.Errorf("cron job %q registered twice", name)
	}
	r.names[name] = struct{}{}
	r.jobs = append(r.jobs, job)
	return nil
}

// Jobs returns a copy of the registered jobs.
func (r *Registry) Jobs() []Job {
	jobs := make([]Job, len(r.jobs))
	copy(jobs, r.jobs)
	return jobs
}

type canteenNotificationStore interface {
	notificationWriter
	readNotificationPurger
}

// CanteenJobsParams carry the dependencies of the canteen maintenance jobs.
type CanteenJobsParams struct {
	Logger        *logger.Logger
	Inventory     expiringLister
	Admins        adminLister
	Notifications canteenNotificationStore
	Emitter       notifications.ChangeEmitter
	WarningDays   int
	RetentionDays int
	Location      *time.Location
}

// CanteenJobs registers the expiring-stock alert followed by the read
// notification cleanup.
func CanteenJobs(params CanteenJobsParams) (*Registry, error) {
	if params.Notifications == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	expiry, err := NewExpiryAlertJob(ExpiryAlertJobParams{
		Logger:        params.Logger,
		Inventory:     params.Inventory,
		Admins:        params.Admins,
		Notifications: params.Notifications,
		Emitter:       params.Emitter,
		WarningDays:   params.WarningDays,
		Location:      params.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("expiry alert job: %w", err)
	}
	cleanup, err := NewNotificationCleanupJob(NotificationCleanupJobParams{
		Logger:     params.Logger,
		Repository: params.Notifications,
		Retention:  params.RetentionDays,
	})
	if err != nil {
		return nil, fmt.Errorf("notification cleanup job: %w", err)
	}
	return NewRegistry(expiry, cleanup)
}
