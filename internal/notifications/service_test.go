package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/canteen-backend/pkg/db/models"
	"github.com/angelmondragon/canteen-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/canteen-backend/pkg/errors"
	paginationpkg "github.com/angelmondragon/canteen-backend/pkg/pagination"
)

type fakeRepository struct {
	listFn        func(ctx context.Context, params listNotificationsParams) ([]models.Notification, error)
	unread        int64
	markReadFn    func(ctx context.Context, userID, notificationID uuid.UUID) (*models.Notification, error)
	markAllReadFn func(ctx context.Context, userID uuid.UUID) ([]models.Notification, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, notification *models.Notification) error {
	return nil
}

func (f *fakeRepository) CreateMany(ctx context.Context, notifications []models.Notification) error {
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listNotificationsParams) ([]models.Notification, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil
}

func (f *fakeRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return f.unread, nil
}

func (f *fakeRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) (*models.Notification, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, userID, notificationID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	if f.markAllReadFn != nil {
		return f.markAllReadFn(ctx, userID)
	}
	return nil, nil
}

func (f *fakeRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type emitted struct {
	collection enums.Collection
	kind       enums.ChangeKind
	key        uuid.UUID
	owner      *uuid.UUID
}

type recordingEmitter struct {
	events []emitted
}

func (r *recordingEmitter) Emit(ctx context.Context, collection enums.Collection, kind enums.ChangeKind, key uuid.UUID, owner *uuid.UUID, row any) {
	r.events = append(r.events, emitted{collection: collection, kind: kind, key: key, owner: owner})
}

func newServiceWithRepo(repo Repository, emitter ChangeEmitter) Service {
	svc, _ := NewService(repo, emitter)
	return svc
}

func TestService_ListNotifications(t *testing.T) {
	now := time.Now()
	first := models.Notification{ID: uuid.New(), CreatedAt: now}
	second := models.Notification{ID: uuid.New(), CreatedAt: now.Add(-time.Hour)}

	repo := &fakeRepository{
		unread: 7,
		listFn: func(ctx context.Context, params listNotificationsParams) ([]models.Notification, error) {
			if params.Limit != paginationpkg.LimitWithBuffer(1) {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			return []models.Notification{first, second}, nil
		},
	}

	svc := newServiceWithRepo(repo, nil)
	result, err := svc.List(context.Background(), ListParams{UserID: uuid.New(), Limit: 1})
	if err != nil {
		t.Fatalf("unexpected list error: %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(result.Items))
	}
	if result.UnreadCount != 7 {
		t.Fatalf("expected unread count 7, got %d", result.UnreadCount)
	}
	decoded, err := paginationpkg.ParseCursor(result.Cursor)
	if err != nil {
		t.Fatalf("decode cursor: %v", err)
	}
	if decoded.ID != first.ID {
		t.Fatalf("expected cursor at last returned row")
	}
}

func TestService_ListRejectsBadCursor(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{}, nil)
	_, err := svc.List(context.Background(), ListParams{UserID: uuid.New(), Cursor: "%%%"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_MarkReadNotFound(t *testing.T) {
	svc := newServiceWithRepo(&fakeRepository{}, nil)
	_, err := svc.MarkRead(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestService_MarkReadEmitsUpdate(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	repo := &fakeRepository{
		markReadFn: func(ctx context.Context, u, n uuid.UUID) (*models.Notification, error) {
			return &models.Notification{ID: n, UserID: u, IsRead: true}, nil
		},
	}
	emitter := &recordingEmitter{}
	svc := newServiceWithRepo(repo, emitter)

	row, err := svc.MarkRead(context.Background(), userID, id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !row.IsRead {
		t.Fatal("expected row marked read")
	}
	if len(emitter.events) != 1 || emitter.events[0].kind != enums.ChangeUpdate || *emitter.events[0].owner != userID {
		t.Fatalf("unexpected events %+v", emitter.events)
	}
}

func TestService_MarkAllReadErrors(t *testing.T) {
	repo := &fakeRepository{
		markAllReadFn: func(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
			return nil, errors.New("db down")
		},
	}
	svc := newServiceWithRepo(repo, nil)
	if _, err := svc.MarkAllRead(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if _, err := svc.MarkAllRead(context.Background(), uuid.Nil); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
