package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// ApplicationsRepository 租房申请 Repository
type ApplicationsRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	Get(ctx context.Context, id string) (*domain.Application, error)
	Update(ctx context.Context, id string, fields store.Item) (*domain.Application, error)
	ListByRenter(ctx context.Context, renterID string) ([]domain.Application, error)
	ListByLandlord(ctx context.Context, landlordID string) ([]domain.Application, error)
	// FindActive 查找同一 (propertyId, renterId) 下未进入 withdrawn/rejected 的申请
	// （重复申请预检，靠 scan 而非唯一约束）
	FindActive(ctx context.Context, propertyID, renterID string) (*domain.Application, error)
}

type applicationsRepository struct {
	store store.RecordStore
}

// NewApplicationsRepository 创建申请 Repository
func NewApplicationsRepository(s store.RecordStore) ApplicationsRepository {
	return &applicationsRepository{store: s}
}

var _ ApplicationsRepository = (*applicationsRepository)(nil)

func (r *applicationsRepository) Create(ctx context.Context, app *domain.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	app.CreatedAt = now
	app.UpdatedAt = now

	item, err := toItem(app)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, store.TableApplications, item)
}

func (r *applicationsRepository) Get(ctx context.Context, id string) (*domain.Application, error) {
	item, err := r.store.Get(ctx, store.TableApplications, id)
	if err != nil {
		return nil, err
	}
	var app domain.Application
	if err := fromItem(item, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationsRepository) Update(ctx context.Context, id string, fields store.Item) (*domain.Application, error) {
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	item, err := r.store.Update(ctx, store.TableApplications, id, fields)
	if err != nil {
		return nil, err
	}
	var app domain.Application
	if err := fromItem(item, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *applicationsRepository) ListByRenter(ctx context.Context, renterID string) ([]domain.Application, error) {
	return r.list(ctx, func(item store.Item) bool {
		return itemString(item, "renterId") == renterID
	})
}

func (r *applicationsRepository) ListByLandlord(ctx context.Context, landlordID string) ([]domain.Application, error) {
	return r.list(ctx, func(item store.Item) bool {
		return itemString(item, "landlordId") == landlordID
	})
}

func (r *applicationsRepository) FindActive(ctx context.Context, propertyID, renterID string) (*domain.Application, error) {
	apps, err := r.list(ctx, func(item store.Item) bool {
		if itemString(item, "propertyId") != propertyID || itemString(item, "renterId") != renterID {
			return false
		}
		status := domain.ApplicationStatus(itemString(item, "status"))
		return status != domain.ApplicationWithdrawn && status != domain.ApplicationRejected
	})
	if err != nil {
		return nil, err
	}
	if len(apps) == 0 {
		return nil, nil
	}
	return &apps[0], nil
}

func (r *applicationsRepository) list(ctx context.Context, filter func(store.Item) bool) ([]domain.Application, error) {
	items, _, err := r.store.Scan(ctx, store.TableApplications, filter)
	if err != nil {
		return nil, err
	}
	return fromItems[domain.Application](items)
}
