package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// PropertiesRepository 房源 Repository
type PropertiesRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	Get(ctx context.Context, id string) (*domain.Property, error)
	Update(ctx context.Context, id string, fields store.Item) (*domain.Property, error)
	Delete(ctx context.Context, id string) error
	// ListAll 全表扫描 + 谓词过滤；排序由 Service 层完成
	ListAll(ctx context.Context, filter func(store.Item) bool) ([]domain.Property, int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error)
}

type propertiesRepository struct {
	store store.RecordStore
}

// NewPropertiesRepository 创建房源 Repository
func NewPropertiesRepository(s store.RecordStore) PropertiesRepository {
	return &propertiesRepository{store: s}
}

var _ PropertiesRepository = (*propertiesRepository)(nil)

func (r *propertiesRepository) Create(ctx context.Context, property *domain.Property) error {
	if property.ID == "" {
		property.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	property.CreatedAt = now
	property.UpdatedAt = now

	item, err := toItem(property)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, store.TableProperties, item)
}

func (r *propertiesRepository) Get(ctx context.Context, id string) (*domain.Property, error) {
	item, err := r.store.Get(ctx, store.TableProperties, id)
	if err != nil {
		return nil, err
	}
	var property domain.Property
	if err := fromItem(item, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertiesRepository) Update(ctx context.Context, id string, fields store.Item) (*domain.Property, error) {
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	item, err := r.store.Update(ctx, store.TableProperties, id, fields)
	if err != nil {
		return nil, err
	}
	var property domain.Property
	if err := fromItem(item, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *propertiesRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.TableProperties, id)
}

func (r *propertiesRepository) ListAll(ctx context.Context, filter func(store.Item) bool) ([]domain.Property, int, error) {
	items, total, err := r.store.Scan(ctx, store.TableProperties, filter)
	if err != nil {
		return nil, 0, err
	}
	properties, err := fromItems[domain.Property](items)
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

func (r *propertiesRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	properties, _, err := r.ListAll(ctx, func(item store.Item) bool {
		return itemString(item, "ownerId") == ownerID
	})
	return properties, err
}
