package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// AgreementsRepository 租约 Repository
type AgreementsRepository interface {
	Create(ctx context.Context, agreement *domain.RentalAgreement) error
	Get(ctx context.Context, id string) (*domain.RentalAgreement, error)
	Update(ctx context.Context, id string, fields store.Item) (*domain.RentalAgreement, error)
	ListByRenter(ctx context.Context, renterID string) ([]domain.RentalAgreement, error)
	ListByLandlord(ctx context.Context, landlordID string) ([]domain.RentalAgreement, error)
}

type agreementsRepository struct {
	store store.RecordStore
}

// NewAgreementsRepository 创建租约 Repository
func NewAgreementsRepository(s store.RecordStore) AgreementsRepository {
	return &agreementsRepository{store: s}
}

var _ AgreementsRepository = (*agreementsRepository)(nil)

func (r *agreementsRepository) Create(ctx context.Context, agreement *domain.RentalAgreement) error {
	if agreement.ID == "" {
		agreement.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	agreement.CreatedAt = now
	agreement.UpdatedAt = now

	item, err := toItem(agreement)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, store.TableAgreements, item)
}

func (r *agreementsRepository) Get(ctx context.Context, id string) (*domain.RentalAgreement, error) {
	item, err := r.store.Get(ctx, store.TableAgreements, id)
	if err != nil {
		return nil, err
	}
	var agreement domain.RentalAgreement
	if err := fromItem(item, &agreement); err != nil {
		return nil, err
	}
	return &agreement, nil
}

func (r *agreementsRepository) Update(ctx context.Context, id string, fields store.Item) (*domain.RentalAgreement, error) {
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	item, err := r.store.Update(ctx, store.TableAgreements, id, fields)
	if err != nil {
		return nil, err
	}
	var agreement domain.RentalAgreement
	if err := fromItem(item, &agreement); err != nil {
		return nil, err
	}
	return &agreement, nil
}

func (r *agreementsRepository) ListByRenter(ctx context.Context, renterID string) ([]domain.RentalAgreement, error) {
	return r.list(ctx, func(item store.Item) bool {
		return itemString(item, "renterId") == renterID
	})
}

func (r *agreementsRepository) ListByLandlord(ctx context.Context, landlordID string) ([]domain.RentalAgreement, error) {
	return r.list(ctx, func(item store.Item) bool {
		return itemString(item, "landlordId") == landlordID
	})
}

func (r *agreementsRepository) list(ctx context.Context, filter func(store.Item) bool) ([]domain.RentalAgreement, error) {
	items, _, err := r.store.Scan(ctx, store.TableAgreements, filter)
	if err != nil {
		return nil, err
	}
	return fromItems[domain.RentalAgreement](items)
}
