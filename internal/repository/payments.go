package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// PaymentsRepository 支付记录 Repository
type PaymentsRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	Get(ctx context.Context, id string) (*domain.Payment, error)
	Update(ctx context.Context, id string, fields store.Item) (*domain.Payment, error)
	ListByRenter(ctx context.Context, renterID string) ([]domain.Payment, error)
	ListByLandlord(ctx context.Context, landlordID string) ([]domain.Payment, error)
}

type paymentsRepository struct {
	store store.RecordStore
}

// NewPaymentsRepository 创建支付 Repository
func NewPaymentsRepository(s store.RecordStore) PaymentsRepository {
	return &paymentsRepository{store: s}
}

var _ PaymentsRepository = (*paymentsRepository)(nil)

func (r *paymentsRepository) Create(ctx context.Context, payment *domain.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	payment.CreatedAt = now
	payment.UpdatedAt = now

	item, err := toItem(payment)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, store.TablePayments, item)
}

func (r *paymentsRepository) Get(ctx context.Context, id string) (*domain.Payment, error) {
	item, err := r.store.Get(ctx, store.TablePayments, id)
	if err != nil {
		return nil, err
	}
	var payment domain.Payment
	if err := fromItem(item, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentsRepository) Update(ctx context.Context, id string, fields store.Item) (*domain.Payment, error) {
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	item, err := r.store.Update(ctx, store.TablePayments, id, fields)
	if err != nil {
		return nil, err
	}
	var payment domain.Payment
	if err := fromItem(item, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentsRepository) ListByRenter(ctx context.Context, renterID string) ([]domain.Payment, error) {
	return r.list(ctx, func(item store.Item) bool {
		return itemString(item, "renterId") == renterID
	})
}

func (r *paymentsRepository) ListByLandlord(ctx context.Context, landlordID string) ([]domain.Payment, error) {
	return r.list(ctx, func(item store.Item) bool {
		return itemString(item, "landlordId") == landlordID
	})
}

func (r *paymentsRepository) list(ctx context.Context, filter func(store.Item) bool) ([]domain.Payment, error) {
	items, _, err := r.store.Scan(ctx, store.TablePayments, filter)
	if err != nil {
		return nil, err
	}
	return fromItems[domain.Payment](items)
}
