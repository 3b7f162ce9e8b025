package repository

import (
	"context"
	"time"

	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// UsersRepository 用户扩展资料 Repository
type UsersRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, fields store.Item) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

type usersRepository struct {
	store store.RecordStore
}

// NewUsersRepository 创建用户 Repository
func NewUsersRepository(s store.RecordStore) UsersRepository {
	return &usersRepository{store: s}
}

var _ UsersRepository = (*usersRepository)(nil)

func (r *usersRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC().Format(time.RFC3339)
	user.CreatedAt = now
	user.UpdatedAt = now

	item, err := toItem(user)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, store.TableUsers, item)
}

func (r *usersRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	item, err := r.store.Get(ctx, store.TableUsers, id)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := fromItem(item, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *usersRepository) Update(ctx context.Context, id string, fields store.Item) (*domain.User, error) {
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339)
	item, err := r.store.Update(ctx, store.TableUsers, id, fields)
	if err != nil {
		return nil, err
	}
	var user domain.User
	if err := fromItem(item, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *usersRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.TableUsers, id)
}
