package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/blob"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/repository"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// UserService 用户资料服务接口
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error)
	// DeleteAccount 注销账户。房东名下有 rented 房源、租客持有 active 租约时拒绝。
	DeleteAccount(ctx context.Context, caller *domain.User) error
}

type userService struct {
	usersRepo      repository.UsersRepository
	propertiesRepo repository.PropertiesRepository
	agreementsRepo repository.AgreementsRepository
	blobStore      blob.Store
	logger         *zap.Logger
}

// NewUserService 创建用户资料服务
func NewUserService(
	usersRepo repository.UsersRepository,
	propertiesRepo repository.PropertiesRepository,
	agreementsRepo repository.AgreementsRepository,
	blobStore blob.Store,
	logger *zap.Logger,
) UserService {
	return &userService{
		usersRepo:      usersRepo,
		propertiesRepo: propertiesRepo,
		agreementsRepo: agreementsRepo,
		blobStore:      blobStore,
		logger:         logger,
	}
}

// UpdateProfileRequest 资料更新请求（部分字段集，nil 表示不更新）
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.usersRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Upstream("failed to load user", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.User, error) {
	fields := store.Item{}
	if req.FirstName != nil {
		fields["firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["lastName"] = *req.LastName
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Bio != nil {
		fields["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		fields["avatarUrl"] = *req.AvatarURL
	}
	if len(fields) == 0 {
		return nil, apperr.Validation("no fields to update")
	}

	user, err := s.usersRepo.Update(ctx, userID, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Upstream("failed to update user", err)
	}
	return user, nil
}

func (s *userService) DeleteAccount(ctx context.Context, caller *domain.User) error {
	// 1. 注销资格检查
	switch caller.Role {
	case domain.RoleLandlord:
		properties, err := s.propertiesRepo.ListByOwner(ctx, caller.ID)
		if err != nil {
			return apperr.Upstream("failed to check owned properties", err)
		}
		for _, p := range properties {
			if p.Status == domain.PropertyRented {
				return apperr.Validation("cannot delete account while a property is rented")
			}
		}
	case domain.RoleRenter:
		agreements, err := s.agreementsRepo.ListByRenter(ctx, caller.ID)
		if err != nil {
			return apperr.Upstream("failed to check rental agreements", err)
		}
		for _, a := range agreements {
			if a.Status == domain.AgreementActive {
				return apperr.Validation("cannot delete account while a rental agreement is active")
			}
		}
	}

	// 2. 删除主记录
	if err := s.usersRepo.Delete(ctx, caller.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Upstream("failed to delete user", err)
	}

	// 3. 清理头像等对象（best-effort，失败只记日志）
	var urls []string
	if caller.AvatarURL != "" {
		urls = append(urls, caller.AvatarURL)
	}
	urls = append(urls, caller.Images...)
	if len(urls) > 0 {
		if err := s.blobStore.DeleteMany(ctx, urls); err != nil {
			s.logger.Warn("Failed to clean up user blobs",
				zap.String("user_id", caller.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("User account deleted", zap.String("user_id", caller.ID))
	return nil
}
