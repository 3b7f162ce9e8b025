package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/blob"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/repository"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// ApplicationService 租房申请服务接口
type ApplicationService interface {
	Create(ctx context.Context, caller *domain.User, req CreateApplicationRequest) (*domain.Application, error)
	Get(ctx context.Context, caller *domain.User, id string) (*domain.Application, error)
	List(ctx context.Context, caller *domain.User, page, limit int) ([]domain.Application, Page, error)
	// UpdateStatus 状态机：pending→approved|rejected 仅限房东，pending→withdrawn 仅限租客。
	// 批准触发房源翻转为 rented；翻转失败则回滚申请状态（补偿步骤）。
	UpdateStatus(ctx context.Context, caller *domain.User, id string, target domain.ApplicationStatus) (*domain.Application, error)
	AddDocument(ctx context.Context, caller *domain.User, id, filename string, data []byte, contentType string) (*domain.Application, error)
}

type applicationService struct {
	applicationsRepo repository.ApplicationsRepository
	propertiesRepo   repository.PropertiesRepository
	blobStore        blob.Store
	logger           *zap.Logger
}

// NewApplicationService 创建申请服务
func NewApplicationService(
	applicationsRepo repository.ApplicationsRepository,
	propertiesRepo repository.PropertiesRepository,
	blobStore blob.Store,
	logger *zap.Logger,
) ApplicationService {
	return &applicationService{
		applicationsRepo: applicationsRepo,
		propertiesRepo:   propertiesRepo,
		blobStore:        blobStore,
		logger:           logger,
	}
}

// CreateApplicationRequest 创建申请请求
type CreateApplicationRequest struct {
	PropertyID    string  `json:"propertyId"`
	Message       string  `json:"message"`
	MoveInDate    string  `json:"moveInDate"`
	MonthlyIncome float64 `json:"monthlyIncome"`
}

func (s *applicationService) Create(ctx context.Context, caller *domain.User, req CreateApplicationRequest) (*domain.Application, error) {
	if req.PropertyID == "" {
		return nil, apperr.Validation("propertyId is required")
	}

	// 1. 房源存在且可申请
	property, err := s.propertiesRepo.Get(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("property not found")
		}
		return nil, apperr.Upstream("failed to load property", err)
	}
	if property.Status != domain.PropertyAvailable {
		return nil, apperr.Validation("property is not available for applications")
	}
	if property.OwnerID == caller.ID {
		return nil, apperr.Validation("cannot apply to your own property")
	}

	// 2. 重复申请预检（同一 propertyId+renterId 下尚有未撤回/未拒绝的申请则冲突）
	existing, err := s.applicationsRepo.FindActive(ctx, req.PropertyID, caller.ID)
	if err != nil {
		return nil, apperr.Upstream("failed to check existing applications", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("an application for this property already exists")
	}

	// 3. 创建
	app := &domain.Application{
		PropertyID:    req.PropertyID,
		RenterID:      caller.ID,
		LandlordID:    property.OwnerID,
		Status:        domain.ApplicationPending,
		Message:       req.Message,
		MoveInDate:    req.MoveInDate,
		MonthlyIncome: req.MonthlyIncome,
	}
	if err := s.applicationsRepo.Create(ctx, app); err != nil {
		return nil, apperr.Upstream("failed to create application", err)
	}

	s.logger.Info("Application created",
		zap.String("application_id", app.ID),
		zap.String("property_id", req.PropertyID),
		zap.String("renter_id", caller.ID),
	)
	return app, nil
}

func (s *applicationService) Get(ctx context.Context, caller *domain.User, id string) (*domain.Application, error) {
	app, err := s.applicationsRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("application not found")
		}
		return nil, apperr.Upstream("failed to load application", err)
	}
	if app.RenterID != caller.ID && app.LandlordID != caller.ID {
		return nil, apperr.Authorization("you are not a party to this application")
	}
	return app, nil
}

func (s *applicationService) List(ctx context.Context, caller *domain.User, page, limit int) ([]domain.Application, Page, error) {
	var apps []domain.Application
	var err error
	if caller.Role == domain.RoleLandlord {
		apps, err = s.applicationsRepo.ListByLandlord(ctx, caller.ID)
	} else {
		apps, err = s.applicationsRepo.ListByRenter(ctx, caller.ID)
	}
	if err != nil {
		return nil, Page{}, apperr.Upstream("failed to list applications", err)
	}

	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].CreatedAt > apps[j].CreatedAt
	})
	items, p := paginate(apps, page, limit)
	return items, p, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, caller *domain.User, id string, target domain.ApplicationStatus) (*domain.Application, error) {
	if !target.Valid() || target == domain.ApplicationPending {
		return nil, apperr.Validation("invalid target status: %s", target)
	}

	app, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	// 1. 角色与迁移合法性
	switch target {
	case domain.ApplicationApproved, domain.ApplicationRejected:
		if caller.ID != app.LandlordID {
			return nil, apperr.Authorization("only the landlord can approve or reject")
		}
	case domain.ApplicationWithdrawn:
		if caller.ID != app.RenterID {
			return nil, apperr.Authorization("only the renter can withdraw")
		}
	}
	if app.Status.Terminal() {
		return nil, apperr.Validation("application is already %s", app.Status)
	}

	// 2. 写申请状态
	updated, err := s.applicationsRepo.Update(ctx, id, store.Item{"status": string(target)})
	if err != nil {
		return nil, apperr.Upstream("failed to update application", err)
	}

	// 3. 批准的副作用：房源翻转为 rented。两次独立写，第二步失败时回滚第一步。
	if target == domain.ApplicationApproved {
		if _, err := s.propertiesRepo.Update(ctx, app.PropertyID, store.Item{"status": string(domain.PropertyRented)}); err != nil {
			s.logger.Error("Property flip failed after approval, rolling back",
				zap.String("application_id", id),
				zap.String("property_id", app.PropertyID),
				zap.Error(err),
			)
			if _, rbErr := s.applicationsRepo.Update(ctx, id, store.Item{"status": string(domain.ApplicationPending)}); rbErr != nil {
				// 双重失败：approved 申请挂在非 rented 房源上，需要人工修复
				s.logger.Error("Rollback of application approval failed",
					zap.String("application_id", id),
					zap.Error(rbErr),
				)
			}
			return nil, apperr.Upstream("failed to mark property as rented", err)
		}
	}

	s.logger.Info("Application status updated",
		zap.String("application_id", id),
		zap.String("status", string(target)),
	)
	return updated, nil
}

func (s *applicationService) AddDocument(ctx context.Context, caller *domain.User, id, filename string, data []byte, contentType string) (*domain.Application, error) {
	app, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if caller.ID != app.RenterID {
		return nil, apperr.Authorization("only the applicant can attach documents")
	}
	if len(data) == 0 {
		return nil, apperr.Validation("document file is empty")
	}

	path := fmt.Sprintf("applications/%s/%s%s", id, uuid.NewString(), filepath.Ext(filename))
	url, err := s.blobStore.Upload(ctx, path, data, contentType)
	if err != nil {
		return nil, apperr.Upstream("failed to upload document", err)
	}

	documents := append(app.Documents, url)
	updated, err := s.applicationsRepo.Update(ctx, id, store.Item{"documents": documents})
	if err != nil {
		return nil, apperr.Upstream("failed to attach document", err)
	}
	return updated, nil
}
