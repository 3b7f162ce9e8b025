package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/repository"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// AgreementService 租约服务接口
type AgreementService interface {
	Create(ctx context.Context, caller *domain.User, req CreateAgreementRequest) (*domain.RentalAgreement, error)
	Get(ctx context.Context, caller *domain.User, id string) (*domain.RentalAgreement, error)
	List(ctx context.Context, caller *domain.User, page, limit int) ([]domain.RentalAgreement, Page, error)
	// UpdateStatus active→expired|terminated（仅房东）。租约只软退役，从不物理删除。
	UpdateStatus(ctx context.Context, caller *domain.User, id string, target domain.AgreementStatus) (*domain.RentalAgreement, error)
}

type agreementService struct {
	agreementsRepo   repository.AgreementsRepository
	applicationsRepo repository.ApplicationsRepository
	propertiesRepo   repository.PropertiesRepository
	logger           *zap.Logger
}

// NewAgreementService 创建租约服务
func NewAgreementService(
	agreementsRepo repository.AgreementsRepository,
	applicationsRepo repository.ApplicationsRepository,
	propertiesRepo repository.PropertiesRepository,
	logger *zap.Logger,
) AgreementService {
	return &agreementService{
		agreementsRepo:   agreementsRepo,
		applicationsRepo: applicationsRepo,
		propertiesRepo:   propertiesRepo,
		logger:           logger,
	}
}

// CreateAgreementRequest 创建租约请求（基于已批准的申请）
type CreateAgreementRequest struct {
	ApplicationID string  `json:"applicationId"`
	MonthlyRent   float64 `json:"monthlyRent"`
	Deposit       float64 `json:"deposit"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
}

func (s *agreementService) Create(ctx context.Context, caller *domain.User, req CreateAgreementRequest) (*domain.RentalAgreement, error) {
	// 1. 参数校验
	if req.ApplicationID == "" {
		return nil, apperr.Validation("applicationId is required")
	}
	if req.MonthlyRent <= 0 {
		return nil, apperr.Validation("monthlyRent must be positive")
	}
	if _, err := time.Parse(time.RFC3339, req.StartDate); err != nil {
		return nil, apperr.Validation("startDate must be RFC3339")
	}

	// 2. 申请必须已批准且归属调用方
	app, err := s.applicationsRepo.Get(ctx, req.ApplicationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("application not found")
		}
		return nil, apperr.Upstream("failed to load application", err)
	}
	if app.LandlordID != caller.ID {
		return nil, apperr.Authorization("you are not the landlord of this application")
	}
	if app.Status != domain.ApplicationApproved {
		return nil, apperr.Validation("application must be approved before creating an agreement")
	}

	// 3. 创建
	agreement := &domain.RentalAgreement{
		PropertyID:    app.PropertyID,
		ApplicationID: app.ID,
		LandlordID:    app.LandlordID,
		RenterID:      app.RenterID,
		MonthlyRent:   req.MonthlyRent,
		Deposit:       req.Deposit,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        domain.AgreementActive,
	}
	if err := s.agreementsRepo.Create(ctx, agreement); err != nil {
		return nil, apperr.Upstream("failed to create rental agreement", err)
	}

	s.logger.Info("Rental agreement created",
		zap.String("agreement_id", agreement.ID),
		zap.String("property_id", agreement.PropertyID),
	)
	return agreement, nil
}

func (s *agreementService) Get(ctx context.Context, caller *domain.User, id string) (*domain.RentalAgreement, error) {
	agreement, err := s.agreementsRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("rental agreement not found")
		}
		return nil, apperr.Upstream("failed to load rental agreement", err)
	}
	if agreement.LandlordID != caller.ID && agreement.RenterID != caller.ID {
		return nil, apperr.Authorization("you are not a party to this agreement")
	}
	return agreement, nil
}

func (s *agreementService) List(ctx context.Context, caller *domain.User, page, limit int) ([]domain.RentalAgreement, Page, error) {
	var agreements []domain.RentalAgreement
	var err error
	if caller.Role == domain.RoleLandlord {
		agreements, err = s.agreementsRepo.ListByLandlord(ctx, caller.ID)
	} else {
		agreements, err = s.agreementsRepo.ListByRenter(ctx, caller.ID)
	}
	if err != nil {
		return nil, Page{}, apperr.Upstream("failed to list rental agreements", err)
	}

	sort.SliceStable(agreements, func(i, j int) bool {
		return agreements[i].CreatedAt > agreements[j].CreatedAt
	})
	items, p := paginate(agreements, page, limit)
	return items, p, nil
}

func (s *agreementService) UpdateStatus(ctx context.Context, caller *domain.User, id string, target domain.AgreementStatus) (*domain.RentalAgreement, error) {
	if !target.Valid() || target == domain.AgreementActive {
		return nil, apperr.Validation("invalid target status: %s", target)
	}

	agreement, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if caller.ID != agreement.LandlordID {
		return nil, apperr.Authorization("only the landlord can update agreement status")
	}
	if agreement.Status != domain.AgreementActive {
		return nil, apperr.Validation("agreement is already %s", agreement.Status)
	}

	updated, err := s.agreementsRepo.Update(ctx, id, store.Item{"status": string(target)})
	if err != nil {
		return nil, apperr.Upstream("failed to update rental agreement", err)
	}

	s.logger.Info("Rental agreement status updated",
		zap.String("agreement_id", id),
		zap.String("status", string(target)),
	)
	return updated, nil
}
