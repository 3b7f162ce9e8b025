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

// PaymentService 支付服务接口
type PaymentService interface {
	Create(ctx context.Context, caller *domain.User, req CreatePaymentRequest) (*domain.Payment, error)
	Get(ctx context.Context, caller *domain.User, id string) (*PaymentView, error)
	List(ctx context.Context, caller *domain.User, page, limit int) ([]PaymentView, Page, error)
	// UpdateStatus 状态机：pending→paid|overdue|cancelled（仅房东）。paid 同步写 paidDate。
	UpdateStatus(ctx context.Context, caller *domain.User, id string, target domain.PaymentStatus) (*domain.Payment, error)
	// BulkUpdateStatus 逐条独立处理、独立鉴权、独立上报，部分成功是预期行为
	BulkUpdateStatus(ctx context.Context, caller *domain.User, ids []string, target domain.PaymentStatus) []BulkResult
}

type paymentService struct {
	paymentsRepo   repository.PaymentsRepository
	propertiesRepo repository.PropertiesRepository
	usersRepo      repository.UsersRepository
	logger         *zap.Logger
	now            func() time.Time
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	paymentsRepo repository.PaymentsRepository,
	propertiesRepo repository.PropertiesRepository,
	usersRepo repository.UsersRepository,
	logger *zap.Logger,
) PaymentService {
	return &paymentService{
		paymentsRepo:   paymentsRepo,
		propertiesRepo: propertiesRepo,
		usersRepo:      usersRepo,
		logger:         logger,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// CreatePaymentRequest 创建支付请求（房东向租客开账单）
type CreatePaymentRequest struct {
	RentalAgreementID string  `json:"rentalAgreementId"`
	PropertyID        string  `json:"propertyId"`
	RenterID          string  `json:"renterId"`
	Amount            float64 `json:"amount"`
	Type              string  `json:"type"`
	DueDate           string  `json:"dueDate"`
}

// PaymentView 支付的读取视图：displayStatus 为派生分类
// （持久化 pending + dueDate 已过 => overdue），不回写存储
type PaymentView struct {
	domain.Payment
	DisplayStatus domain.PaymentStatus `json:"displayStatus"`
}

// BulkResult 批量状态更新的单条结果
type BulkResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (s *paymentService) Create(ctx context.Context, caller *domain.User, req CreatePaymentRequest) (*domain.Payment, error) {
	// 1. 参数校验
	if req.PropertyID == "" || req.RenterID == "" {
		return nil, apperr.Validation("propertyId and renterId are required")
	}
	if req.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	if _, err := time.Parse(time.RFC3339, req.DueDate); err != nil {
		return nil, apperr.Validation("dueDate must be RFC3339")
	}

	// 2. 关联校验：房源归属调用方，租客存在
	property, err := s.propertiesRepo.Get(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("property not found")
		}
		return nil, apperr.Upstream("failed to load property", err)
	}
	if property.OwnerID != caller.ID {
		return nil, apperr.Authorization("you do not own this property")
	}
	if _, err := s.usersRepo.Get(ctx, req.RenterID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("renter not found")
		}
		return nil, apperr.Upstream("failed to load renter", err)
	}

	// 3. 创建
	payment := &domain.Payment{
		RentalAgreementID: req.RentalAgreementID,
		PropertyID:        req.PropertyID,
		RenterID:          req.RenterID,
		LandlordID:        caller.ID,
		Amount:            req.Amount,
		Type:              req.Type,
		Status:            domain.PaymentPending,
		DueDate:           req.DueDate,
	}
	if err := s.paymentsRepo.Create(ctx, payment); err != nil {
		return nil, apperr.Upstream("failed to create payment", err)
	}

	s.logger.Info("Payment created",
		zap.String("payment_id", payment.ID),
		zap.Float64("amount", payment.Amount),
	)
	return payment, nil
}

func (s *paymentService) Get(ctx context.Context, caller *domain.User, id string) (*PaymentView, error) {
	payment, err := s.getParty(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	view := s.view(*payment)
	return &view, nil
}

func (s *paymentService) List(ctx context.Context, caller *domain.User, page, limit int) ([]PaymentView, Page, error) {
	var payments []domain.Payment
	var err error
	if caller.Role == domain.RoleLandlord {
		payments, err = s.paymentsRepo.ListByLandlord(ctx, caller.ID)
	} else {
		payments, err = s.paymentsRepo.ListByRenter(ctx, caller.ID)
	}
	if err != nil {
		return nil, Page{}, apperr.Upstream("failed to list payments", err)
	}

	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].DueDate < payments[j].DueDate
	})

	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, s.view(p))
	}
	items, pg := paginate(views, page, limit)
	return items, pg, nil
}

func (s *paymentService) UpdateStatus(ctx context.Context, caller *domain.User, id string, target domain.PaymentStatus) (*domain.Payment, error) {
	if !target.Valid() || target == domain.PaymentPending {
		return nil, apperr.Validation("invalid target status: %s", target)
	}

	payment, err := s.getParty(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if caller.ID != payment.LandlordID {
		return nil, apperr.Authorization("only the landlord can update payment status")
	}
	if !payment.Status.CanTransitionTo(target) {
		return nil, apperr.Validation("cannot transition payment from %s to %s", payment.Status, target)
	}

	fields := store.Item{"status": string(target)}
	if target == domain.PaymentPaid {
		// paid 与 paidDate 必须由同一次更新写入
		fields["paidDate"] = s.now().Format(time.RFC3339)
	}

	updated, err := s.paymentsRepo.Update(ctx, id, fields)
	if err != nil {
		return nil, apperr.Upstream("failed to update payment", err)
	}

	s.logger.Info("Payment status updated",
		zap.String("payment_id", id),
		zap.String("status", string(target)),
	)
	return updated, nil
}

func (s *paymentService) BulkUpdateStatus(ctx context.Context, caller *domain.User, ids []string, target domain.PaymentStatus) []BulkResult {
	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		if _, err := s.UpdateStatus(ctx, caller, id, target); err != nil {
			results = append(results, BulkResult{ID: id, Success: false, Message: apperr.From(err).Message})
			continue
		}
		results = append(results, BulkResult{ID: id, Success: true})
	}
	return results
}

func (s *paymentService) view(p domain.Payment) PaymentView {
	return PaymentView{Payment: p, DisplayStatus: p.DerivedStatus(s.now())}
}

// getParty 加载支付并校验调用方为当事人（房东或租客）
func (s *paymentService) getParty(ctx context.Context, caller *domain.User, id string) (*domain.Payment, error) {
	payment, err := s.paymentsRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("payment not found")
		}
		return nil, apperr.Upstream("failed to load payment", err)
	}
	if payment.LandlordID != caller.ID && payment.RenterID != caller.ID {
		return nil, apperr.Authorization("you are not a party to this payment")
	}
	return payment, nil
}
