package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/repository"
)

// DashboardService 仪表盘聚合服务接口
// 纯读/归并路径，无副作用；任一集合拉取失败则整个请求失败，不返回部分结果
type DashboardService interface {
	Landlord(ctx context.Context, callerID string) (*LandlordDashboard, error)
	Renter(ctx context.Context, callerID string) (*RenterDashboard, error)
}

type dashboardService struct {
	propertiesRepo   repository.PropertiesRepository
	applicationsRepo repository.ApplicationsRepository
	paymentsRepo     repository.PaymentsRepository
	agreementsRepo   repository.AgreementsRepository
	logger           *zap.Logger
	now              func() time.Time
}

// NewDashboardService 创建仪表盘聚合服务
func NewDashboardService(
	propertiesRepo repository.PropertiesRepository,
	applicationsRepo repository.ApplicationsRepository,
	paymentsRepo repository.PaymentsRepository,
	agreementsRepo repository.AgreementsRepository,
	logger *zap.Logger,
) DashboardService {
	return &dashboardService{
		propertiesRepo:   propertiesRepo,
		applicationsRepo: applicationsRepo,
		paymentsRepo:     paymentsRepo,
		agreementsRepo:   agreementsRepo,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// LandlordDashboard 房东汇总视图
type LandlordDashboard struct {
	TotalProperties    int                           `json:"totalProperties"`
	PropertiesByStatus map[domain.PropertyStatus]int `json:"propertiesByStatus"`
	TotalEarnings      float64                       `json:"totalEarnings"`
	MonthlyEarnings    float64                       `json:"monthlyEarnings"`
	RecentApplications []domain.Application          `json:"recentApplications"`
	OverduePayments    []PaymentView                 `json:"overduePayments"`
	UpcomingPayments   []PaymentView                 `json:"upcomingPayments"`
}

// RenterDashboard 租客汇总视图（与房东视图在 wire 层是两个独立的形状）
type RenterDashboard struct {
	PendingApplications []domain.Application     `json:"pendingApplications"`
	ActiveAgreements    []domain.RentalAgreement `json:"activeAgreements"`
	PaymentHistory      []PaymentView            `json:"paymentHistory"`
	UpcomingPayments    []PaymentView            `json:"upcomingPayments"`
}

const (
	landlordRecentApplications = 5
	landlordUpcomingCap        = 10
	renterHistoryCap           = 10
	renterUpcomingCap          = 5
)

func (s *dashboardService) Landlord(ctx context.Context, callerID string) (*LandlordDashboard, error) {
	now := s.now()

	// 三个集合独立拉取，任一失败整体失败
	properties, err := s.propertiesRepo.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, apperr.Upstream("failed to load properties", err)
	}
	applications, err := s.applicationsRepo.ListByLandlord(ctx, callerID)
	if err != nil {
		return nil, apperr.Upstream("failed to load applications", err)
	}
	payments, err := s.paymentsRepo.ListByLandlord(ctx, callerID)
	if err != nil {
		return nil, apperr.Upstream("failed to load payments", err)
	}

	// 1. 房源按状态计数
	byStatus := map[domain.PropertyStatus]int{}
	for _, p := range properties {
		byStatus[p.Status]++
	}

	// 2. 收益：total = 所有 paid 金额之和；monthly = 当前年月的子集
	currentMonth := now.Format("2006-01")
	var total, monthly float64
	for _, p := range payments {
		if p.Status != domain.PaymentPaid {
			continue
		}
		total += p.Amount
		if paymentMonth(p) == currentMonth {
			monthly += p.Amount
		}
	}

	// 3. 最近 5 条申请（创建时间倒序，相同时间保持插入顺序）
	sort.SliceStable(applications, func(i, j int) bool {
		return applications[i].CreatedAt > applications[j].CreatedAt
	})
	recent := applications
	if len(recent) > landlordRecentApplications {
		recent = recent[:landlordRecentApplications]
	}

	// 4. 待收款划分：overdue = pending 且 dueDate < now；upcoming = pending 且 dueDate >= now
	//    派生分类只作用于展示，存储值不被改动
	var overdue, upcoming []PaymentView
	for _, p := range payments {
		if p.Status != domain.PaymentPending {
			continue
		}
		view := PaymentView{Payment: p, DisplayStatus: p.DerivedStatus(now)}
		if p.DueBefore(now) {
			overdue = append(overdue, view)
		} else {
			upcoming = append(upcoming, view)
		}
	}
	sortViewsByDueDateAsc(overdue)
	sortViewsByDueDateAsc(upcoming)
	if len(upcoming) > landlordUpcomingCap {
		upcoming = upcoming[:landlordUpcomingCap]
	}

	return &LandlordDashboard{
		TotalProperties:    len(properties),
		PropertiesByStatus: byStatus,
		TotalEarnings:      total,
		MonthlyEarnings:    monthly,
		RecentApplications: recent,
		OverduePayments:    overdue,
		UpcomingPayments:   upcoming,
	}, nil
}

func (s *dashboardService) Renter(ctx context.Context, callerID string) (*RenterDashboard, error) {
	now := s.now()

	applications, err := s.applicationsRepo.ListByRenter(ctx, callerID)
	if err != nil {
		return nil, apperr.Upstream("failed to load applications", err)
	}
	agreements, err := s.agreementsRepo.ListByRenter(ctx, callerID)
	if err != nil {
		return nil, apperr.Upstream("failed to load rental agreements", err)
	}
	payments, err := s.paymentsRepo.ListByRenter(ctx, callerID)
	if err != nil {
		return nil, apperr.Upstream("failed to load payments", err)
	}

	// 1. 待处理申请（创建时间倒序）
	var pending []domain.Application
	for _, a := range applications {
		if a.Status == domain.ApplicationPending {
			pending = append(pending, a)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].CreatedAt > pending[j].CreatedAt
	})

	// 2. 生效租约
	var active []domain.RentalAgreement
	for _, a := range agreements {
		if a.Status == domain.AgreementActive {
			active = append(active, a)
		}
	}

	// 3. 支付历史：paid，按 paidDate 倒序（缺 paidDate 时回退 createdAt），上限 10
	var history []PaymentView
	for _, p := range payments {
		if p.Status == domain.PaymentPaid {
			history = append(history, PaymentView{Payment: p, DisplayStatus: domain.PaymentPaid})
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return paymentPaidOrCreated(history[i].Payment) > paymentPaidOrCreated(history[j].Payment)
	})
	if len(history) > renterHistoryCap {
		history = history[:renterHistoryCap]
	}

	// 4. 即将到期：pending 且 dueDate >= now，按 dueDate 升序，上限 5
	var upcoming []PaymentView
	for _, p := range payments {
		if p.Status == domain.PaymentPending && !p.DueBefore(now) {
			upcoming = append(upcoming, PaymentView{Payment: p, DisplayStatus: domain.PaymentPending})
		}
	}
	sortViewsByDueDateAsc(upcoming)
	if len(upcoming) > renterUpcomingCap {
		upcoming = upcoming[:renterUpcomingCap]
	}

	return &RenterDashboard{
		PendingApplications: pending,
		ActiveAgreements:    active,
		PaymentHistory:      history,
		UpcomingPayments:    upcoming,
	}, nil
}

func sortViewsByDueDateAsc(views []PaymentView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].DueDate < views[j].DueDate
	})
}

// paymentMonth 支付的年月标签（paidDate 优先，缺失时回退 createdAt）
func paymentMonth(p domain.Payment) string {
	ts := paymentPaidOrCreated(p)
	if len(ts) >= 7 {
		return ts[:7]
	}
	return ""
}

func paymentPaidOrCreated(p domain.Payment) string {
	if p.PaidDate != "" {
		return p.PaidDate
	}
	return p.CreatedAt
}
