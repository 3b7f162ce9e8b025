package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

func newDashboardServiceForTest(env *testEnv, now time.Time) *dashboardService {
	svc := NewDashboardService(env.properties, env.applications, env.payments, env.agreements, noplog()).(*dashboardService)
	svc.now = func() time.Time { return now }
	return svc
}

// markPaid 把支付置为 paid 并写入指定 paidDate（绕过状态机，直接造数据）
func markPaid(t *testing.T, env *testEnv, id, paidDate string) {
	t.Helper()
	_, err := env.payments.Update(context.Background(), id, store.Item{
		"status":   string(domain.PaymentPaid),
		"paidDate": paidDate,
	})
	require.NoError(t, err)
}

func TestLandlordDashboardEarnings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc := newDashboardServiceForTest(env, now)

	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)
	renter := env.seedUser(t, "renter-1", domain.RoleRenter)
	p1 := env.seedProperty(t, landlord.ID, domain.PropertyRented)
	env.seedProperty(t, landlord.ID, domain.PropertyAvailable)
	env.seedProperty(t, landlord.ID, domain.PropertyAvailable)

	// 当月收到 1500，一月收到 1200，一条尚未支付
	inMonth := env.seedPayment(t, landlord.ID, renter.ID, p1.ID, "2026-03-01T00:00:00Z")
	markPaid(t, env, inMonth.ID, "2026-03-05T00:00:00Z")
	older := env.seedPayment(t, landlord.ID, renter.ID, p1.ID, "2026-01-01T00:00:00Z")
	markPaid(t, env, older.ID, "2026-01-02T00:00:00Z")
	older2 := env.seedPayment(t, landlord.ID, renter.ID, p1.ID, "2026-01-15T00:00:00Z")
	_, err := env.payments.Update(ctx, older2.ID, store.Item{"amount": 1200.0})
	require.NoError(t, err)
	markPaid(t, env, older2.ID, "2026-01-20T00:00:00Z")
	env.seedPayment(t, landlord.ID, renter.ID, p1.ID, "2026-04-01T00:00:00Z")

	dash, err := svc.Landlord(ctx, landlord.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, dash.TotalProperties)
	assert.Equal(t, 1, dash.PropertiesByStatus[domain.PropertyRented])
	assert.Equal(t, 2, dash.PropertiesByStatus[domain.PropertyAvailable])
	assert.Equal(t, 1500.0+1500.0+1200.0, dash.TotalEarnings)
	assert.Equal(t, 1500.0, dash.MonthlyEarnings)
}

func TestLandlordDashboardPaymentPartition(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)
	renter := env.seedUser(t, "renter-1", domain.RoleRenter)
	property := env.seedProperty(t, landlord.ID, domain.PropertyRented)

	past := env.seedPayment(t, landlord.ID, renter.ID, property.ID, rfc3339(now.AddDate(0, 0, -5)))
	soon := env.seedPayment(t, landlord.ID, renter.ID, property.ID, rfc3339(now.AddDate(0, 0, 5)))

	svc := newDashboardServiceForTest(env, now)
	dash, err := svc.Landlord(ctx, landlord.ID)
	require.NoError(t, err)

	require.Len(t, dash.OverduePayments, 1)
	assert.Equal(t, past.ID, dash.OverduePayments[0].ID)
	assert.Equal(t, domain.PaymentOverdue, dash.OverduePayments[0].DisplayStatus)
	require.Len(t, dash.UpcomingPayments, 1)
	assert.Equal(t, soon.ID, dash.UpcomingPayments[0].ID)

	// 时钟前移越过第二条 dueDate：它从 upcoming 移入 overdue，存储值不变
	later := newDashboardServiceForTest(env, now.AddDate(0, 0, 10))
	dash, err = later.Landlord(ctx, landlord.ID)
	require.NoError(t, err)
	assert.Len(t, dash.OverduePayments, 2)
	assert.Len(t, dash.UpcomingPayments, 0)

	stored, err := env.payments.Get(ctx, soon.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, stored.Status)
}

func TestLandlordDashboardRecentApplicationsCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc := newDashboardServiceForTest(env, now)

	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)
	property := env.seedProperty(t, landlord.ID, domain.PropertyAvailable)

	// 7 份申请，createdAt 逐日递增
	for i := 0; i < 7; i++ {
		renter := env.seedUser(t, fmt.Sprintf("renter-%d", i), domain.RoleRenter)
		app := &domain.Application{
			PropertyID: property.ID,
			RenterID:   renter.ID,
			LandlordID: landlord.ID,
			Status:     domain.ApplicationPending,
		}
		require.NoError(t, env.applications.Create(ctx, app))
		_, err := env.applications.Update(ctx, app.ID, store.Item{
			"createdAt": rfc3339(now.AddDate(0, 0, -7+i)),
		})
		require.NoError(t, err)
	}

	dash, err := svc.Landlord(ctx, landlord.ID)
	require.NoError(t, err)
	require.Len(t, dash.RecentApplications, 5)

	// 创建时间倒序
	for i := 1; i < len(dash.RecentApplications); i++ {
		assert.GreaterOrEqual(t, dash.RecentApplications[i-1].CreatedAt, dash.RecentApplications[i].CreatedAt)
	}
	assert.Equal(t, "renter-6", dash.RecentApplications[0].RenterID)
}

func TestRenterDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc := newDashboardServiceForTest(env, now)

	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)
	renter := env.seedUser(t, "renter-1", domain.RoleRenter)
	property := env.seedProperty(t, landlord.ID, domain.PropertyRented)

	// 申请：一份 pending、一份 rejected
	pendingApp := &domain.Application{PropertyID: property.ID, RenterID: renter.ID, LandlordID: landlord.ID, Status: domain.ApplicationPending}
	require.NoError(t, env.applications.Create(ctx, pendingApp))
	rejectedApp := &domain.Application{PropertyID: property.ID, RenterID: renter.ID, LandlordID: landlord.ID, Status: domain.ApplicationRejected}
	require.NoError(t, env.applications.Create(ctx, rejectedApp))

	// 租约：一份 active、一份 terminated
	env.seedAgreement(t, landlord.ID, renter.ID, property.ID, domain.AgreementActive)
	env.seedAgreement(t, landlord.ID, renter.ID, property.ID, domain.AgreementTerminated)

	// 支付：一条 paid、一条将到期、一条已逾期
	paid := env.seedPayment(t, landlord.ID, renter.ID, property.ID, "2026-02-01T00:00:00Z")
	markPaid(t, env, paid.ID, "2026-02-01T12:00:00Z")
	upcoming := env.seedPayment(t, landlord.ID, renter.ID, property.ID, rfc3339(now.AddDate(0, 0, 3)))
	env.seedPayment(t, landlord.ID, renter.ID, property.ID, rfc3339(now.AddDate(0, 0, -3)))

	dash, err := svc.Renter(ctx, renter.ID)
	require.NoError(t, err)

	require.Len(t, dash.PendingApplications, 1)
	assert.Equal(t, pendingApp.ID, dash.PendingApplications[0].ID)
	require.Len(t, dash.ActiveAgreements, 1)
	require.Len(t, dash.PaymentHistory, 1)
	assert.Equal(t, paid.ID, dash.PaymentHistory[0].ID)
	// 已逾期的不算即将到期
	require.Len(t, dash.UpcomingPayments, 1)
	assert.Equal(t, upcoming.ID, dash.UpcomingPayments[0].ID)
}
