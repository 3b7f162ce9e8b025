package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
)

func newPaymentServiceForTest(env *testEnv, now time.Time) *paymentService {
	svc := NewPaymentService(env.payments, env.properties, env.users, noplog()).(*paymentService)
	svc.now = func() time.Time { return now }
	return svc
}

func TestPaymentUpdateStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc := newPaymentServiceForTest(env, now)

	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)
	renter := env.seedUser(t, "renter-1", domain.RoleRenter)
	property := env.seedProperty(t, landlord.ID, domain.PropertyRented)
	payment := env.seedPayment(t, landlord.ID, renter.ID, property.ID, "2026-04-01T00:00:00Z")

	// 租客不能驱动状态机
	_, err := svc.UpdateStatus(ctx, renter, payment.ID, domain.PaymentPaid)
	require.Error(t, err)
	assert.Equal(t, 403, apperr.From(err).Status)

	// pending 不是合法迁移目标
	_, err = svc.UpdateStatus(ctx, landlord, payment.ID, domain.PaymentPending)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.From(err).Status)

	// pending -> paid：paidDate 与状态同一次写入
	updated, err := svc.UpdateStatus(ctx, landlord, payment.ID, domain.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, updated.Status)
	assert.Equal(t, now.Format(time.RFC3339), updated.PaidDate)

	// paid 是终态
	_, err = svc.UpdateStatus(ctx, landlord, payment.ID, domain.PaymentCancelled)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.From(err).Status)

	// pending -> cancelled 不写 paidDate
	other := env.seedPayment(t, landlord.ID, renter.ID, property.ID, "2026-05-01T00:00:00Z")
	updated, err = svc.UpdateStatus(ctx, landlord, other.ID, domain.PaymentCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCancelled, updated.Status)
	assert.Empty(t, updated.PaidDate)
}

func TestPaymentDerivedOverdueDoesNotMutateStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc := newPaymentServiceForTest(env, now)

	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)
	renter := env.seedUser(t, "renter-1", domain.RoleRenter)
	property := env.seedProperty(t, landlord.ID, domain.PropertyRented)
	payment := env.seedPayment(t, landlord.ID, renter.ID, property.ID, rfc3339(now.AddDate(0, 0, -3)))

	view, err := svc.Get(ctx, renter, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentOverdue, view.DisplayStatus)

	// 持久化状态保持 pending，迁移仍从 pending 出发
	stored, err := env.payments.Get(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, stored.Status)

	updated, err := svc.UpdateStatus(ctx, landlord, payment.ID, domain.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, updated.Status)
}

func TestPaymentCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newPaymentServiceForTest(env, time.Now().UTC())

	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)
	stranger := env.seedUser(t, "landlord-2", domain.RoleLandlord)
	renter := env.seedUser(t, "renter-1", domain.RoleRenter)
	property := env.seedProperty(t, landlord.ID, domain.PropertyRented)

	_, err := svc.Create(ctx, landlord, CreatePaymentRequest{
		PropertyID: property.ID, RenterID: renter.ID, Amount: 0, DueDate: "2026-04-01T00:00:00Z",
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.From(err).Status)

	_, err = svc.Create(ctx, landlord, CreatePaymentRequest{
		PropertyID: property.ID, RenterID: renter.ID, Amount: 1500, DueDate: "april",
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.From(err).Status)

	// 非房源所有者不能开账单
	_, err = svc.Create(ctx, stranger, CreatePaymentRequest{
		PropertyID: property.ID, RenterID: renter.ID, Amount: 1500, DueDate: "2026-04-01T00:00:00Z",
	})
	require.Error(t, err)
	assert.Equal(t, 403, apperr.From(err).Status)

	created, err := svc.Create(ctx, landlord, CreatePaymentRequest{
		PropertyID: property.ID, RenterID: renter.ID, Amount: 1500, Type: "rent", DueDate: "2026-04-01T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, created.Status)
	assert.NotEmpty(t, created.ID)
}

func TestPaymentBulkUpdatePartialSuccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newPaymentServiceForTest(env, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)
	otherLandlord := env.seedUser(t, "landlord-2", domain.RoleLandlord)
	renter := env.seedUser(t, "renter-1", domain.RoleRenter)
	mine := env.seedProperty(t, landlord.ID, domain.PropertyRented)
	theirs := env.seedProperty(t, otherLandlord.ID, domain.PropertyRented)

	a := env.seedPayment(t, landlord.ID, renter.ID, mine.ID, "2026-04-01T00:00:00Z")
	b := env.seedPayment(t, otherLandlord.ID, renter.ID, theirs.ID, "2026-04-01T00:00:00Z")
	c := env.seedPayment(t, landlord.ID, renter.ID, mine.ID, "2026-05-01T00:00:00Z")

	results := svc.BulkUpdateStatus(ctx, landlord, []string{a.ID, b.ID, c.ID}, domain.PaymentPaid)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Message)
	assert.True(t, results[2].Success)

	// 失败的一条不波及其余：A、C 已 paid，B 原样
	storedA, _ := env.payments.Get(ctx, a.ID)
	storedB, _ := env.payments.Get(ctx, b.ID)
	storedC, _ := env.payments.Get(ctx, c.ID)
	assert.Equal(t, domain.PaymentPaid, storedA.Status)
	assert.Equal(t, domain.PaymentPending, storedB.Status)
	assert.Equal(t, domain.PaymentPaid, storedC.Status)
}

func TestPaymentListScopedByRoleAndSorted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newPaymentServiceForTest(env, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC))

	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)
	renter := env.seedUser(t, "renter-1", domain.RoleRenter)
	otherRenter := env.seedUser(t, "renter-2", domain.RoleRenter)
	property := env.seedProperty(t, landlord.ID, domain.PropertyRented)

	env.seedPayment(t, landlord.ID, renter.ID, property.ID, "2026-05-01T00:00:00Z")
	env.seedPayment(t, landlord.ID, renter.ID, property.ID, "2026-04-01T00:00:00Z")
	env.seedPayment(t, landlord.ID, otherRenter.ID, property.ID, "2026-06-01T00:00:00Z")

	views, page, err := svc.List(ctx, renter, 1, 10)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, "2026-04-01T00:00:00Z", views[0].DueDate)
	assert.Equal(t, "2026-05-01T00:00:00Z", views[1].DueDate)

	views, page, err = svc.List(ctx, landlord, 1, 2)
	require.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
}
