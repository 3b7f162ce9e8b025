package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/blob"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/repository"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// testEnv 内存后端 + 真实 Repository 的服务层测试环境
type testEnv struct {
	recordStore  *store.MemoryStore
	blobStore    *blob.MemoryStore
	users        repository.UsersRepository
	properties   repository.PropertiesRepository
	applications repository.ApplicationsRepository
	payments     repository.PaymentsRepository
	agreements   repository.AgreementsRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	rs := store.NewMemoryStore()
	return &testEnv{
		recordStore:  rs,
		blobStore:    blob.NewMemoryStore(),
		users:        repository.NewUsersRepository(rs),
		properties:   repository.NewPropertiesRepository(rs),
		applications: repository.NewApplicationsRepository(rs),
		payments:     repository.NewPaymentsRepository(rs),
		agreements:   repository.NewAgreementsRepository(rs),
	}
}

func (e *testEnv) seedUser(t *testing.T, id string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{ID: id, Email: id + "@example.com", Role: role}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) seedProperty(t *testing.T, ownerID string, status domain.PropertyStatus) *domain.Property {
	t.Helper()
	property := &domain.Property{
		OwnerID: ownerID,
		Title:   "2br walk-up",
		Price:   1500,
		City:    "Springfield",
		Status:  status,
	}
	require.NoError(t, e.properties.Create(context.Background(), property))
	return property
}

func (e *testEnv) seedPayment(t *testing.T, landlordID, renterID, propertyID, dueDate string) *domain.Payment {
	t.Helper()
	payment := &domain.Payment{
		PropertyID: propertyID,
		RenterID:   renterID,
		LandlordID: landlordID,
		Amount:     1500,
		Type:       "rent",
		Status:     domain.PaymentPending,
		DueDate:    dueDate,
	}
	require.NoError(t, e.payments.Create(context.Background(), payment))
	return payment
}

func (e *testEnv) seedAgreement(t *testing.T, landlordID, renterID, propertyID string, status domain.AgreementStatus) *domain.RentalAgreement {
	t.Helper()
	agreement := &domain.RentalAgreement{
		PropertyID:  propertyID,
		LandlordID:  landlordID,
		RenterID:    renterID,
		MonthlyRent: 1500,
		StartDate:   "2026-01-01T00:00:00Z",
		Status:      status,
	}
	require.NoError(t, e.agreements.Create(context.Background(), agreement))
	return agreement
}

func rfc3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func noplog() *zap.Logger { return zap.NewNop() }
