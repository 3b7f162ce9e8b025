package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

func newUserServiceForTest(env *testEnv) UserService {
	return NewUserService(env.users, env.properties, env.agreements, env.blobStore, noplog())
}

func TestUpdateProfilePartialFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newUserServiceForTest(env)

	user := env.seedUser(t, "renter-1", domain.RoleRenter)

	first := "Ada"
	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, user.Email, updated.Email)

	// 空请求没有可写字段
	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileRequest{})
	require.Error(t, err)
	assert.Equal(t, 400, apperr.From(err).Status)

	_, err = svc.UpdateProfile(ctx, "missing", UpdateProfileRequest{FirstName: &first})
	require.Error(t, err)
	assert.Equal(t, 404, apperr.From(err).Status)
}

func TestDeleteAccountLandlordGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newUserServiceForTest(env)

	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)
	property := env.seedProperty(t, landlord.ID, domain.PropertyRented)

	// rented 房源在手，拒绝注销
	err := svc.DeleteAccount(ctx, landlord)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.From(err).Status)

	// 房源腾出后注销成功
	_, err = env.properties.Update(ctx, property.ID, store.Item{"status": string(domain.PropertyAvailable)})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAccount(ctx, landlord))

	_, err = env.users.Get(ctx, landlord.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteAccountRenterGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newUserServiceForTest(env)

	landlord := env.seedUser(t, "landlord-1", domain.RoleLandlord)
	renter := env.seedUser(t, "renter-1", domain.RoleRenter)
	property := env.seedProperty(t, landlord.ID, domain.PropertyRented)
	agreement := env.seedAgreement(t, landlord.ID, renter.ID, property.ID, domain.AgreementActive)

	err := svc.DeleteAccount(ctx, renter)
	require.Error(t, err)
	assert.Equal(t, 400, apperr.From(err).Status)

	_, err = env.agreements.Update(ctx, agreement.ID, store.Item{"status": string(domain.AgreementTerminated)})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAccount(ctx, renter))
}

func TestDeleteAccountCleansUpBlobs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newUserServiceForTest(env)

	renter := env.seedUser(t, "renter-1", domain.RoleRenter)
	url, err := env.blobStore.Upload(ctx, "users/renter-1/avatar.png", []byte("png"), "image/png")
	require.NoError(t, err)
	renter.AvatarURL = url
	_, err = env.users.Update(ctx, renter.ID, store.Item{"avatarUrl": url})
	require.NoError(t, err)

	require.Equal(t, 1, env.blobStore.Len())
	require.NoError(t, svc.DeleteAccount(ctx, renter))
	assert.Equal(t, 0, env.blobStore.Len())
}
