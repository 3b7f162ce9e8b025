package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/identity"
)

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewAuthService(identity.NewMemoryProvider(), env.users, noplog())

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing email", RegisterRequest{Password: "longenough", Role: domain.RoleRenter}},
		{"short password", RegisterRequest{Email: "a@b.c", Password: "short", Role: domain.RoleRenter}},
		{"unknown role", RegisterRequest{Email: "a@b.c", Password: "longenough", Role: "admin"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.req)
			require.Error(t, err)
			assert.Equal(t, 400, apperr.From(err).Status)
		})
	}
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	provider := identity.NewMemoryProvider()
	svc := NewAuthService(provider, env.users, noplog())

	user, err := svc.Register(ctx, RegisterRequest{
		Email:     "Jo@Example.com",
		Password:  "longenough",
		Role:      domain.RoleLandlord,
		FirstName: "Jo",
	})
	require.NoError(t, err)
	assert.Equal(t, "jo@example.com", user.Email)
	assert.Equal(t, domain.RoleLandlord, user.Role)

	// 重复邮箱注册冲突
	_, err = svc.Register(ctx, RegisterRequest{Email: "jo@example.com", Password: "longenough", Role: domain.RoleRenter})
	require.Error(t, err)
	assert.Equal(t, 409, apperr.From(err).Status)

	// 未确认前无法登录
	_, err = svc.Login(ctx, "jo@example.com", "longenough")
	require.Error(t, err)
	assert.Equal(t, 401, apperr.From(err).Status)

	require.NoError(t, svc.Confirm(ctx, "jo@example.com", "000000"))

	resp, err := svc.Login(ctx, "jo@example.com", "longenough")
	require.NoError(t, err)
	require.NotNil(t, resp.Tokens)
	assert.Equal(t, user.ID, resp.User.ID)

	caller, err := svc.Authenticate(ctx, resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, caller.ID)
	assert.Equal(t, domain.RoleLandlord, caller.Role)

	// refresh 换新 access token
	pair, err := svc.Refresh(ctx, resp.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	// 登出后 token 失效
	svc.Logout(ctx, resp.Tokens.AccessToken)
	_, err = svc.Authenticate(ctx, resp.Tokens.AccessToken)
	require.Error(t, err)
	assert.Equal(t, 401, apperr.From(err).Status)
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(identity.NewMemoryProvider(), env.users, noplog())

	_, err := svc.Authenticate(context.Background(), "made-up")
	require.Error(t, err)
	assert.Equal(t, 401, apperr.From(err).Status)
}
