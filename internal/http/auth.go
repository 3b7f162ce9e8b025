package httpapi

import (
	"net/http"
	"strings"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/service"
)

// AuthGate 授权边界：Bearer token -> 调用方身份，角色门禁在这一处完成，
// Handler 不再各自比较角色字符串
type AuthGate struct {
	authService service.AuthService
}

// NewAuthGate 创建授权边界
func NewAuthGate(authService service.AuthService) *AuthGate {
	return &AuthGate{authService: authService}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Caller 解析调用方身份（任意角色）
func (g *AuthGate) Caller(r *http.Request) (*domain.User, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, apperr.Authentication("missing bearer token")
	}
	return g.authService.Authenticate(r.Context(), token)
}

// CallerWithRole 解析调用方身份并校验角色
func (g *AuthGate) CallerWithRole(r *http.Request, role domain.Role) (*domain.User, error) {
	caller, err := g.Caller(r)
	if err != nil {
		return nil, err
	}
	if caller.Role != role {
		return nil, apperr.Authorization("this operation requires the %s role", role)
	}
	return caller, nil
}
