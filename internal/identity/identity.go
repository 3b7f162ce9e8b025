package identity

import (
	"context"
	"errors"
)

// ErrInvalidToken token 缺失、过期或已吊销
var ErrInvalidToken = errors.New("invalid or expired token")

// ErrInvalidCredentials 账号或密码错误 / 验证码错误
var ErrInvalidCredentials = errors.New("invalid credentials")

// TokenPair 登录/刷新返回的令牌
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    int    `json:"expiresIn"`
}

// Subject 按 token 反查出的用户身份（固定属性集）
type Subject struct {
	SubjectID  string            `json:"subjectId"`
	Email      string            `json:"email"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Provider 身份提供方契约：凭据生命周期由外部服务持有，这里只消费其 API。
// token 为不透明字符串，本服务不解析。
type Provider interface {
	SignUp(ctx context.Context, email, password string, attrs map[string]string) (subjectID string, err error)
	Confirm(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	GetUserByToken(ctx context.Context, accessToken string) (*Subject, error)
	Logout(ctx context.Context, accessToken string) error
}
