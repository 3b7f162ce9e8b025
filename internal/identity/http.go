package identity

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// HTTPProvider 托管身份服务的 REST 客户端
type HTTPProvider struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewHTTPProvider 创建身份服务客户端
func NewHTTPProvider(baseURL, apiKey string, logger *zap.Logger) *HTTPProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetHeader("X-Api-Key", apiKey)
	}

	return &HTTPProvider{
		httpClient: client,
		logger:     logger,
	}
}

var _ Provider = (*HTTPProvider)(nil)

// providerError 身份服务的错误响应体
type providerError struct {
	Message string `json:"message"`
}

func (p *HTTPProvider) SignUp(ctx context.Context, email, password string, attrs map[string]string) (string, error) {
	var out struct {
		SubjectID string `json:"subjectId"`
	}
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"email": email, "password": password, "attributes": attrs}).
		SetResult(&out).
		SetError(&providerError{}).
		Post("/signup")
	if err := p.check(resp, err, "signup"); err != nil {
		return "", err
	}
	return out.SubjectID, nil
}

func (p *HTTPProvider) Confirm(ctx context.Context, email, code string) error {
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"email": email, "code": code}).
		SetError(&providerError{}).
		Post("/confirm")
	return p.check(resp, err, "confirm")
}

func (p *HTTPProvider) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var out TokenPair
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"email": email, "password": password}).
		SetResult(&out).
		SetError(&providerError{}).
		Post("/login")
	if err := p.check(resp, err, "login"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *HTTPProvider) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	var out TokenPair
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"refreshToken": refreshToken}).
		SetResult(&out).
		SetError(&providerError{}).
		Post("/refresh")
	if err := p.check(resp, err, "refresh"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *HTTPProvider) ForgotPassword(ctx context.Context, email string) error {
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"email": email}).
		SetError(&providerError{}).
		Post("/forgot-password")
	return p.check(resp, err, "forgot-password")
}

func (p *HTTPProvider) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"email": email, "code": code, "newPassword": newPassword}).
		SetError(&providerError{}).
		Post("/reset-password")
	return p.check(resp, err, "reset-password")
}

func (p *HTTPProvider) GetUserByToken(ctx context.Context, accessToken string) (*Subject, error) {
	var out Subject
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&out).
		SetError(&providerError{}).
		Get("/user")
	if err != nil {
		return nil, fmt.Errorf("failed to call identity provider: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, ErrInvalidToken
	}
	if resp.IsError() {
		return nil, p.apiError(resp, "get user")
	}
	return &out, nil
}

func (p *HTTPProvider) Logout(ctx context.Context, accessToken string) error {
	resp, err := p.httpClient.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetError(&providerError{}).
		Post("/logout")
	return p.check(resp, err, "logout")
}

// check 统一处理传输错误与 4xx/5xx 响应
func (p *HTTPProvider) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		p.logger.Error("Identity provider call failed",
			zap.String("op", op),
			zap.Error(err),
		)
		return fmt.Errorf("failed to call identity provider: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusBadRequest {
			return ErrInvalidCredentials
		}
		return p.apiError(resp, op)
	}
	return nil
}

func (p *HTTPProvider) apiError(resp *resty.Response, op string) error {
	msg := ""
	if pe, ok := resp.Error().(*providerError); ok && pe != nil {
		msg = pe.Message
	}
	p.logger.Error("Identity provider returned error",
		zap.String("op", op),
		zap.Int("status_code", resp.StatusCode()),
		zap.String("message", msg),
	)
	return fmt.Errorf("identity provider error: %s (status: %d)", msg, resp.StatusCode())
}
