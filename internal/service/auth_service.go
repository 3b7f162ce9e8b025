package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/identity"
	"github.com/WillBillChiang/sheep-rentals/internal/repository"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// AuthService 认证授权服务接口
// 凭据生命周期委托给 Identity Provider；Record Store 只保存扩展 profile
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)
	Confirm(ctx context.Context, email, code string) error
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*identity.TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	Logout(ctx context.Context, accessToken string)
	// Authenticate Bearer token -> 调用方身份（Authorization Gate 的唯一入口）
	Authenticate(ctx context.Context, accessToken string) (*domain.User, error)
}

type authService struct {
	provider  identity.Provider
	usersRepo repository.UsersRepository
	logger    *zap.Logger
}

// NewAuthService 创建认证授权服务
func NewAuthService(provider identity.Provider, usersRepo repository.UsersRepository, logger *zap.Logger) AuthService {
	return &authService{
		provider:  provider,
		usersRepo: usersRepo,
		logger:    logger,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string      `json:"email"`
	Password  string      `json:"password"`
	Role      domain.Role `json:"role"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Phone     string      `json:"phone"`
}

// LoginResponse 登录响应（token + profile）
type LoginResponse struct {
	Tokens *identity.TokenPair `json:"tokens"`
	User   *domain.User        `json:"user"`
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	// 1. 参数校验
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}
	if !req.Role.Valid() {
		return nil, apperr.Validation("role must be landlord or renter")
	}

	// 2. 在 Identity Provider 注册（角色写入 token 属性，注册后不可变）
	subjectID, err := s.provider.SignUp(ctx, email, req.Password, map[string]string{
		"role": string(req.Role),
	})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, apperr.Conflict("an account with this email already exists")
		}
		return nil, apperr.Upstream("failed to register account", err)
	}

	// 3. 保存扩展 profile
	user := &domain.User{
		ID:        subjectID,
		Email:     email,
		Role:      req.Role,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	if err := s.usersRepo.Create(ctx, user); err != nil {
		// Provider account exists without a profile now; login backfills via Authenticate.
		s.logger.Error("Failed to persist user profile after signup",
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
		return nil, apperr.Upstream("failed to save user profile", err)
	}

	s.logger.Info("User registered",
		zap.String("user_id", subjectID),
		zap.String("role", string(req.Role)),
	)
	return user, nil
}

func (s *authService) Confirm(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return apperr.Validation("email and code are required")
	}
	if err := s.provider.Confirm(ctx, email, code); err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return apperr.Validation("invalid confirmation code")
		}
		return apperr.Upstream("failed to confirm account", err)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	tokens, err := s.provider.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return nil, apperr.Authentication("invalid email or password")
		}
		return nil, apperr.Upstream("failed to login", err)
	}

	user, err := s.Authenticate(ctx, tokens.AccessToken)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Tokens: tokens, User: user}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*identity.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperr.Validation("refreshToken is required")
	}
	tokens, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return nil, apperr.Authentication("invalid refresh token")
		}
		return nil, apperr.Upstream("failed to refresh token", err)
	}
	return tokens, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return apperr.Validation("email is required")
	}
	if err := s.provider.ForgotPassword(ctx, email); err != nil {
		return apperr.Upstream("failed to start password reset", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" {
		return apperr.Validation("email and code are required")
	}
	if len(newPassword) < 8 {
		return apperr.Validation("password must be at least 8 characters")
	}
	if err := s.provider.ResetPassword(ctx, email, code, newPassword); err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return apperr.Validation("invalid reset code")
		}
		return apperr.Upstream("failed to reset password", err)
	}
	return nil
}

// Logout 吊销 token。Provider 失败被有意吞掉：对调用方而言登出是幂等的。
func (s *authService) Logout(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}
	if err := s.provider.Logout(ctx, accessToken); err != nil {
		s.logger.Warn("Logout revoke failed (ignored)", zap.Error(err))
	}
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*domain.User, error) {
	if accessToken == "" {
		return nil, apperr.Authentication("missing bearer token")
	}

	subject, err := s.provider.GetUserByToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			return nil, apperr.Authentication("invalid or expired token")
		}
		return nil, apperr.Upstream("failed to verify token", err)
	}

	user, err := s.usersRepo.Get(ctx, subject.SubjectID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Upstream("failed to load user profile", err)
		}
		// Profile missing (e.g. signup write failed): backfill from token attributes.
		role := domain.Role(subject.Attributes["role"])
		if !role.Valid() {
			return nil, apperr.Authentication("account has no valid role")
		}
		user = &domain.User{ID: subject.SubjectID, Email: subject.Email, Role: role}
		if err := s.usersRepo.Create(ctx, user); err != nil {
			return nil, apperr.Upstream("failed to restore user profile", err)
		}
		s.logger.Info("Backfilled missing user profile", zap.String("user_id", user.ID))
	}
	return user, nil
}
