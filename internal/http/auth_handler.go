package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/service"
)

// AuthHandler 认证授权 Handler
type AuthHandler struct {
	authService service.AuthService
	gate        *AuthGate
	logger      *zap.Logger
}

// NewAuthHandler 创建认证授权 Handler
func NewAuthHandler(authService service.AuthService, gate *AuthGate, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		gate:        gate,
		logger:      logger,
	}
}

// ServeHTTP 实现 http.Handler 接口
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// 路由分发
	switch r.URL.Path {
	case "/api/auth/register":
		h.post(w, r, h.Register)
	case "/api/auth/confirm":
		h.post(w, r, h.Confirm)
	case "/api/auth/login":
		h.post(w, r, h.Login)
	case "/api/auth/refresh":
		h.post(w, r, h.Refresh)
	case "/api/auth/forgot-password":
		h.post(w, r, h.ForgotPassword)
	case "/api/auth/reset-password":
		h.post(w, r, h.ResetPassword)
	case "/api/auth/logout":
		h.post(w, r, h.Logout)
	case "/api/auth/me":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.Me(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *AuthHandler) post(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	fn(w, r)
}

// Register 用户注册（角色注册时固定）
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.authService.Register(r.Context(), req)
	if err != nil {
		h.logger.Warn("Register failed", zap.Error(err))
		writeErr(w, err)
		return
	}
	writeCreated(w, user)
}

// Confirm 账户确认
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	if err := h.authService.Confirm(r.Context(), req.Email, req.Code); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("account confirmed"))
}

// Login 用户登录
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	resp, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Warn("Login failed", zap.Error(err))
		writeErr(w, err)
		return
	}
	writeOk(w, resp)
}

// Refresh 刷新 access token
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, tokens)
}

// ForgotPassword 发起密码重置
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("password reset started"))
}

// ResetPassword 完成密码重置
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("password reset"))
}

// Logout 登出。Provider 失败被吞掉，始终返回成功（登出对调用方幂等）。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.Logout(r.Context(), bearerToken(r))
	writeJSON(w, http.StatusOK, OkMessage("logged out"))
}

// Me 当前调用方身份
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.Caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, caller)
}
