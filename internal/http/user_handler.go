package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/service"
)

// UserHandler 用户资料 Handler
type UserHandler struct {
	userService service.UserService
	gate        *AuthGate
	logger      *zap.Logger
}

// NewUserHandler 创建用户资料 Handler
func NewUserHandler(userService service.UserService, gate *AuthGate, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		gate:        gate,
		logger:      logger,
	}
}

// GetProfile 查看本人资料
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.Caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	user, err := h.userService.GetProfile(r.Context(), caller.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, user)
}

// UpdateProfile 更新本人资料（部分字段集）
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.Caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	var req service.UpdateProfileRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), caller.ID, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, user)
}

// DeleteAccount 注销账户（资格检查见 Service 层）
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.Caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), caller); err != nil {
		h.logger.Warn("Account deletion rejected",
			zap.String("user_id", caller.ID),
			zap.Error(err),
		)
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("account deleted"))
}
