package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/service"
)

// AgreementHandler 租约 Handler
type AgreementHandler struct {
	agreementService service.AgreementService
	gate             *AuthGate
	logger           *zap.Logger
}

// NewAgreementHandler 创建租约 Handler
func NewAgreementHandler(agreementService service.AgreementService, gate *AuthGate, logger *zap.Logger) *AgreementHandler {
	return &AgreementHandler{
		agreementService: agreementService,
		gate:             gate,
		logger:           logger,
	}
}

// Create 签订租约（仅房东，基于已批准的申请）
func (h *AgreementHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.CallerWithRole(r, domain.RoleLandlord)
	if err != nil {
		writeErr(w, err)
		return
	}

	var req service.CreateAgreementRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	agreement, err := h.agreementService.Create(r.Context(), caller, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCreated(w, agreement)
}

// List 按角色列出租约
func (h *AgreementHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.Caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	q := r.URL.Query()
	agreements, page, err := h.agreementService.List(r.Context(), caller, parseInt(q.Get("page"), 1), parseInt(q.Get("limit"), 10))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Paged(agreements, page))
}

// Get 租约详情（当事双方）
func (h *AgreementHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	caller, err := h.gate.Caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	agreement, err := h.agreementService.Get(r.Context(), caller, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, agreement)
}

// UpdateStatus 租约状态迁移（仅房东，active→expired|terminated）
func (h *AgreementHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, id string) {
	caller, err := h.gate.CallerWithRole(r, domain.RoleLandlord)
	if err != nil {
		writeErr(w, err)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	agreement, err := h.agreementService.UpdateStatus(r.Context(), caller, id, domain.AgreementStatus(req.Status))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, agreement)
}
