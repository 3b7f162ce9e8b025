package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/service"
)

// PaymentHandler 支付 Handler
type PaymentHandler struct {
	paymentService service.PaymentService
	gate           *AuthGate
	logger         *zap.Logger
}

// NewPaymentHandler 创建支付 Handler
func NewPaymentHandler(paymentService service.PaymentService, gate *AuthGate, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		gate:           gate,
		logger:         logger,
	}
}

// Create 开账单（仅房东）
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.CallerWithRole(r, domain.RoleLandlord)
	if err != nil {
		writeErr(w, err)
		return
	}

	var req service.CreatePaymentRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	payment, err := h.paymentService.Create(r.Context(), caller, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCreated(w, payment)
}

// List 按角色列出支付（displayStatus 为派生分类）
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.Caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	q := r.URL.Query()
	payments, page, err := h.paymentService.List(r.Context(), caller, parseInt(q.Get("page"), 1), parseInt(q.Get("limit"), 10))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Paged(payments, page))
}

// Get 支付详情（当事双方）
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	caller, err := h.gate.Caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	payment, err := h.paymentService.Get(r.Context(), caller, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, payment)
}

// UpdateStatus 支付状态迁移（仅房东；paid 同步写 paidDate）
func (h *PaymentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, id string) {
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

	payment, err := h.paymentService.UpdateStatus(r.Context(), caller, id, domain.PaymentStatus(req.Status))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, payment)
}

// BulkUpdateStatus 批量状态迁移：逐条独立处理并上报，部分成功不算错误
func (h *PaymentHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.CallerWithRole(r, domain.RoleLandlord)
	if err != nil {
		writeErr(w, err)
		return
	}

	var req struct {
		IDs    []string `json:"ids"`
		Status string   `json:"status"`
	}
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}
	if len(req.IDs) == 0 {
		writeErr(w, apperr.Validation("ids are required"))
		return
	}

	results := h.paymentService.BulkUpdateStatus(r.Context(), caller, req.IDs, domain.PaymentStatus(req.Status))
	writeOk(w, results)
}
