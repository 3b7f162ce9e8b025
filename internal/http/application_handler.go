package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/service"
)

// ApplicationHandler 租房申请 Handler
type ApplicationHandler struct {
	applicationService service.ApplicationService
	gate               *AuthGate
	logger             *zap.Logger
}

// NewApplicationHandler 创建申请 Handler
func NewApplicationHandler(applicationService service.ApplicationService, gate *AuthGate, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		gate:               gate,
		logger:             logger,
	}
}

// Create 提交申请（仅租客；重复申请返回 409）
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.CallerWithRole(r, domain.RoleRenter)
	if err != nil {
		writeErr(w, err)
		return
	}

	var req service.CreateApplicationRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	app, err := h.applicationService.Create(r.Context(), caller, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCreated(w, app)
}

// List 按角色列出申请（房东看收到的，租客看发出的）
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.Caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	q := r.URL.Query()
	apps, page, err := h.applicationService.List(r.Context(), caller, parseInt(q.Get("page"), 1), parseInt(q.Get("limit"), 10))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Paged(apps, page))
}

// Get 申请详情（当事双方）
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	caller, err := h.gate.Caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	app, err := h.applicationService.Get(r.Context(), caller, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, app)
}

// UpdateStatus 申请状态迁移（approve/reject 房东，withdraw 租客）
func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, id string) {
	caller, err := h.gate.Caller(r)
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

	app, err := h.applicationService.UpdateStatus(r.Context(), caller, id, domain.ApplicationStatus(req.Status))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, app)
}

// UploadDocument 上传申请材料（仅申请人，multipart）
func (h *ApplicationHandler) UploadDocument(w http.ResponseWriter, r *http.Request, id string) {
	caller, err := h.gate.CallerWithRole(r, domain.RoleRenter)
	if err != nil {
		writeErr(w, err)
		return
	}

	filename, data, contentType, err := readMultipartFile(r, 10<<20)
	if err != nil {
		writeErr(w, apperr.Validation("invalid multipart upload"))
		return
	}

	app, err := h.applicationService.AddDocument(r.Context(), caller, id, filename, data, contentType)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, app)
}
