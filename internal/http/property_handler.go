package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/service"
	"github.com/WillBillChiang/sheep-rentals/internal/store"
)

// PropertyHandler 房源 Handler
type PropertyHandler struct {
	propertyService service.PropertyService
	gate            *AuthGate
	logger          *zap.Logger
}

// NewPropertyHandler 创建房源 Handler
func NewPropertyHandler(propertyService service.PropertyService, gate *AuthGate, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		propertyService: propertyService,
		gate:            gate,
		logger:          logger,
	}
}

// List 公开房源列表（过滤 + 分页）
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.ListPropertiesRequest{
		Status:   q.Get("status"),
		City:     q.Get("city"),
		MinPrice: parseFloat(q.Get("minPrice")),
		MaxPrice: parseFloat(q.Get("maxPrice")),
		Bedrooms: parseInt(q.Get("bedrooms"), 0),
		Page:     parseInt(q.Get("page"), 1),
		Limit:    parseInt(q.Get("limit"), 10),
	}

	properties, page, err := h.propertyService.List(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Paged(properties, page))
}

// Get 房源详情（公开）
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request, id string) {
	property, err := h.propertyService.Get(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, property)
}

// Create 发布房源（仅房东）
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.CallerWithRole(r, domain.RoleLandlord)
	if err != nil {
		writeErr(w, err)
		return
	}

	var req service.CreatePropertyRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	property, err := h.propertyService.Create(r.Context(), caller, req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeCreated(w, property)
}

// Update 更新房源（仅所有者，部分字段集）
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request, id string) {
	caller, err := h.gate.CallerWithRole(r, domain.RoleLandlord)
	if err != nil {
		writeErr(w, err)
		return
	}

	var fields store.Item
	if err := readBodyJSON(r, 1<<20, &fields); err != nil {
		writeErr(w, apperr.Validation("invalid request body"))
		return
	}

	property, err := h.propertyService.Update(r.Context(), caller, id, fields)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, property)
}

// SetStatus 变更房源状态（仅所有者）
func (h *PropertyHandler) SetStatus(w http.ResponseWriter, r *http.Request, id string) {
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

	property, err := h.propertyService.SetStatus(r.Context(), caller, id, domain.PropertyStatus(req.Status))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, property)
}

// Delete 下架并删除房源（仅所有者）
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request, id string) {
	caller, err := h.gate.CallerWithRole(r, domain.RoleLandlord)
	if err != nil {
		writeErr(w, err)
		return
	}

	if err := h.propertyService.Delete(r.Context(), caller, id); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OkMessage("property deleted"))
}

// UploadImage 上传房源图片（仅所有者，multipart）
func (h *PropertyHandler) UploadImage(w http.ResponseWriter, r *http.Request, id string) {
	caller, err := h.gate.CallerWithRole(r, domain.RoleLandlord)
	if err != nil {
		writeErr(w, err)
		return
	}

	filename, data, contentType, err := readMultipartFile(r, 10<<20)
	if err != nil {
		writeErr(w, apperr.Validation("invalid multipart upload"))
		return
	}

	property, err := h.propertyService.AddImage(r.Context(), caller, id, filename, data, contentType)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOk(w, property)
}
