package httpapi

import (
	"net/http"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/service"
)

// Result 统一响应信封，与前端 api client 保持一致
// - success: 操作是否成功
// - data: 成功载荷
// - message: 人类可读的提示
// - error: 失败描述
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PagedResult 列表响应信封（追加分页元数据）
type PagedResult struct {
	Success    bool   `json:"success"`
	Data       any    `json:"data"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int    `json:"total"`
	TotalPages int    `json:"totalPages"`
	Message    string `json:"message,omitempty"`
}

func Ok(data any) Result {
	return Result{Success: true, Data: data}
}

func OkMessage(message string) Result {
	return Result{Success: true, Message: message}
}

func Paged(data any, page service.Page) PagedResult {
	return PagedResult{
		Success:    true,
		Data:       data,
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}

// writeOk 200 + 数据信封
func writeOk(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Ok(data))
}

// writeCreated 201 + 数据信封
func writeCreated(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, Ok(data))
}

// writeErr 按错误分类写状态码（Validation 400 / Authentication 401 /
// Authorization 403 / NotFound 404 / Conflict 409 / Upstream 500）
func writeErr(w http.ResponseWriter, err error) {
	ae := apperr.From(err)
	writeJSON(w, ae.Status, Result{Success: false, Error: ae.Message})
}
