package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/service"
)

// DashboardHandler 仪表盘 Handler
type DashboardHandler struct {
	dashboardService service.DashboardService
	exportService    service.ExportService
	gate             *AuthGate
	logger           *zap.Logger
}

// NewDashboardHandler 创建仪表盘 Handler
func NewDashboardHandler(
	dashboardService service.DashboardService,
	exportService service.ExportService,
	gate *AuthGate,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		exportService:    exportService,
		gate:             gate,
		logger:           logger,
	}
}

// Get 按调用方角色返回汇总视图（两种角色的形状在 wire 层是独立的）
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.Caller(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	switch caller.Role {
	case domain.RoleLandlord:
		summary, err := h.dashboardService.Landlord(r.Context(), caller.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeOk(w, summary)
	default:
		summary, err := h.dashboardService.Renter(r.Context(), caller.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeOk(w, summary)
	}
}

// Export 导出房东支付报表为 Excel（仅房东）
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	caller, err := h.gate.CallerWithRole(r, domain.RoleLandlord)
	if err != nil {
		writeErr(w, err)
		return
	}

	data, err := h.exportService.LandlordPaymentsReport(r.Context(), caller)
	if err != nil {
		writeErr(w, err)
		return
	}

	filename := fmt.Sprintf("payments-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
