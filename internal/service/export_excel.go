package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/WillBillChiang/sheep-rentals/internal/apperr"
	"github.com/WillBillChiang/sheep-rentals/internal/domain"
	"github.com/WillBillChiang/sheep-rentals/internal/repository"
)

// ExportService 报表导出服务接口
type ExportService interface {
	// LandlordPaymentsReport 导出房东全部支付记录为 Excel（displayStatus 为派生分类）
	LandlordPaymentsReport(ctx context.Context, caller *domain.User) ([]byte, error)
}

type exportService struct {
	paymentsRepo repository.PaymentsRepository
	now          func() time.Time
}

// NewExportService 创建导出服务
func NewExportService(paymentsRepo repository.PaymentsRepository) ExportService {
	return &exportService{
		paymentsRepo: paymentsRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// PaymentsReportHeader 支付报表表头
var PaymentsReportHeader = []string{
	"Payment ID",
	"Property ID",
	"Renter ID",
	"Type",
	"Amount",
	"Status",
	"Display Status",
	"Due Date",
	"Paid Date",
	"Created At",
}

func (s *exportService) LandlordPaymentsReport(ctx context.Context, caller *domain.User) ([]byte, error) {
	payments, err := s.paymentsRepo.ListByLandlord(ctx, caller.ID)
	if err != nil {
		return nil, apperr.Upstream("failed to load payments", err)
	}
	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].DueDate < payments[j].DueDate
	})
	return generatePaymentsExcel(payments, s.now())
}

// generatePaymentsExcel 生成支付报表 Excel 文件
func generatePaymentsExcel(payments []domain.Payment, now time.Time) ([]byte, error) {
	f := excelize.NewFile()
	// Note: Don't defer Close() here, because WriteTo needs the file to be open

	sheetName := "Payments"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	// 删除默认的 Sheet1
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	// 表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// 写入表头
	for col, header := range PaymentsReportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	// 写入数据行
	for row, p := range payments {
		values := []any{
			p.ID,
			p.PropertyID,
			p.RenterID,
			p.Type,
			p.Amount,
			string(p.Status),
			string(p.DerivedStatus(now)),
			p.DueDate,
			p.PaidDate,
			p.CreatedAt,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close excel file: %w", err)
	}
	return buf.Bytes(), nil
}
