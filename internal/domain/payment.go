package domain

import "time"

// PaymentStatus 支付状态（持久化值）
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

// Valid 是否为合法支付状态
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue, PaymentCancelled:
		return true
	}
	return false
}

// CanTransitionTo 状态机：pending → paid|overdue|cancelled，其余均为终态
func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	if s != PaymentPending {
		return false
	}
	switch target {
	case PaymentPaid, PaymentOverdue, PaymentCancelled:
		return true
	}
	return false
}

// Payment 支付记录领域模型（对应 payments 表）
type Payment struct {
	// 主键
	ID string `json:"id"`

	// 关联
	RentalAgreementID string `json:"rentalAgreementId,omitempty"`
	PropertyID        string `json:"propertyId"`
	RenterID          string `json:"renterId"`
	LandlordID        string `json:"landlordId"`

	// 金额与类型
	Amount float64 `json:"amount"`
	Type   string  `json:"type,omitempty"` // rent/deposit/fee/...

	// 状态
	Status PaymentStatus `json:"status"`

	// 日期（RFC3339）
	DueDate  string `json:"dueDate"`
	PaidDate string `json:"paidDate,omitempty"` // 仅 status=paid 时有值

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// DueBefore dueDate 是否早于 now（dueDate 解析失败视为未到期）
func (p Payment) DueBefore(now time.Time) bool {
	due, err := time.Parse(time.RFC3339, p.DueDate)
	if err != nil {
		return false
	}
	return due.Before(now)
}

// DerivedStatus 读取时的派生分类：持久化 status=pending 但 dueDate 已过的
// 支付在列表中显示为 overdue。派生值不回写存储，与状态机使用的持久化值互不影响。
func (p Payment) DerivedStatus(now time.Time) PaymentStatus {
	if p.Status == PaymentPending && p.DueBefore(now) {
		return PaymentOverdue
	}
	return p.Status
}
