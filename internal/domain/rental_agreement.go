package domain

// AgreementStatus 租约状态
type AgreementStatus string

const (
	AgreementActive     AgreementStatus = "active"
	AgreementExpired    AgreementStatus = "expired"
	AgreementTerminated AgreementStatus = "terminated"
)

// Valid 是否为合法租约状态
func (s AgreementStatus) Valid() bool {
	switch s {
	case AgreementActive, AgreementExpired, AgreementTerminated:
		return true
	}
	return false
}

// RentalAgreement 租约领域模型（对应 rental_agreements 表）
// active 租约会阻止租客注销账户
type RentalAgreement struct {
	// 主键
	ID string `json:"id"`

	// 关联
	PropertyID    string `json:"propertyId"`
	ApplicationID string `json:"applicationId,omitempty"`
	LandlordID    string `json:"landlordId"`
	RenterID      string `json:"renterId"`

	// 条款
	MonthlyRent float64 `json:"monthlyRent"`
	Deposit     float64 `json:"deposit,omitempty"`
	StartDate   string  `json:"startDate"`
	EndDate     string  `json:"endDate,omitempty"`

	// 状态
	Status AgreementStatus `json:"status"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
