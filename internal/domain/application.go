package domain

// ApplicationStatus 租房申请状态
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationApproved  ApplicationStatus = "approved"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

// Valid 是否为合法申请状态
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected, ApplicationWithdrawn:
		return true
	}
	return false
}

// Terminal pending 之外的状态均为终态（不再接受调用方驱动的迁移）
func (s ApplicationStatus) Terminal() bool {
	return s != ApplicationPending
}

// Application 租房申请领域模型（对应 applications 表）
// 同一 (propertyId, renterId) 只允许一份未撤回/未拒绝的申请，由创建前的 scan 预检保证
type Application struct {
	// 主键
	ID string `json:"id"`

	// 关联
	PropertyID string `json:"propertyId"`
	RenterID   string `json:"renterId"`
	LandlordID string `json:"landlordId"`

	// 状态
	Status ApplicationStatus `json:"status"`

	// 申请内容
	Message       string   `json:"message,omitempty"`
	MoveInDate    string   `json:"moveInDate,omitempty"`
	MonthlyIncome float64  `json:"monthlyIncome,omitempty"`
	Documents     []string `json:"documents,omitempty"` // Blob Store 公开 URL

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
