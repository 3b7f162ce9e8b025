package domain

// User 用户扩展资料（对应 users 表）
// 凭据由 Identity Provider 持有，这里只存扩展 profile
type User struct {
	// 主键（= Identity Provider 的 subjectId）
	ID string `json:"id"`

	// 基本信息
	Email string `json:"email"`
	Role  Role   `json:"role"` // landlord | renter

	// Profile
	FirstName string   `json:"firstName,omitempty"`
	LastName  string   `json:"lastName,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Bio       string   `json:"bio,omitempty"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
	Images    []string `json:"images,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
