package domain

// Role 用户角色（封闭枚举，路由授权按角色声明）
type Role string

const (
	RoleLandlord Role = "landlord"
	RoleRenter   Role = "renter"
)

// Valid 是否为合法角色
func (r Role) Valid() bool {
	return r == RoleLandlord || r == RoleRenter
}
