package domain

// PropertyStatus 房源状态
type PropertyStatus string

const (
	PropertyAvailable   PropertyStatus = "available"
	PropertyRented      PropertyStatus = "rented"
	PropertyMaintenance PropertyStatus = "maintenance"
	PropertyInactive    PropertyStatus = "inactive"
)

// Valid 是否为合法房源状态
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyAvailable, PropertyRented, PropertyMaintenance, PropertyInactive:
		return true
	}
	return false
}

// Property 房源领域模型（对应 properties 表）
type Property struct {
	// 主键
	ID string `json:"id"`

	// 归属
	OwnerID string `json:"ownerId"` // = 房东 user id

	// 基本信息
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"` // 月租金

	// 地址
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`

	// 房型
	Bedrooms     int     `json:"bedrooms,omitempty"`
	Bathrooms    float64 `json:"bathrooms,omitempty"`
	SquareFeet   int     `json:"squareFeet,omitempty"`
	PropertyType string  `json:"propertyType,omitempty"` // apartment/house/condo/...

	// 状态（申请批准的副作用会把它翻转为 rented）
	Status PropertyStatus `json:"status"`

	// 图片（Blob Store 公开 URL）
	Images []string `json:"images,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}
