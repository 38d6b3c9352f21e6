package favorite

import "time"

// Favorite pins a frequently used HCPCS code for quick entry. SortOrder is a
// user-defined position; lower sorts first.
type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	UserID    string `gorm:"column:user_id;type:varchar(255);not null;uniqueIndex:uniq_favorites_user_hcpcs" json:"user_id"`
	Hcpcs     string `gorm:"column:hcpcs;type:varchar(5);not null;uniqueIndex:uniq_favorites_user_hcpcs" json:"hcpcs"`
	SortOrder int    `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
}

func (Favorite) TableName() string {
	return "billing.favorites"
}

// ReorderItem carries one position assignment in a reorder request. A nil
// SortOrder means "use the item's index in the submitted list".
type ReorderItem struct {
	Hcpcs     string `json:"hcpcs"`
	SortOrder *int   `json:"sort_order,omitempty"`
}
