package models

import "time"

// Category is a flat, owner-scoped label for items. Names are unique per
// owner; two different users may both have a "Tools" category.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index:idx_categories_user_name,unique;not null" json:"user_id"`
	Name        string    `gorm:"index:idx_categories_user_name,unique;size:100;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Display-only, filled on list views
	ItemCount int64 `gorm:"-" json:"item_count"`
	// Filled on detail views
	Items []Item `gorm:"-" json:"items,omitempty"`
}

// TableName specifies the table name for Category model
func (Category) TableName() string {
	return "categories"
}
