package models

import "time"

// Item is a leaf entity. Category, container and location references are
// independent nullable foreign keys, not a discriminated union: an item may
// be placed in a location, a container, both, or neither.
type Item struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	Name         string    `gorm:"size:200;not null" json:"name"`
	Description  string    `gorm:"size:1000" json:"description,omitempty"`
	Quantity     int       `gorm:"not null;default:1" json:"quantity"`
	CategoryID   *uint     `gorm:"index" json:"category_id"`
	ContainerID  *uint     `gorm:"index" json:"container_id"`
	LocationID   *uint     `gorm:"index" json:"location_id"`
	Barcode      string    `gorm:"index;size:100" json:"barcode,omitempty"`
	BarcodeType  string    `gorm:"size:20" json:"barcode_type,omitempty"`
	ImagePath    string    `gorm:"size:500" json:"image_path,omitempty"`
	AIIdentified bool      `gorm:"default:false" json:"ai_identified"`
	AIConfidence *float64  `json:"ai_confidence,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Display names, filled by joined list/detail queries
	CategoryName  string `gorm:"-" json:"category_name,omitempty"`
	ContainerName string `gorm:"-" json:"container_name,omitempty"`
	LocationName  string `gorm:"-" json:"location_name,omitempty"`
}

// TableName specifies the table name for Item model
func (Item) TableName() string {
	return "items"
}
