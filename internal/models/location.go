package models

import "time"

// Location is a node in the owner's location tree. A nil ParentLocationID
// marks a root. The parent must belong to the same user and must never be a
// descendant of this location.
type Location struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	Name             string    `gorm:"size:100;not null" json:"name"`
	Description      string    `gorm:"size:500" json:"description,omitempty"`
	ParentLocationID *uint     `gorm:"index" json:"parent_location_id"`
	ImagePath        string    `gorm:"size:500" json:"image_path,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Display-only, filled on list views
	ContainerCount int64 `gorm:"-" json:"container_count"`
	ItemCount      int64 `gorm:"-" json:"item_count"`

	// Tree view, assembled in memory
	Children []*Location `gorm:"-" json:"children,omitempty"`
}

// TableName specifies the table name for Location model
func (Location) TableName() string {
	return "locations"
}

// NodeID implements hierarchy.Node
func (l *Location) NodeID() uint { return l.ID }

// ParentNodeID implements hierarchy.Node
func (l *Location) ParentNodeID() *uint { return l.ParentLocationID }

// NodeRef is a lightweight id/name reference used when embedding a parent
// summary in detail responses.
type NodeRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// LocationDetail is the enriched single-location view
type LocationDetail struct {
	Location
	Parent         *NodeRef    `json:"parent,omitempty"`
	ChildLocations []Location  `json:"child_locations"`
	Containers     []Container `json:"containers"`
	Items          []Item      `json:"items"`
}
