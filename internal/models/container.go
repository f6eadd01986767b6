package models

import "time"

// Container is a node in the owner's container tree. Nesting
// (ParentContainerID) and placement in a location (LocationID) are
// orthogonal: a container may sit directly in a location, inside another
// container, both, or neither.
type Container struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"index;not null" json:"user_id"`
	Name              string    `gorm:"size:100;not null" json:"name"`
	Description       string    `gorm:"size:500" json:"description,omitempty"`
	LocationID        *uint     `gorm:"index" json:"location_id"`
	ParentContainerID *uint     `gorm:"index" json:"parent_container_id"`
	Barcode           string    `gorm:"index;size:100" json:"barcode,omitempty"`
	BarcodeType       string    `gorm:"size:20" json:"barcode_type,omitempty"`
	ImagePath         string    `gorm:"size:500" json:"image_path,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	// Display-only, filled on list views
	LocationName string `gorm:"-" json:"location_name,omitempty"`
	ItemCount    int64  `gorm:"-" json:"item_count"`
	ChildCount   int64  `gorm:"-" json:"child_count"`

	// Tree view, assembled in memory
	Children []*Container `gorm:"-" json:"children,omitempty"`
}

// TableName specifies the table name for Container model
func (Container) TableName() string {
	return "containers"
}

// NodeID implements hierarchy.Node
func (c *Container) NodeID() uint { return c.ID }

// ParentNodeID implements hierarchy.Node
func (c *Container) ParentNodeID() *uint { return c.ParentContainerID }

// ContainerDetail is the enriched single-container view
type ContainerDetail struct {
	Container
	Parent          *NodeRef    `json:"parent,omitempty"`
	ChildContainers []Container `json:"child_containers"`
	Items           []Item      `json:"items"`
}
