package models

import (
	"time"

	"gorm.io/gorm"
)

// AuthProvider identifies how a user authenticates
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

// User represents a registered user. A user has exactly one auth provider:
// 'local' users carry a password hash, 'google' users may have none.
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"uniqueIndex;size:50" json:"username"`
	Email          string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash   string         `gorm:"size:255" json:"-"`
	GoogleID       string         `gorm:"uniqueIndex;size:100;default:null" json:"-"`
	AuthProvider   AuthProvider   `gorm:"size:20;not null;default:'local'" json:"auth_provider"`
	ProfilePicture string         `gorm:"size:500" json:"profile_picture,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations (deleting a user cascades to everything it owns)
	Categories []Category  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Locations  []Location  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Containers []Container `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items      []Item      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
