// Package model defines database models
package model

// Folder is owned by either a registered user or a demo session,
// never both and never neither.
type Folder struct {
	ID            uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string      `gorm:"not null" json:"name"`
	UserID        *string     `gorm:"index" json:"-"`
	DemoSessionID *string     `gorm:"index" json:"-"`
	Tags          StringSlice `json:"tags"`
	CreatedAt     int64       `gorm:"not null" json:"created_at"`

	Notes []Note `gorm:"foreignKey:FolderID" json:"-"`
	Files []File `gorm:"foreignKey:FolderID" json:"-"`
}
