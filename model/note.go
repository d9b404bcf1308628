package model

type Note struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string  `gorm:"not null" json:"title"`
	Content       string  `gorm:"not null" json:"content"`
	FolderID      uint    `gorm:"index;not null" json:"folder_id"`
	UserID        *string `gorm:"index" json:"-"`
	DemoSessionID *string `gorm:"index" json:"-"`
	CreatedAt     int64   `gorm:"not null" json:"created_at"`
}
