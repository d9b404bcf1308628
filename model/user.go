package model

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	FullName     string `json:"full_name"`
	// Stays false until the registration code sent by mail is confirmed
	Active    bool   `gorm:"default:false" json:"-"`
	Role      string `gorm:"default:user" json:"role"`
	CreatedAt int64  `gorm:"not null" json:"-"`

	Folders    []Folder    `gorm:"foreignKey:UserID" json:"-"`
	EmailCodes []EmailCode `gorm:"foreignKey:UserID" json:"-"`
}
