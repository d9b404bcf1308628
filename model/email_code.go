package model

import "time"

const (
	CodePurposeRegister = "register"
	CodePurposeReset    = "reset"
)

type EmailCode struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"index"`
	Code      string
	Purpose   string
	ExpiresAt time.Time
	CreatedAt time.Time
}
