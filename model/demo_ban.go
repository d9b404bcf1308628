package model

import "time"

// DemoBan blocks demo re-entry for an IP until BannedUntil. Rows are
// never deleted, a lapsed ban is simply ignored and overwritten by the
// next one.
type DemoBan struct {
	IP          string `gorm:"primaryKey"`
	BannedUntil time.Time
}
