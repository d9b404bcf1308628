package model

import "time"

// DemoSession is an anonymous visitor's temporary tenancy, keyed by
// client IP. The unique index on IP is what makes concurrent demo
// entry safe: a racing insert fails with a duplicate key error and
// falls back to fetching the winner's row.
type DemoSession struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	IP        string `gorm:"uniqueIndex;not null"`
	StartedAt time.Time
	ExpiresAt time.Time
}
