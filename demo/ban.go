package demo

import (
	"errors"
	"time"

	"neurodrafts/notes-api/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger keeps the per IP cooldown that stops a visitor from starting
// a fresh demo the moment the old one expired. Bans stick to the
// network identity, not the session, so throwing the session away
// doesn't dodge the cooldown.
type Ledger struct {
	DB *gorm.DB
}

// IsBanned reports whether the IP is under an active cooldown and
// until when. A lapsed ban row is inert: it stays in the table and is
// simply ignored here.
func (l *Ledger) IsBanned(ip string, now time.Time) (bool, time.Time, error) {
	var ban model.DemoBan

	err := l.DB.Where("ip = ?", ip).First(&ban).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, time.Time{}, nil
		}

		return false, time.Time{}, err
	}

	if ban.BannedUntil.After(now) {
		return true, ban.BannedUntil, nil
	}

	return false, time.Time{}, nil
}

// Impose upserts the cooldown for an IP. Banning an already banned IP
// refreshes banned_until in place, there is never more than one row
// per IP.
func (l *Ledger) Impose(ip string, until time.Time) error {
	return l.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ip"}},
		DoUpdates: clause.Assignments(map[string]any{"banned_until": until}),
	}).Create(&model.DemoBan{IP: ip, BannedUntil: until}).Error
}
