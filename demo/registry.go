// Package demo implements the anonymous demo tenancy. A visitor's IP
// gets a time boxed session, everything created during it is scoped to
// the session id, and a background reaper reclaims expired sessions
// and puts the IP on a cooldown before it may enter again.
//
// The IP is a coarse, untrusted identity: visitors behind the same NAT
// or proxy share one demo session and one ban. That tradeoff is
// accepted here on purpose.
package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neurodrafts/notes-api/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrSessionNotFound means the IP never entered the demo (or was
	// already reaped). Distinct from an expired-but-present session.
	ErrSessionNotFound = errors.New("no demo session")

	// ErrNoActiveSession means an anonymous caller tried to touch
	// scoped data without a usable session. The caller has to go
	// through the demo entry flow again.
	ErrNoActiveSession = errors.New("demo session expired or missing")
)

// BannedError rejects demo entry while the IP's cooldown is running.
type BannedError struct {
	Until time.Time
}

func (e *BannedError) Error() string {
	return fmt.Sprintf("demo entry banned until %s", e.Until.Format(time.RFC3339))
}

// RetryAfter reports how long the caller has to wait, rounded up so a
// ban never reads as "0 minutes left" while still active.
func (e *BannedError) RetryAfter(now time.Time) time.Duration {
	d := e.Until.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Registry answers whether an IP has a usable demo session and creates
// one when allowed. All demo session mutation goes through here so the
// one-active-session-per-IP invariant holds.
type Registry struct {
	DB         *gorm.DB
	SessionTTL time.Duration
	Ledger     *Ledger

	// Blobs cleans up stored uploads of stale sessions replaced on
	// re-entry. Optional, the reaper covers sessions it reclaims.
	Blobs BlobDeleter
}

func NewRegistry(db *gorm.DB, sessionTTL time.Duration) *Registry {
	return &Registry{
		DB:         db,
		SessionTTL: sessionTTL,
		Ledger:     &Ledger{DB: db},
	}
}

// EnterResult reports the session an entry call resolved to. Created
// distinguishes a fresh session from an idempotent re-entry into a
// still active one.
type EnterResult struct {
	Session model.DemoSession
	Created bool
}

// Enter implements demo entry for an IP:
//
//  1. reject while the IP is under an active ban
//  2. return the existing session unchanged while it is active
//  3. drop a stale session (and anything still scoped to it) if the
//     reaper hasn't gotten to it yet
//  4. create a new session expiring SessionTTL from now
//
// The check-then-insert is kept atomic by the unique index on IP: the
// insert does nothing on conflict, and a concurrent Enter that loses
// the race fetches the winner's row instead of creating a duplicate.
func (r *Registry) Enter(ip string) (*EnterResult, error) {
	now := time.Now()

	banned, until, err := r.Ledger.IsBanned(ip, now)
	if err != nil {
		return nil, err
	}

	if banned {
		return nil, &BannedError{Until: until}
	}

	var (
		res       EnterResult
		staleKeys []string
	)

	err = r.DB.Transaction(func(tx *gorm.DB) error {
		var s model.DemoSession

		err := tx.Where("ip = ?", ip).First(&s).Error
		if err == nil {
			if s.ExpiresAt.After(now) {
				res = EnterResult{Session: s}
				return nil
			}

			// Normally the reaper removes expired sessions before
			// anyone re-enters. This is the fallback for the window
			// between expiry and the next sweep, so the stale
			// session's blob keys are collected here the way the
			// reaper collects them.
			err := tx.Model(&model.File{}).
				Where("demo_session_id = ?", s.ID).
				Pluck("file_key", &staleKeys).
				Error
			if err != nil {
				return err
			}

			if err := cascadeDelete(tx, s.ID); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		s = model.DemoSession{
			ID:        uuid.NewString(),
			IP:        ip,
			StartedAt: now,
			ExpiresAt: now.Add(r.SessionTTL),
		}

		// DoNothing instead of letting the insert fail: a failed
		// statement aborts the whole transaction on postgres, which
		// would make the recovery fetch below impossible
		ins := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "ip"}},
			DoNothing: true,
		}).Create(&s)
		if ins.Error != nil {
			return ins.Error
		}

		if ins.RowsAffected == 0 {
			// Lost the race against a concurrent Enter for the
			// same IP, use the winner's session
			if err := tx.Where("ip = ?", ip).First(&s).Error; err != nil {
				return err
			}

			res = EnterResult{Session: s}
			return nil
		}

		res = EnterResult{Session: s, Created: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.Blobs != nil && len(staleKeys) > 0 {
		if err := r.Blobs.Delete(context.Background(), staleKeys...); err != nil {
			zap.L().Error("Failed to delete blobs of replaced demo session",
				zap.String("ip", ip), zap.Error(err))
		}
	}

	return &res, nil
}

// Status describes a demo session without touching it.
type Status struct {
	Active           bool
	RemainingSeconds int
	ExpiresAt        time.Time
}

// Status is the side effect free poll used by the frontend countdown.
// An IP that never entered gets ErrSessionNotFound, an expired but not
// yet reaped session reports Active false with zero remaining.
func (r *Registry) Status(ip string) (*Status, error) {
	var s model.DemoSession

	err := r.DB.Where("ip = ?", ip).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}

		return nil, err
	}

	remaining := time.Until(s.ExpiresAt)

	return &Status{
		Active:           remaining > 0,
		RemainingSeconds: max(0, int(remaining.Seconds())),
		ExpiresAt:        s.ExpiresAt,
	}, nil
}

// Active resolves the session an anonymous caller's data must be
// scoped to. Handlers call this before any read or write on folders,
// notes or files made without a user identity.
func (r *Registry) Active(ip string) (*model.DemoSession, error) {
	var s model.DemoSession

	err := r.DB.Where("ip = ?", ip).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveSession
		}

		return nil, err
	}

	if !s.ExpiresAt.After(time.Now()) {
		return nil, ErrNoActiveSession
	}

	return &s, nil
}

// cascadeDelete removes everything scoped to a session and then the
// session row itself. Children go first so enforced foreign keys can
// never be violated mid-delete.
func cascadeDelete(tx *gorm.DB, sessionID string) error {
	if err := tx.Where("demo_session_id = ?", sessionID).Delete(&model.Note{}).Error; err != nil {
		return err
	}

	if err := tx.Where("demo_session_id = ?", sessionID).Delete(&model.File{}).Error; err != nil {
		return err
	}

	if err := tx.Where("demo_session_id = ?", sessionID).Delete(&model.Folder{}).Error; err != nil {
		return err
	}

	return tx.Where("id = ?", sessionID).Delete(&model.DemoSession{}).Error
}
