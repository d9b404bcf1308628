package demo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"neurodrafts/notes-api/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BlobDeleter removes stored upload blobs once the rows pointing at
// them are gone. Satisfied by the storage backends.
type BlobDeleter interface {
	Delete(ctx context.Context, keys ...string) error
}

// Reaper periodically reclaims expired demo sessions: it cascades the
// session's notes, files and folders away, removes the session and
// imposes the cooldown ban on the owning IP. It runs independently of
// request handling and owns its goroutine, Start and Stop bracket the
// process lifecycle.
type Reaper struct {
	DB       *gorm.DB
	Interval time.Duration
	BanFor   time.Duration
	Blobs    BlobDeleter

	stop chan struct{}
	done chan struct{}
}

func NewReaper(db *gorm.DB, interval, banFor time.Duration, blobs BlobDeleter) *Reaper {
	return &Reaper{
		DB:       db,
		Interval: interval,
		BanFor:   banFor,
		Blobs:    blobs,
	}
}

// Start attaches the sweep loop. Sweep errors are logged and retried
// on the next tick, a failing store never takes the process down.
func (r *Reaper) Start() {
	r.stop = make(chan struct{})
	r.done = make(chan struct{})

	zap.L().Debug("Demo reaper attached", zap.Duration("tick_every", r.Interval))

	go func() {
		defer close(r.done)

		ticker := time.NewTicker(r.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				n, err := r.Sweep(time.Now())
				if err != nil {
					zap.L().Error("Demo sweep failed", zap.Error(err))
				}

				if n > 0 {
					zap.L().Info("Reclaimed expired demo sessions", zap.Int("count", n))
				}
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop halts the sweep loop and waits for it to exit.
func (r *Reaper) Stop() {
	close(r.stop)
	<-r.done
}

// Sweep runs one reclamation pass and returns how many sessions were
// reclaimed. Each session is cleaned up in its own transaction so a
// storage error can't leave orphaned resources behind: the rollback
// keeps the session row, and the next sweep picks it up again. Blobs
// are only deleted after the owning rows are committed away.
func (r *Reaper) Sweep(now time.Time) (int, error) {
	var expired []model.DemoSession

	err := r.DB.Where("expires_at < ?", now).Find(&expired).Error
	if err != nil {
		return 0, fmt.Errorf("failed to query expired demo sessions, %w", err)
	}

	reclaimed := 0
	var errs []error

	for _, s := range expired {
		var keys []string

		err := r.DB.Transaction(func(tx *gorm.DB) error {
			err := tx.Model(&model.File{}).
				Where("demo_session_id = ?", s.ID).
				Pluck("file_key", &keys).
				Error
			if err != nil {
				return err
			}

			if err := cascadeDelete(tx, s.ID); err != nil {
				return err
			}

			ledger := Ledger{DB: tx}
			return ledger.Impose(s.IP, now.Add(r.BanFor))
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to reclaim session %s, %w", s.ID, err))
			continue
		}

		reclaimed++

		if r.Blobs != nil && len(keys) > 0 {
			if err := r.Blobs.Delete(context.Background(), keys...); err != nil {
				zap.L().Error("Failed to delete blobs of reclaimed demo session",
					zap.String("session_id", s.ID), zap.Error(err))
			}
		}
	}

	return reclaimed, errors.Join(errs...)
}
