package demo

import (
	"context"
	"testing"
	"time"

	"neurodrafts/notes-api/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeBlobs struct {
	deleted []string
}

func (f *fakeBlobs) Delete(_ context.Context, keys ...string) error {
	f.deleted = append(f.deleted, keys...)
	return nil
}

func seedSession(t *testing.T, db *gorm.DB, ip string, expiresAt time.Time) model.DemoSession {
	t.Helper()

	s := model.DemoSession{
		ID:        uuid.NewString(),
		IP:        ip,
		StartedAt: expiresAt.Add(-15 * time.Minute),
		ExpiresAt: expiresAt,
	}
	require.NoError(t, db.Create(&s).Error)

	folder := model.Folder{Name: "folder", DemoSessionID: &s.ID}
	require.NoError(t, db.Create(&folder).Error)
	require.NoError(t, db.Create(&model.Note{Title: "a", Content: "x", FolderID: folder.ID, DemoSessionID: &s.ID}).Error)
	require.NoError(t, db.Create(&model.Note{Title: "b", Content: "y", FolderID: folder.ID, DemoSessionID: &s.ID}).Error)
	require.NoError(t, db.Create(&model.File{FolderID: folder.ID, DemoSessionID: &s.ID, FileKey: "blob-" + ip}).Error)

	return s
}

func scopedRows(t *testing.T, db *gorm.DB, sessionID string) int64 {
	t.Helper()

	var notes, files, folders int64
	require.NoError(t, db.Model(&model.Note{}).Where("demo_session_id = ?", sessionID).Count(&notes).Error)
	require.NoError(t, db.Model(&model.File{}).Where("demo_session_id = ?", sessionID).Count(&files).Error)
	require.NoError(t, db.Model(&model.Folder{}).Where("demo_session_id = ?", sessionID).Count(&folders).Error)
	return notes + files + folders
}

func TestSweepReclaimsExpiredSessions(t *testing.T) {
	db := newTestDB(t)
	blobs := &fakeBlobs{}
	reaper := NewReaper(db, time.Minute, 2*time.Hour, blobs)

	now := time.Now()
	expired := seedSession(t, db, "1.2.3.4", now.Add(-time.Minute))
	active := seedSession(t, db, "5.6.7.8", now.Add(10*time.Minute))

	n, err := reaper.Sweep(now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Cascade completeness: nothing scoped to the reclaimed session survives
	assert.Zero(t, scopedRows(t, db, expired.ID))
	assert.ErrorIs(t, db.Where("id = ?", expired.ID).First(&model.DemoSession{}).Error, gorm.ErrRecordNotFound)

	// The active session and its data are untouched
	assert.EqualValues(t, 4, scopedRows(t, db, active.ID))
	assert.EqualValues(t, 1, sessionCount(t, db))

	// The owning IP is on cooldown for the configured window
	var ban model.DemoBan
	require.NoError(t, db.Where("ip = ?", expired.IP).First(&ban).Error)
	assert.Equal(t, now.Add(2*time.Hour).Unix(), ban.BannedUntil.Unix())

	assert.Equal(t, []string{"blob-1.2.3.4"}, blobs.deleted)
}

func TestSweepIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	reaper := NewReaper(db, time.Minute, 2*time.Hour, nil)

	now := time.Now()
	seedSession(t, db, "1.2.3.4", now.Add(-time.Minute))

	n, err := reaper.Sweep(now)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	// Nothing expired between runs, second pass is a no-op
	n, err = reaper.Sweep(now)
	require.NoError(t, err)
	assert.Zero(t, n)

	var bans int64
	require.NoError(t, db.Model(&model.DemoBan{}).Count(&bans).Error)
	assert.EqualValues(t, 1, bans)
}

func TestSweepRefreshesExistingBan(t *testing.T) {
	db := newTestDB(t)
	reaper := NewReaper(db, time.Minute, 2*time.Hour, nil)

	// Lapsed ban from an earlier demo cycle of the same IP
	stale := time.Now().Add(-3 * time.Hour)
	require.NoError(t, (&Ledger{DB: db}).Impose("1.2.3.4", stale))

	now := time.Now()
	seedSession(t, db, "1.2.3.4", now.Add(-time.Minute))

	n, err := reaper.Sweep(now)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var bans []model.DemoBan
	require.NoError(t, db.Find(&bans).Error)
	require.Len(t, bans, 1)
	assert.Equal(t, now.Add(2*time.Hour).Unix(), bans[0].BannedUntil.Unix())
}

func TestSweepWithNothingExpired(t *testing.T) {
	db := newTestDB(t)
	reaper := NewReaper(db, time.Minute, 2*time.Hour, nil)

	n, err := reaper.Sweep(time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReaperStartStop(t *testing.T) {
	db := newTestDB(t)
	reaper := NewReaper(db, 10*time.Millisecond, 2*time.Hour, nil)

	seedSession(t, db, "1.2.3.4", time.Now().Add(-time.Minute))

	reaper.Start()
	time.Sleep(50 * time.Millisecond)
	reaper.Stop()

	assert.EqualValues(t, 0, sessionCount(t, db))
}
