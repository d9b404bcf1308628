package demo

import (
	"fmt"
	"testing"
	"time"

	"neurodrafts/notes-api/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		model.DemoSession{},
		model.DemoBan{},
		model.Folder{},
		model.Note{},
		model.File{},
	))

	return db
}

func sessionCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(&model.DemoSession{}).Count(&n).Error)
	return n
}

func TestEnterCreatesSession(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, 15*time.Minute)

	res, err := r.Enter("1.2.3.4")
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, "1.2.3.4", res.Session.IP)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), res.Session.ExpiresAt, 2*time.Second)
	assert.EqualValues(t, 1, sessionCount(t, db))
}

func TestEnterIsIdempotentWhileActive(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, 15*time.Minute)

	first, err := r.Enter("1.2.3.4")
	require.NoError(t, err)
	require.True(t, first.Created)

	second, err := r.Enter("1.2.3.4")
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.Session.ID, second.Session.ID)
	assert.Equal(t, first.Session.ExpiresAt.Unix(), second.Session.ExpiresAt.Unix())
	assert.EqualValues(t, 1, sessionCount(t, db))
}

func TestEnterReplacesExpiredSession(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, 15*time.Minute)

	stale := model.DemoSession{
		ID:        uuid.NewString(),
		IP:        "1.2.3.4",
		StartedAt: time.Now().Add(-30 * time.Minute),
		ExpiresAt: time.Now().Add(-15 * time.Minute),
	}
	require.NoError(t, db.Create(&stale).Error)

	// Leftovers the reaper hasn't gotten to yet
	require.NoError(t, db.Create(&model.Folder{Name: "old", DemoSessionID: &stale.ID}).Error)
	require.NoError(t, db.Create(&model.Note{Title: "old", Content: "x", FolderID: 1, DemoSessionID: &stale.ID}).Error)

	res, err := r.Enter("1.2.3.4")
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.NotEqual(t, stale.ID, res.Session.ID)
	assert.EqualValues(t, 1, sessionCount(t, db))

	var folders, notes int64
	require.NoError(t, db.Model(&model.Folder{}).Where("demo_session_id = ?", stale.ID).Count(&folders).Error)
	require.NoError(t, db.Model(&model.Note{}).Where("demo_session_id = ?", stale.ID).Count(&notes).Error)
	assert.Zero(t, folders)
	assert.Zero(t, notes)
}

func TestEnterLostInsertRaceUsesWinnersRow(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, 15*time.Minute)

	winner := model.DemoSession{
		ID:        uuid.NewString(),
		IP:        "1.2.3.4",
		StartedAt: time.Now(),
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}

	// Slip the winner's row in between Enter's existence check and its
	// insert, like a concurrent entry from the same address would
	injected := false
	err := db.Callback().Create().Before("gorm:create").Register("competing_entry", func(tx *gorm.DB) {
		if injected {
			return
		}

		if _, ok := tx.Statement.Dest.(*model.DemoSession); !ok {
			return
		}

		injected = true
		tx.Session(&gorm.Session{NewDB: true}).Exec(
			"INSERT INTO demo_sessions (id, ip, started_at, expires_at) VALUES (?, ?, ?, ?)",
			winner.ID, winner.IP, winner.StartedAt, winner.ExpiresAt,
		)
	})
	require.NoError(t, err)

	res, err := r.Enter("1.2.3.4")
	require.NoError(t, err)

	assert.True(t, injected)
	assert.False(t, res.Created)
	assert.Equal(t, winner.ID, res.Session.ID)
	assert.EqualValues(t, 1, sessionCount(t, db))
}

func TestEnterReplacingStaleSessionDeletesBlobs(t *testing.T) {
	db := newTestDB(t)
	blobs := &fakeBlobs{}
	r := NewRegistry(db, 15*time.Minute)
	r.Blobs = blobs

	stale := seedSession(t, db, "1.2.3.4", time.Now().Add(-time.Minute))

	res, err := r.Enter("1.2.3.4")
	require.NoError(t, err)
	require.True(t, res.Created)

	assert.Zero(t, scopedRows(t, db, stale.ID))
	assert.Equal(t, []string{"blob-1.2.3.4"}, blobs.deleted)
}

func TestEnterRejectsBannedIP(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, 15*time.Minute)

	until := time.Now().Add(90 * time.Minute)
	require.NoError(t, r.Ledger.Impose("1.2.3.4", until))

	res, err := r.Enter("1.2.3.4")
	require.Nil(t, res)

	var banned *BannedError
	require.ErrorAs(t, err, &banned)
	assert.Equal(t, until.Unix(), banned.Until.Unix())
	assert.InDelta(t, 90*time.Minute, banned.RetryAfter(time.Now()), float64(2*time.Second))
	assert.Zero(t, sessionCount(t, db))
}

func TestEnterIgnoresLapsedBan(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, 15*time.Minute)

	require.NoError(t, r.Ledger.Impose("1.2.3.4", time.Now().Add(-time.Minute)))

	res, err := r.Enter("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, res.Created)

	// The lapsed row stays behind, it's just inert
	var bans int64
	require.NoError(t, db.Model(&model.DemoBan{}).Count(&bans).Error)
	assert.EqualValues(t, 1, bans)
}

func TestStatusDistinguishesAbsentExpiredActive(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, 15*time.Minute)

	_, err := r.Status("1.2.3.4")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = r.Enter("1.2.3.4")
	require.NoError(t, err)

	st, err := r.Status("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, st.Active)
	assert.Greater(t, st.RemainingSeconds, 0)
	assert.LessOrEqual(t, st.RemainingSeconds, int((15 * time.Minute).Seconds()))

	expired := model.DemoSession{
		ID:        uuid.NewString(),
		IP:        "5.6.7.8",
		StartedAt: time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(-45 * time.Minute),
	}
	require.NoError(t, db.Create(&expired).Error)

	st, err = r.Status("5.6.7.8")
	require.NoError(t, err)
	assert.False(t, st.Active)
	assert.Zero(t, st.RemainingSeconds)

	// Polling never mutates anything
	assert.EqualValues(t, 2, sessionCount(t, db))
}

func TestActiveRejectsExpiredSession(t *testing.T) {
	db := newTestDB(t)
	r := NewRegistry(db, 15*time.Minute)

	_, err := r.Active("1.2.3.4")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	expired := model.DemoSession{
		ID:        uuid.NewString(),
		IP:        "1.2.3.4",
		StartedAt: time.Now().Add(-time.Hour),
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Create(&expired).Error)

	_, err = r.Active("1.2.3.4")
	assert.ErrorIs(t, err, ErrNoActiveSession)

	_, err = r.Enter("5.6.7.8")
	require.NoError(t, err)

	s, err := r.Active("5.6.7.8")
	require.NoError(t, err)
	assert.Equal(t, "5.6.7.8", s.IP)
}

func TestImposeRefreshesInsteadOfDuplicating(t *testing.T) {
	db := newTestDB(t)
	l := &Ledger{DB: db}

	first := time.Now().Add(time.Hour)
	second := time.Now().Add(3 * time.Hour)

	require.NoError(t, l.Impose("1.2.3.4", first))
	require.NoError(t, l.Impose("1.2.3.4", second))

	var bans []model.DemoBan
	require.NoError(t, db.Find(&bans).Error)
	require.Len(t, bans, 1)
	assert.Equal(t, second.Unix(), bans[0].BannedUntil.Unix())

	banned, until, err := l.IsBanned("1.2.3.4", time.Now())
	require.NoError(t, err)
	assert.True(t, banned)
	assert.Equal(t, second.Unix(), until.Unix())
}
