package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"neurodrafts/notes-api/demo"
	"neurodrafts/notes-api/middleware"
	"neurodrafts/notes-api/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeStore records deleted keys so cascade tests can check blob
// cleanup without a real backend.
type fakeStore struct {
	blobs   map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{blobs: map[string][]byte{}}
}

func (f *fakeStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	f.blobs[key] = b
	return nil
}

func (f *fakeStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("no blob %s", key)
	}

	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *fakeStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.blobs, k)
		f.deleted = append(f.deleted, k)
	}

	return nil
}

func newTestAPI(t *testing.T) (*API, *fakeStore) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		model.User{},
		model.EmailCode{},
		model.Folder{},
		model.Note{},
		model.File{},
		model.DemoSession{},
		model.DemoBan{},
		model.ContactMessage{},
	))

	fs := newFakeStore()

	a := &API{
		DB:    db,
		Store: fs,
		Demo:  demo.NewRegistry(db, 15*time.Minute),
	}

	router := gin.New()
	router.Use(middleware.NewRequestIDMiddleware())

	main := router.Group("/api")
	main.POST("/contact", a.ContactSubmit)

	dm := main.Group("/demo")
	dm.POST("/login", a.DemoEnter)
	dm.GET("/status", a.DemoStatus)

	folders := main.Group("/folders")
	folders.POST("", a.FolderCreate)
	folders.GET("", a.FolderFetch)
	folders.PATCH("/:folderID", a.FolderEdit)
	folders.DELETE("/:folderID", a.FolderDelete)
	folders.GET("/:folderID/contents", a.FolderContents)
	folders.POST("/:folderID/notes", a.NoteCreate)
	folders.GET("/:folderID/notes", a.NoteFetch)

	notes := main.Group("/notes")
	notes.PATCH("/:noteID", a.NoteEdit)
	notes.DELETE("/:noteID", a.NoteDelete)

	a.Router = router

	return a, fs
}

// do sends a request from a fixed client address, optionally with a
// JSON body, and returns the recorder.
func do(t *testing.T, a *API, method, path, ip string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	req.RemoteAddr = ip + ":51234"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
