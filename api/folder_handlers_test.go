package api

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"neurodrafts/notes-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderRequiresIdentity(t *testing.T) {
	a, _ := newTestAPI(t)

	w := do(t, a, http.MethodPost, "/api/folders", "203.0.113.1", map[string]any{"name": "Fizik"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFoldersScopedToDemoSession(t *testing.T) {
	a, _ := newTestAPI(t)

	require.Equal(t, http.StatusOK, do(t, a, http.MethodPost, "/api/demo/login", "203.0.113.2", nil).Code)
	require.Equal(t, http.StatusOK, do(t, a, http.MethodPost, "/api/demo/login", "203.0.113.3", nil).Code)

	w := do(t, a, http.MethodPost, "/api/folders", "203.0.113.2", map[string]any{"name": "Fizik"})
	require.Equal(t, http.StatusCreated, w.Code)

	// The other visitor sees nothing
	w = do(t, a, http.MethodGet, "/api/folders", "203.0.113.3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = do(t, a, http.MethodGet, "/api/folders", "203.0.113.2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fizik")
}

func TestFolderNotesLifecycle(t *testing.T) {
	a, _ := newTestAPI(t)

	require.Equal(t, http.StatusOK, do(t, a, http.MethodPost, "/api/demo/login", "203.0.113.4", nil).Code)

	w := do(t, a, http.MethodPost, "/api/folders", "203.0.113.4", map[string]any{"name": "Kimya"})
	require.Equal(t, http.StatusCreated, w.Code)
	folderID := int(decode(t, w)["id"].(float64))

	w = do(t, a, http.MethodPost, "/api/folders/1/notes", "203.0.113.4", map[string]any{
		"title":   "Asitler",
		"content": "pH < 7",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	noteID := int(decode(t, w)["id"].(float64))
	assert.Equal(t, folderID, int(decode(t, w)["folder_id"].(float64)))

	w = do(t, a, http.MethodPatch, "/api/notes/1", "203.0.113.4", map[string]any{"content": "pH < 7, tatları ekşidir"})
	require.Equal(t, http.StatusOK, w.Code)

	var note model.Note
	require.NoError(t, a.DB.First(&note, noteID).Error)
	assert.Equal(t, "pH < 7, tatları ekşidir", note.Content)

	require.Equal(t, http.StatusOK, do(t, a, http.MethodDelete, "/api/notes/1", "203.0.113.4", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, a, http.MethodDelete, "/api/notes/1", "203.0.113.4", nil).Code)
}

func TestNoteNotEditableAcrossSessions(t *testing.T) {
	a, _ := newTestAPI(t)

	require.Equal(t, http.StatusOK, do(t, a, http.MethodPost, "/api/demo/login", "203.0.113.5", nil).Code)
	require.Equal(t, http.StatusOK, do(t, a, http.MethodPost, "/api/demo/login", "203.0.113.6", nil).Code)

	require.Equal(t, http.StatusCreated, do(t, a, http.MethodPost, "/api/folders", "203.0.113.5", map[string]any{"name": "Tarih"}).Code)
	require.Equal(t, http.StatusCreated, do(t, a, http.MethodPost, "/api/folders/1/notes", "203.0.113.5", map[string]any{
		"title":   "Not",
		"content": "içerik",
	}).Code)

	w := do(t, a, http.MethodPatch, "/api/notes/1", "203.0.113.6", map[string]any{"title": "ele geçirildi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFolderDeleteCascades(t *testing.T) {
	a, fs := newTestAPI(t)

	require.Equal(t, http.StatusOK, do(t, a, http.MethodPost, "/api/demo/login", "203.0.113.7", nil).Code)
	require.Equal(t, http.StatusCreated, do(t, a, http.MethodPost, "/api/folders", "203.0.113.7", map[string]any{"name": "Biyoloji"}).Code)
	require.Equal(t, http.StatusCreated, do(t, a, http.MethodPost, "/api/folders/1/notes", "203.0.113.7", map[string]any{
		"title":   "Hücre",
		"content": "çekirdek",
	}).Code)

	// A file row with a stored blob, as the upload path would leave it
	var folder model.Folder
	require.NoError(t, a.DB.First(&folder, 1).Error)

	require.NoError(t, fs.Save(t.Context(), "deadbeef.zip", bytes.NewReader([]byte("blob")), 4, "application/pdf"))
	require.NoError(t, a.DB.Create(&model.File{
		FolderID:      folder.ID,
		DemoSessionID: folder.DemoSessionID,
		FileKey:       "deadbeef.zip",
		OriginalName:  "hücre.pdf",
		Format:        "application/pdf",
		Size:          4,
		CreatedAt:     time.Now().Unix(),
	}).Error)

	require.Equal(t, http.StatusOK, do(t, a, http.MethodDelete, "/api/folders/1", "203.0.113.7", nil).Code)

	var n int64
	require.NoError(t, a.DB.Model(&model.Note{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, a.DB.Model(&model.File{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
	require.NoError(t, a.DB.Model(&model.Folder{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)

	assert.Contains(t, fs.deleted, "deadbeef.zip")
}

func TestContactStoresMessage(t *testing.T) {
	a, _ := newTestAPI(t)

	w := do(t, a, http.MethodPost, "/api/contact", "203.0.113.8", map[string]any{
		"name":    "Ayşe",
		"email":   "ayse@example.com",
		"message": "Merhaba",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var n int64
	require.NoError(t, a.DB.Model(&model.ContactMessage{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
