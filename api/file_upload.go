package api

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"neurodrafts/notes-api/model"
	"neurodrafts/notes-api/util"
	"neurodrafts/notes-api/validators"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileUpload takes a multipart file, pulls text out of it, compresses
// it (images are re-encoded as JPEG, everything else is zipped) and
// stores the result. Extracted text also lands in a note so uploads
// show up as usable content right away.
func (a *API) FileUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	o, ok := a.resolveOwner(c)
	if !ok {
		return
	}

	folder, ok := a.ownedFolder(c, o, c.Param("folderID"))
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No file in request",
			"requestID": requestID,
		})
		return
	}

	mime, err := validators.UploadValidator(fh)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	// Extraction tools work on paths, so the upload goes through a
	// temp file first
	tmp := filepath.Join(os.TempDir(), uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
	if err := c.SaveUploadedFile(fh, tmp); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to buffer upload", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer os.Remove(tmp)

	text, err := a.Extractor.Auto(c.Request.Context(), tmp, mime)
	if err != nil {
		// Extraction failing shouldn't lose the upload
		zap.L().Warn("Text extraction failed", zap.Error(err), zap.String("requestID", requestID))
		text = ""
	}

	raw, err := os.ReadFile(tmp)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to read buffered upload", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	var (
		blob []byte
		ext  string
	)

	if strings.HasPrefix(mime, "image/") {
		blob, err = util.CompressImage(bytes.NewReader(raw))
		ext = ".jpg"
	} else {
		blob, err = util.ZipFile(fh.Filename, bytes.NewReader(raw))
		ext = ".zip"
	}

	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to compress upload", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	key := uuid.NewString() + ext

	err = a.Store.Save(c.Request.Context(), key, bytes.NewReader(blob), int64(len(blob)), mime)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store upload", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	userID, sessionID := o.ids()

	file := model.File{
		FolderID:      folder.ID,
		UserID:        userID,
		DemoSessionID: sessionID,
		FileKey:       key,
		OriginalName:  fh.Filename,
		Format:        mime,
		Size:          int64(len(blob)),
		ExtractedText: text,
		CreatedAt:     time.Now().Unix(),
	}

	if err := a.DB.Create(&file).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create file record", zap.Error(err), zap.String("requestID", requestID))

		if derr := a.Store.Delete(c.Request.Context(), key); derr != nil {
			zap.L().Error("Failed to clean up stored blob", zap.Error(derr), zap.String("requestID", requestID))
		}
		return
	}

	var noteID *uint

	if strings.TrimSpace(text) != "" {
		note := model.Note{
			Title:         fmt.Sprintf("%s (otomatik)", fh.Filename),
			Content:       text,
			FolderID:      folder.ID,
			UserID:        userID,
			DemoSessionID: sessionID,
			CreatedAt:     time.Now().Unix(),
		}

		if err := a.DB.Create(&note).Error; err != nil {
			zap.L().Error("Failed to create auto note", zap.Error(err), zap.String("requestID", requestID))
		} else {
			noteID = &note.ID
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"file":    file,
		"note_id": noteID,
	})
}
