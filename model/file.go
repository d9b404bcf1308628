package model

type File struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	FolderID      uint    `gorm:"index;not null" json:"folder_id"`
	UserID        *string `gorm:"index" json:"-"`
	DemoSessionID *string `gorm:"index" json:"-"`

	// FileKey avoids name conflicts between uploads, the original
	// name is kept for display only
	FileKey      string `gorm:"not null" json:"file_key"`
	OriginalName string `json:"name"`
	Format       string `json:"format"` // MIME type detected at upload
	Size         int64  `json:"size"`
	// Text pulled out of the upload (OCR, pdftotext, transcription).
	// Empty when nothing could be extracted.
	ExtractedText string `json:"-"`
	CreatedAt     int64  `gorm:"not null" json:"created_at"`
}
