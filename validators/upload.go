package validators

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrUploadTooBig       = errors.New("file is too big")
	ErrUploadTypeInvalid  = errors.New("file type is not supported")
	ErrUploadNameMissing  = errors.New("file has no name")
	ErrUploadEmptyPayload = errors.New("file is empty")
)

// Extensions accepted for upload, mapped to the MIME type they're
// recorded under when header sniffing comes up empty
var extTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
}

// UploadValidator checks an incoming multipart file against the
// configured size and type limits and returns the MIME type the file
// will be stored under.
func UploadValidator(fh *multipart.FileHeader) (string, error) {
	if fh.Filename == "" {
		return "", ErrUploadNameMissing
	}

	if fh.Size == 0 {
		return "", ErrUploadEmptyPayload
	}

	if fh.Size > viper.GetInt64("upload.max_size") {
		return "", fmt.Errorf("%w, limit is %d bytes", ErrUploadTooBig, viper.GetInt64("upload.max_size"))
	}

	ext := strings.ToLower(path.Ext(fh.Filename))
	mime, ok := extTypes[ext]
	if !ok {
		return "", ErrUploadTypeInvalid
	}

	if header := fh.Header.Get("Content-Type"); header != "" && header != "application/octet-stream" {
		mime = header
	}

	allowed := viper.GetStringSlice("upload.allowed_types")
	if len(allowed) > 0 && !slices.Contains(allowed, mime) {
		return "", ErrUploadTypeInvalid
	}

	return mime, nil
}
