package util

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
)

const jpegQuality = 70

// CompressImage re-encodes an image as JPEG. Uploads keep their
// extracted text in the database so lossy recompression of the
// original is fine.
func CompressImage(r io.Reader) ([]byte, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image, %w", err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg, %w", err)
	}

	return buf.Bytes(), nil
}

// ZipFile wraps a single file into a deflate compressed zip archive
func ZipFile(name string, r io.Reader) ([]byte, error) {
	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	w, err := zw.Create(name)
	if err != nil {
		return nil, err
	}

	if _, err := io.Copy(w, r); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// UnzipFirst extracts the first entry of a zip archive, used when
// previewing files that were zipped at upload time
func UnzipFirst(data []byte) (string, []byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, err
	}

	if len(zr.File) == 0 {
		return "", nil, fmt.Errorf("zip archive is empty")
	}

	f := zr.File[0]

	rc, err := f.Open()
	if err != nil {
		return "", nil, err
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return "", nil, err
	}

	return f.Name, content, nil
}
