// Package extract pulls text out of uploaded files so notes and the
// AI endpoints can work with them. PDFs go through pdftotext, images
// through tesseract (both expected on the host, like ffmpeg would be
// for a video backend) and audio through the transcription API.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Transcriber converts speech to text. Satisfied by the ai client.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, r io.Reader) (string, error)
}

type Extractor struct {
	Transcriber Transcriber

	// OCR languages passed to tesseract
	Languages string
}

func New(t Transcriber) *Extractor {
	return &Extractor{
		Transcriber: t,
		Languages:   "tur+eng",
	}
}

// Auto picks the extraction strategy from the MIME type with the file
// extension as fallback. An unsupported type yields empty text, not an
// error.
func (e *Extractor) Auto(ctx context.Context, path, mime string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch {
	case strings.Contains(mime, "pdf") || ext == ".pdf":
		return e.pdf(ctx, path)
	case strings.Contains(mime, "image") || ext == ".png" || ext == ".jpg" || ext == ".jpeg":
		return e.image(ctx, path)
	case strings.Contains(mime, "audio") || ext == ".mp3" || ext == ".wav" || ext == ".m4a":
		return e.audio(ctx, path)
	case strings.Contains(mime, "text") || ext == ".txt" || ext == ".md" || ext == ".csv":
		b, err := os.ReadFile(path)
		return string(b), err
	default:
		return "", nil
	}
}

func (e *Extractor) pdf(ctx context.Context, path string) (string, error) {
	// "-" sends the text to stdout
	out, err := runTool(ctx, "pdftotext", path, "-")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

func (e *Extractor) image(ctx context.Context, path string) (string, error) {
	out, err := runTool(ctx, "tesseract", path, "-", "-l", e.Languages)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out), nil
}

func (e *Extractor) audio(ctx context.Context, path string) (string, error) {
	if e.Transcriber == nil {
		return "", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	text, err := e.Transcriber.Transcribe(ctx, filepath.Base(path), f)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}

func runTool(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s failed, %w: %s", name, err, stderr.String())
	}

	return stdout.String(), nil
}
