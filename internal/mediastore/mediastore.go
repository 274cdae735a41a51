package mediastore

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no file is stored under a name.
var ErrNotFound = errors.New("media not found")

type MediaStore interface {
	// Save stores r under a new unique name and returns that name.
	Save(ctx context.Context, mimeType string, r io.Reader) (filename string, err error)
	Get(ctx context.Context, filename string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, filename string) error
}

var extByMIME = map[string]string{
	"image/jpeg":      ".jpg",
	"image/jpg":       ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"video/mp4":       ".mp4",
	"application/mp4": ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
	"video/x-msvideo": ".avi",
	"video/mpeg":      ".mpeg",
}

var mimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
}

// ExtForMIME returns the file extension used for mimeType, or ".bin".
func ExtForMIME(mimeType string) string {
	if ext, ok := extByMIME[strings.ToLower(mimeType)]; ok {
		return ext
	}
	return ".bin"
}

// MIMEForName returns the content type implied by the extension of name.
func MIMEForName(name string) string {
	if m, ok := mimeByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return m
	}
	return "application/octet-stream"
}
