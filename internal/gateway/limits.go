package gateway

import (
	"fmt"
	"strings"

	"github.com/vbonduro/folio/internal/domain"
)

const (
	MaxImageSize = 10 * 1024 * 1024 // 10 MB
	MaxVideoSize = 50 * 1024 * 1024 // 50 MB
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// Some browsers send mp4 as application/mp4.
var allowedVideoTypes = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
	"video/x-msvideo": true,
	"video/mpeg":      true,
	"application/mp4": true,
}

// AllowedContentType reports whether contentType may be uploaded as t.
func AllowedContentType(t domain.MediaType, contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch t {
	case domain.MediaImage:
		return allowedImageTypes[ct]
	case domain.MediaVideo:
		return allowedVideoTypes[ct]
	default:
		return false
	}
}

func MaxSize(t domain.MediaType) int64 {
	if t == domain.MediaVideo {
		return MaxVideoSize
	}
	return MaxImageSize
}

// CheckUpload is the client side fast fail run before any upload attempt.
func CheckUpload(f Upload, t domain.MediaType) error {
	if err := domain.ValidateMediaType(t); err != nil {
		return err
	}
	if len(f.Data) == 0 {
		return &domain.ValidationFailed{Field: "file", Message: "is empty"}
	}
	if !AllowedContentType(t, f.ContentType) {
		return &domain.ValidationFailed{Field: "file", Message: fmt.Sprintf("has unsupported %s format %q", t, f.ContentType)}
	}
	if int64(len(f.Data)) > MaxSize(t) {
		return &domain.ValidationFailed{Field: "file", Message: fmt.Sprintf("is too large (max %dMB)", MaxSize(t)/(1024*1024))}
	}
	return nil
}
