// Package media inspects uploaded files before they are stored.
package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
)

// Info is what is known about an accepted upload.
type Info struct {
	// MIME is the declared content type, normalized.
	MIME     string
	Metadata domain.ItemMetadata
}

// Inspect validates data against the declared media type and content type and
// extracts its metadata. Rejections are *domain.ValidationFailed.
func Inspect(data []byte, declared domain.MediaType, contentType string) (*Info, error) {
	if err := gateway.CheckUpload(gateway.Upload{ContentType: contentType, Data: data}, declared); err != nil {
		return nil, err
	}

	ct := normalize(contentType)
	sniffed, ok := Sniff(data)
	if !ok || family(sniffed) != declared {
		return nil, &domain.ValidationFailed{Field: "file", Message: fmt.Sprintf("content is not a supported %s", declared)}
	}
	if canonical(ct) != sniffed {
		return nil, &domain.ValidationFailed{Field: "file", Message: fmt.Sprintf("content is %s, not %s", sniffed, ct)}
	}

	info := &Info{
		MIME: ct,
		Metadata: domain.ItemMetadata{
			Size:   int64(len(data)),
			Format: subtype(ct),
		},
	}
	if declared == domain.MediaImage {
		info.Metadata.Dimensions = Dimensions(data)
	}
	return info, nil
}

// Dimensions returns the pixel size of an encoded image, or nil if it cannot
// be decoded.
func Dimensions(data []byte) *domain.Dimensions {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	return &domain.Dimensions{Width: cfg.Width, Height: cfg.Height}
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// isISOBMFF reports whether data starts with an ftyp box (mp4, mov).
func isISOBMFF(data []byte) (brand string, ok bool) {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return "", false
	}
	return string(data[8:12]), true
}

func isMPEG(data []byte) bool {
	if len(data) >= 4 && data[0] == 0 && data[1] == 0 && data[2] == 1 && (data[3] == 0xBA || data[3] == 0xB3) {
		return true
	}
	// transport stream: sync byte every 188 bytes
	return len(data) > 188 && data[0] == 0x47 && data[188] == 0x47
}

// Sniff detects the content type of data from its leading bytes and reports
// whether it is one of the accepted formats.
//
// net/http.DetectContentType handles JPEG, PNG, WebM and AVI. WebP,
// QuickTime and MPEG need their own checks.
func Sniff(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	if brand, ok := isISOBMFF(data); ok {
		if brand == "qt  " {
			return "video/quicktime", true
		}
		return "video/mp4", true
	}
	if isMPEG(data) {
		return "video/mpeg", true
	}
	switch mime := http.DetectContentType(data); mime {
	case "image/jpeg", "image/png", "video/webm":
		return mime, true
	case "video/avi":
		return "video/x-msvideo", true
	}
	return "", false
}

func family(mime string) domain.MediaType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return domain.MediaImage
	case strings.HasPrefix(mime, "video/"):
		return domain.MediaVideo
	default:
		return ""
	}
}

func normalize(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

// canonical maps content type aliases to the type Sniff reports.
func canonical(mime string) string {
	switch mime {
	case "image/jpg":
		return "image/jpeg"
	case "application/mp4":
		return "video/mp4"
	}
	return mime
}

func subtype(mime string) string {
	if i := strings.IndexByte(mime, '/'); i >= 0 {
		return mime[i+1:]
	}
	return mime
}
