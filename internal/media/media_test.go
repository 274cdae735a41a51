package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/folio/internal/domain"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

var (
	mp4Header  = append([]byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}, make([]byte, 16)...)
	movHeader  = append([]byte{0x00, 0x00, 0x00, 0x14, 'f', 't', 'y', 'p', 'q', 't', ' ', ' '}, make([]byte, 16)...)
	webmHeader = append([]byte{0x1A, 0x45, 0xDF, 0xA3}, make([]byte, 16)...)
	aviHeader  = append([]byte("RIFF\x00\x00\x00\x00AVI LIST"), make([]byte, 8)...)
	mpegHeader = append([]byte{0x00, 0x00, 0x01, 0xBA}, make([]byte, 16)...)
	webpHeader = append([]byte("RIFF\x00\x00\x00\x00WEBP"), make([]byte, 10)...)
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantMIME string
		wantOK   bool
	}{
		{name: "JPEG", data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}, wantMIME: "image/jpeg", wantOK: true},
		{name: "PNG", data: []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, wantMIME: "image/png", wantOK: true},
		{name: "WebP", data: webpHeader, wantMIME: "image/webp", wantOK: true},
		{name: "MP4", data: mp4Header, wantMIME: "video/mp4", wantOK: true},
		{name: "QuickTime", data: movHeader, wantMIME: "video/quicktime", wantOK: true},
		{name: "WebM", data: webmHeader, wantMIME: "video/webm", wantOK: true},
		{name: "AVI", data: aviHeader, wantMIME: "video/x-msvideo", wantOK: true},
		{name: "MPEG", data: mpegHeader, wantMIME: "video/mpeg", wantOK: true},
		{name: "GIF not accepted", data: []byte("GIF89a"), wantOK: false},
		{name: "RIFF but not WebP", data: append([]byte("RIFF\x00\x00\x00\x00WAVE"), make([]byte, 10)...), wantOK: false},
		{name: "PDF disguised as image", data: []byte("%PDF-1.4 malicious content"), wantOK: false},
		{name: "empty", data: []byte{}, wantOK: false},
		{name: "too short for WebP check", data: []byte("RIFF"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, ok := Sniff(tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMIME, mime)
		})
	}
}

func TestInspectImageDimensions(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		contentType string
		wantFormat  string
	}{
		{name: "png", data: encodePNG(t, 320, 200), contentType: "image/png", wantFormat: "png"},
		{name: "jpeg", data: encodeJPEG(t, 320, 200), contentType: "image/jpeg", wantFormat: "jpeg"},
		{name: "jpg alias", data: encodeJPEG(t, 320, 200), contentType: "image/jpg", wantFormat: "jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Inspect(tt.data, domain.MediaImage, tt.contentType)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFormat, info.Metadata.Format)
			assert.EqualValues(t, len(tt.data), info.Metadata.Size)
			assert.Equal(t, &domain.Dimensions{Width: 320, Height: 200}, info.Metadata.Dimensions)
			assert.Nil(t, info.Metadata.Duration)
		})
	}
}

func TestInspectUndecodableImageHasNoDimensions(t *testing.T) {
	info, err := Inspect(webpHeader, domain.MediaImage, "image/webp")
	require.NoError(t, err)
	assert.Nil(t, info.Metadata.Dimensions)
	assert.Equal(t, "webp", info.Metadata.Format)
}

func TestInspectVideo(t *testing.T) {
	info, err := Inspect(mp4Header, domain.MediaVideo, "application/mp4")
	require.NoError(t, err)
	assert.Equal(t, "application/mp4", info.MIME)
	assert.Equal(t, "mp4", info.Metadata.Format)
	assert.Nil(t, info.Metadata.Dimensions)
}

func TestInspectRejects(t *testing.T) {
	tests := []struct {
		name        string
		data        []byte
		declared    domain.MediaType
		contentType string
	}{
		{name: "declared video content is image", data: encodePNG(t, 2, 2), declared: domain.MediaVideo, contentType: "video/mp4"},
		{name: "declared image content is video", data: mp4Header, declared: domain.MediaImage, contentType: "image/png"},
		{name: "content type not allowed", data: []byte("GIF89a"), declared: domain.MediaImage, contentType: "image/gif"},
		{name: "unknown media type", data: encodePNG(t, 2, 2), declared: "audio", contentType: "image/png"},
		{name: "empty", data: nil, declared: domain.MediaImage, contentType: "image/png"},
		{name: "pdf", data: []byte("%PDF-1.4"), declared: domain.MediaImage, contentType: "image/png"},
		{name: "png declared as jpeg", data: encodePNG(t, 2, 2), declared: domain.MediaImage, contentType: "image/jpeg"},
		{name: "jpeg declared as webp", data: encodeJPEG(t, 2, 2), declared: domain.MediaImage, contentType: "image/webp"},
		{name: "webm declared as mp4", data: webmHeader, declared: domain.MediaVideo, contentType: "video/mp4"},
		{name: "quicktime declared as mp4 alias", data: movHeader, declared: domain.MediaVideo, contentType: "application/mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inspect(tt.data, tt.declared, tt.contentType)
			var vf *domain.ValidationFailed
			assert.True(t, errors.As(err, &vf), "got %v", err)
		})
	}
}

func TestInspectRejectsOversize(t *testing.T) {
	data := append(encodePNG(t, 2, 2), make([]byte, 10*1024*1024)...)
	_, err := Inspect(data, domain.MediaImage, "image/png")
	var vf *domain.ValidationFailed
	require.True(t, errors.As(err, &vf))
	assert.Contains(t, vf.Message, "too large")
}
