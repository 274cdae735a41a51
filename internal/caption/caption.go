// Package caption describes uploaded images in a single sentence. The backend
// uses it to fill in an item description the user left empty.
package caption

import (
	"context"
	"io"
	"strings"
)

// Prompt is the shared prompt used by all caption adapters.
const Prompt = `Describe this portfolio image in one short sentence suitable as a caption.
Do not mention that it is an image or a photo. Respond with the sentence only.`

type Captioner interface {
	Caption(ctx context.Context, r io.Reader, mimeType string) (string, error)
}

// Clean trims whitespace and surrounding quotes from a model answer and keeps
// only its first line.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.Trim(s, "\"'")
}
