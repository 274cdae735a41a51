package claude

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/folio/internal/caption"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	maxTokens      = 256
)

type ClaudeCaptioner struct {
	apiKey  string
	model   string
	baseURL string
	client  *anthropic.Client
}

func NewClaudeCaptioner(apiKey, model string) *ClaudeCaptioner {
	return &ClaudeCaptioner{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
	}
}

var _ caption.Captioner = (*ClaudeCaptioner)(nil)

func (c *ClaudeCaptioner) Caption(ctx context.Context, r io.Reader, mimeType string) (string, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	resp, err := c.messages().CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewImageMessageContent(anthropic.NewMessageContentSource(
						anthropic.MessagesContentSourceTypeBase64,
						normaliseMIME(mimeType),
						base64.StdEncoding.EncodeToString(imageData),
					)),
					anthropic.NewTextMessageContent(caption.Prompt),
				},
			},
		},
	})
	if err != nil {
		var apiErr *anthropic.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("claude API error (%s): %s", apiErr.Type, apiErr.Message)
		}
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	text := caption.Clean(resp.GetFirstContentText())
	if text == "" {
		return "", fmt.Errorf("empty caption from claude")
	}
	return text, nil
}

// messages builds the SDK client lazily so tests can point baseURL at an
// httptest server after construction.
func (c *ClaudeCaptioner) messages() *anthropic.Client {
	if c.client == nil {
		c.client = anthropic.NewClient(c.apiKey, anthropic.WithBaseURL(c.baseURL))
	}
	return c.client
}

// normaliseMIME maps MIME aliases to the values accepted by the Claude API.
func normaliseMIME(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	switch mimeType {
	case "image/jpg":
		return "image/jpeg"
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
