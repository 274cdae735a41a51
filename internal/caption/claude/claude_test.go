package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messagesResponse(text string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-test",
		"stop_reason": "end_turn",
		"content": []map[string]any{
			{"type": "text", "text": text},
		},
		"usage": map[string]any{"input_tokens": 10, "output_tokens": 5},
	}
}

func TestClaudeCaption(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content []struct {
				Type   string `json:"type"`
				Text   string `json:"text"`
				Source struct {
					Type      string `json:"type"`
					MediaType string `json:"media_type"`
					Data      string `json:"data"`
				} `json:"source"`
			} `json:"content"`
		} `json:"messages"`
	}
	var path, apiKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		apiKey = r.Header.Get("X-Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(messagesResponse(" \"A red bicycle against a brick wall.\"\n")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	captioner := NewClaudeCaptioner("sk-test", "claude-test")
	captioner.baseURL = server.URL

	text, err := captioner.Caption(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpg")
	require.NoError(t, err)
	assert.Equal(t, "A red bicycle against a brick wall.", text)

	assert.Equal(t, "/messages", path)
	assert.Equal(t, "sk-test", apiKey)
	assert.Equal(t, "claude-test", got.Model)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Content, 2)
	assert.Equal(t, "image", got.Messages[0].Content[0].Type)
	assert.Equal(t, "image/jpeg", got.Messages[0].Content[0].Source.MediaType)
	assert.Equal(t, "/9g=", got.Messages[0].Content[0].Source.Data)
	assert.Equal(t, "text", got.Messages[0].Content[1].Type)
}

func TestClaudeCaptionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	captioner := NewClaudeCaptioner("sk-test", "claude-test")
	captioner.baseURL = server.URL

	_, err := captioner.Caption(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	assert.Error(t, err)
}

func TestClaudeCaptionEmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(messagesResponse("   "))
	}))
	defer server.Close()

	captioner := NewClaudeCaptioner("sk-test", "claude-test")
	captioner.baseURL = server.URL

	_, err := captioner.Caption(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/png")
	assert.Error(t, err)
}

func TestClaudeCaptionReadError(t *testing.T) {
	captioner := NewClaudeCaptioner("sk-test", "claude-test")

	_, err := captioner.Caption(context.Background(), &errReader{}, "image/jpeg")
	assert.Error(t, err)
}

func TestNormaliseMIME(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"image/jpg", "image/jpeg"},
		{"IMAGE/PNG", "image/png"},
		{"image/webp; charset=binary", "image/webp"},
		{"application/octet-stream", "image/jpeg"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normaliseMIME(tt.in))
		})
	}
}

// errReader always returns an error on Read.
type errReader struct{}

func (e *errReader) Read(_ []byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
