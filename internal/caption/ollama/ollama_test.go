package ollama

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

func TestOllamaCaption(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)

		resp := map[string]any{
			"model":    got.Model,
			"response": "A watercolor of a harbour at dusk.\n",
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	captioner := NewOllamaCaptioner(server.URL, "moondream")

	text, err := captioner.Caption(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8, 0xFF, 0xE0}), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "A watercolor of a harbour at dusk.", text)
	assert.Equal(t, "moondream", got.Model)
	assert.False(t, got.Stream)
	assert.Equal(t, []string{"/9j/4A=="}, got.Images)
}

func TestOllamaCaptionNetworkError(t *testing.T) {
	captioner := NewOllamaCaptioner("http://localhost:99999", "moondream")

	_, err := captioner.Caption(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	assert.Error(t, err)
}

func TestOllamaCaptionServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	captioner := NewOllamaCaptioner(server.URL, "moondream")

	_, err := captioner.Caption(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	assert.Error(t, err)
}

func TestOllamaCaptionEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"response":"  "}`)
	}))
	defer server.Close()

	captioner := NewOllamaCaptioner(server.URL, "moondream")

	_, err := captioner.Caption(context.Background(), bytes.NewReader([]byte{0xFF, 0xD8}), "image/jpeg")
	assert.Error(t, err)
}
