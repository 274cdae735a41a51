package httpgw

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, slog.Default())
}

func TestGetPortfolioMapsSnakeCase(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/portfolios/p1", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "p1", "title": "My Work", "description": null,
			"sections": [{"id": "s1", "title": "Design", "order": 0}],
			"items": [{"id": "i1", "type": "image", "filename": "a.png", "original_name": "logo.png",
				"url": "/uploads/a.png", "title": "Logo", "section_id": "s1", "order": 0,
				"metadata": {"size": 12, "format": "png", "dimensions": {"width": 3, "height": 4}}}]
		}`)
	})

	p, err := c.GetPortfolio(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "My Work", p.Title)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "logo.png", p.Items[0].OriginalName)
	assert.Equal(t, "s1", p.Items[0].SectionID)
	assert.Equal(t, &domain.Dimensions{Width: 3, Height: 4}, p.Items[0].Metadata.Dimensions)
}

func TestGetPortfolioNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"Portfolio not found"}`)
	})

	_, err := c.GetPortfolio(context.Background(), "missing")
	assert.True(t, errors.Is(err, gateway.ErrNotFound))
}

func TestServerErrorIsRequestFailed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":"database is locked"}`)
	})

	err := c.DeleteSection(context.Background(), "p1", "s1")
	var rf *gateway.RequestFailedError
	require.True(t, errors.As(err, &rf))
	assert.Equal(t, http.StatusInternalServerError, rf.Status)
	assert.Equal(t, "database is locked", rf.Reason)
	assert.Equal(t, "delete section", rf.Op)
}

func TestTransportErrorIsRequestFailed(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second, slog.Default())

	_, err := c.ListPortfolios(context.Background())
	var rf *gateway.RequestFailedError
	assert.True(t, errors.As(err, &rf))
}

func TestUpdateItemSendsPatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/portfolios/p1/items/i1", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"order": float64(2), "section_id": nil}, body)

		_, _ = io.WriteString(w, `{"id":"i1","type":"image","title":"Logo","order":2,"section_id":null,"metadata":{"size":1,"format":"png"}}`)
	})

	order := 2
	it, err := c.UpdateItem(context.Background(), "p1", "i1", gateway.ItemPatch{Order: &order, Section: gateway.ClearSection()})
	require.NoError(t, err)
	assert.Equal(t, 2, it.Order)
	assert.Empty(t, it.SectionID)
}

func TestUploadFileSendsMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "image", r.FormValue("file_type"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "logo.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))

		_, _ = io.WriteString(w, `{"filename":"u.png","original_name":"logo.png","url":"/uploads/u.png","thumbnail_url":null,"metadata":{"size":4,"format":"png"}}`)
	})

	up, err := c.UploadFile(context.Background(), gateway.Upload{Name: "logo.png", ContentType: "image/png", Data: []byte("\x89PNG")}, domain.MediaImage)
	require.NoError(t, err)
	assert.Equal(t, "u.png", up.Filename)
	assert.Equal(t, "/uploads/u.png", up.URL)
	assert.EqualValues(t, 4, up.Metadata.Size)
}

func TestUploadFileFastFailsBeforeRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := c.UploadFile(context.Background(), gateway.Upload{Name: "big.png", ContentType: "image/png", Data: make([]byte, gateway.MaxImageSize+1)}, domain.MediaImage)
	var vf *domain.ValidationFailed
	assert.True(t, errors.As(err, &vf))
	assert.False(t, called)
}

func TestListPortfolios(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"a","title":"A","description":null,"created_at":"2025-01-01T00:00:00Z"},{"id":"b","title":"B"}]`)
	})

	list, err := c.ListPortfolios(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, 2025, list[0].CreatedAt.Year())
	assert.True(t, list[1].CreatedAt.IsZero())
}
