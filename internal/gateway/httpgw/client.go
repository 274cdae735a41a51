// Package httpgw implements gateway.Gateway over the backend's REST API.
package httpgw

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
	"github.com/vbonduro/folio/internal/wire"
)

const maxErrorBody = 4096

type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// New returns a client for the backend at baseURL (e.g. "http://localhost:8000").
// A zero timeout leaves requests bounded only by ctx.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

var _ gateway.Gateway = (*Client)(nil)

func (c *Client) ListPortfolios(ctx context.Context) ([]domain.PortfolioSummary, error) {
	var body []wire.PortfolioSummary
	if err := c.doJSON(ctx, "list portfolios", http.MethodGet, "/api/portfolios", nil, &body); err != nil {
		return nil, err
	}
	out := make([]domain.PortfolioSummary, 0, len(body))
	for _, s := range body {
		out = append(out, s.ToDomain())
	}
	return out, nil
}

func (c *Client) GetPortfolio(ctx context.Context, id string) (*domain.Portfolio, error) {
	var body wire.Portfolio
	if err := c.doJSON(ctx, "get portfolio", http.MethodGet, portfolioPath(id), nil, &body); err != nil {
		return nil, err
	}
	return body.ToDomain(), nil
}

func (c *Client) CreatePortfolio(ctx context.Context, in gateway.PortfolioInput) (*domain.Portfolio, error) {
	var body wire.Portfolio
	if err := c.doJSON(ctx, "create portfolio", http.MethodPost, "/api/portfolios", wire.FromPortfolioInput(in), &body); err != nil {
		return nil, err
	}
	return body.ToDomain(), nil
}

func (c *Client) UpdatePortfolio(ctx context.Context, id string, in gateway.PortfolioInput) (*domain.Portfolio, error) {
	var body wire.Portfolio
	if err := c.doJSON(ctx, "update portfolio", http.MethodPut, portfolioPath(id), wire.FromPortfolioInput(in), &body); err != nil {
		return nil, err
	}
	return body.ToDomain(), nil
}

func (c *Client) DeletePortfolio(ctx context.Context, id string) error {
	return c.doJSON(ctx, "delete portfolio", http.MethodDelete, portfolioPath(id), nil, nil)
}

func (c *Client) CreateSection(ctx context.Context, portfolioID string, in gateway.SectionInput) (*domain.Section, error) {
	var body wire.Section
	if err := c.doJSON(ctx, "create section", http.MethodPost, portfolioPath(portfolioID)+"/sections", wire.FromSectionInput(in), &body); err != nil {
		return nil, err
	}
	return body.ToDomain(), nil
}

func (c *Client) UpdateSection(ctx context.Context, portfolioID, sectionID string, in gateway.SectionInput) (*domain.Section, error) {
	var body wire.Section
	if err := c.doJSON(ctx, "update section", http.MethodPut, sectionPath(portfolioID, sectionID), wire.FromSectionInput(in), &body); err != nil {
		return nil, err
	}
	return body.ToDomain(), nil
}

func (c *Client) DeleteSection(ctx context.Context, portfolioID, sectionID string) error {
	return c.doJSON(ctx, "delete section", http.MethodDelete, sectionPath(portfolioID, sectionID), nil, nil)
}

func (c *Client) CreateItem(ctx context.Context, portfolioID string, in gateway.ItemInput) (*domain.Item, error) {
	var body wire.Item
	if err := c.doJSON(ctx, "create item", http.MethodPost, portfolioPath(portfolioID)+"/items", wire.FromItemInput(in), &body); err != nil {
		return nil, err
	}
	return body.ToDomain(), nil
}

func (c *Client) UpdateItem(ctx context.Context, portfolioID, itemID string, patch gateway.ItemPatch) (*domain.Item, error) {
	var body wire.Item
	if err := c.doJSON(ctx, "update item", http.MethodPatch, itemPath(portfolioID, itemID), wire.FromItemPatch(patch), &body); err != nil {
		return nil, err
	}
	return body.ToDomain(), nil
}

func (c *Client) DeleteItem(ctx context.Context, portfolioID, itemID string) error {
	return c.doJSON(ctx, "delete item", http.MethodDelete, itemPath(portfolioID, itemID), nil, nil)
}

func (c *Client) UploadFile(ctx context.Context, f gateway.Upload, declared domain.MediaType) (*gateway.UploadedFile, error) {
	if err := gateway.CheckUpload(f, declared); err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("file_type", string(declared)); err != nil {
		return nil, fmt.Errorf("failed to write form field: %w", err)
	}
	// CreateFormFile forces application/octet-stream; the backend validates the
	// declared part content type so set it explicitly.
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
	h.Set("Content-Type", f.ContentType)
	fw, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := fw.Write(f.Data); err != nil {
		return nil, fmt.Errorf("failed to write file data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	var out wire.UploadedFile
	if err := c.do(ctx, "upload file", http.MethodPost, "/api/upload", mw.FormDataContentType(), body, &out); err != nil {
		return nil, err
	}
	return out.ToGateway(), nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, contentType, body, out)
}

func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return &gateway.RequestFailedError{Op: op, Reason: err.Error()}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "op", op, "error", err)
		}
	}()
	c.logger.Debug("gateway request", "op", op, "method", method, "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, gateway.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &gateway.RequestFailedError{Op: op, Status: resp.StatusCode, Reason: readReason(resp)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return &gateway.RequestFailedError{Op: op, Status: resp.StatusCode, Reason: "empty response body"}
		}
		return &gateway.RequestFailedError{Op: op, Status: resp.StatusCode, Reason: "failed to decode response: " + err.Error()}
	}
	return nil
}

// readReason extracts the backend's error message, falling back to the raw
// body or the status text.
func readReason(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var eb wire.ErrorBody
	if err := json.Unmarshal(data, &eb); err == nil && eb.Message() != "" {
		return eb.Message()
	}
	if s := strings.TrimSpace(string(data)); s != "" {
		return s
	}
	return http.StatusText(resp.StatusCode)
}

func portfolioPath(id string) string {
	return "/api/portfolios/" + url.PathEscape(id)
}

func sectionPath(portfolioID, sectionID string) string {
	return portfolioPath(portfolioID) + "/sections/" + url.PathEscape(sectionID)
}

func itemPath(portfolioID, itemID string) string {
	return portfolioPath(portfolioID) + "/items/" + url.PathEscape(itemID)
}
