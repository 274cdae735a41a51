package wire

import (
	"encoding/json"
	"fmt"

	"github.com/vbonduro/folio/internal/domain"
	"github.com/vbonduro/folio/internal/gateway"
)

type PortfolioInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SectionInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type ItemInput struct {
	Type            string   `json:"type"`
	Filename        string   `json:"filename"`
	OriginalName    string   `json:"original_name"`
	URL             string   `json:"url"`
	ThumbnailURL    *string  `json:"thumbnail_url"`
	ThumbnailBase64 *string  `json:"thumbnail_base64"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Metadata        Metadata `json:"metadata"`
	SectionID       *string  `json:"section_id"`
	Order           int      `json:"order"`
}

func FromPortfolioInput(in gateway.PortfolioInput) PortfolioInput {
	return PortfolioInput{Title: in.Title, Description: in.Description}
}

func (w PortfolioInput) ToGateway() gateway.PortfolioInput {
	return gateway.PortfolioInput{Title: w.Title, Description: w.Description}
}

func FromSectionInput(in gateway.SectionInput) SectionInput {
	return SectionInput{Title: in.Title, Description: in.Description, Order: in.Order}
}

func (w SectionInput) ToGateway() gateway.SectionInput {
	return gateway.SectionInput{Title: w.Title, Description: w.Description, Order: w.Order}
}

func FromItemInput(in gateway.ItemInput) ItemInput {
	return ItemInput{
		Type:            string(in.Type),
		Filename:        in.Filename,
		OriginalName:    in.OriginalName,
		URL:             in.URL,
		ThumbnailURL:    strPtr(in.ThumbnailURL),
		ThumbnailBase64: strPtr(in.ThumbnailBase64),
		Title:           in.Title,
		Description:     in.Description,
		Metadata:        FromMetadata(in.Metadata),
		SectionID:       strPtr(in.SectionID),
		Order:           in.Order,
	}
}

func (w ItemInput) ToGateway() gateway.ItemInput {
	return gateway.ItemInput{
		Type:            domain.MediaType(w.Type),
		Filename:        w.Filename,
		OriginalName:    w.OriginalName,
		URL:             w.URL,
		ThumbnailURL:    strVal(w.ThumbnailURL),
		ThumbnailBase64: strVal(w.ThumbnailBase64),
		Title:           w.Title,
		Description:     w.Description,
		Metadata:        w.Metadata.ToDomain(),
		SectionID:       strVal(w.SectionID),
		Order:           w.Order,
	}
}

// FromItemPatch encodes only the fields present in p. A cleared section is
// sent as an explicit null.
func FromItemPatch(p gateway.ItemPatch) map[string]any {
	out := make(map[string]any, 4)
	if p.Title != nil {
		out["title"] = *p.Title
	}
	if p.Description != nil {
		out["description"] = *p.Description
	}
	if p.Order != nil {
		out["order"] = *p.Order
	}
	if p.Section.Set {
		if p.Section.ID == "" {
			out["section_id"] = nil
		} else {
			out["section_id"] = p.Section.ID
		}
	}
	return out
}

// ParseItemPatch decodes a PATCH body. Unknown keys are rejected so that a
// client cannot silently write fields the backend does not manage.
func ParseItemPatch(body []byte) (gateway.ItemPatch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return gateway.ItemPatch{}, fmt.Errorf("invalid patch body: %w", err)
	}

	var p gateway.ItemPatch
	for key, val := range raw {
		switch key {
		case "title":
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return gateway.ItemPatch{}, fmt.Errorf("invalid title: %w", err)
			}
			p.Title = &s
		case "description":
			var s *string
			if err := json.Unmarshal(val, &s); err != nil {
				return gateway.ItemPatch{}, fmt.Errorf("invalid description: %w", err)
			}
			d := strVal(s)
			p.Description = &d
		case "order":
			var n int
			if err := json.Unmarshal(val, &n); err != nil {
				return gateway.ItemPatch{}, fmt.Errorf("invalid order: %w", err)
			}
			p.Order = &n
		case "section_id":
			var s *string
			if err := json.Unmarshal(val, &s); err != nil {
				return gateway.ItemPatch{}, fmt.Errorf("invalid section_id: %w", err)
			}
			p.Section = gateway.AssignSection(strVal(s))
		default:
			return gateway.ItemPatch{}, fmt.Errorf("unsupported field %q", key)
		}
	}
	return p, nil
}

func FromUploadedFile(f *gateway.UploadedFile) UploadedFile {
	return UploadedFile{
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		URL:          f.URL,
		ThumbnailURL: strPtr(f.ThumbnailURL),
		Metadata:     FromMetadata(f.Metadata),
	}
}

func (w UploadedFile) ToGateway() *gateway.UploadedFile {
	return &gateway.UploadedFile{
		Filename:     w.Filename,
		OriginalName: w.OriginalName,
		URL:          w.URL,
		ThumbnailURL: strVal(w.ThumbnailURL),
		Metadata:     w.Metadata.ToDomain(),
	}
}
