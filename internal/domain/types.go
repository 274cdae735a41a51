package domain

import "time"

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

func (t MediaType) Valid() bool {
	return t == MediaImage || t == MediaVideo
}

type Portfolio struct {
	ID          string    `json:"id" msgpack:"id"`
	Title       string    `json:"title" msgpack:"title"`
	Description string    `json:"description,omitempty" msgpack:"description"`
	Sections    []Section `json:"sections" msgpack:"sections"`
	Items       []Item    `json:"items" msgpack:"items"`
	CreatedAt   time.Time `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" msgpack:"updatedAt"`
}

// PortfolioSummary is the basic info returned when listing portfolios.
type PortfolioSummary struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
}

type Section struct {
	ID          string    `json:"id" msgpack:"id"`
	Title       string    `json:"title" msgpack:"title"`
	Description string    `json:"description,omitempty" msgpack:"description"`
	Order       int       `json:"order" msgpack:"order"`
	CreatedAt   time.Time `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" msgpack:"updatedAt"`
}

type Item struct {
	ID              string       `json:"id" msgpack:"id"`
	Type            MediaType    `json:"type" msgpack:"type"`
	Filename        string       `json:"filename" msgpack:"filename"`
	OriginalName    string       `json:"originalName" msgpack:"originalName"`
	URL             string       `json:"url" msgpack:"url"`
	ThumbnailURL    string       `json:"thumbnailUrl,omitempty" msgpack:"thumbnailUrl"`
	ThumbnailBase64 string       `json:"thumbnailBase64,omitempty" msgpack:"thumbnailBase64"`
	Title           string       `json:"title" msgpack:"title"`
	Description     string       `json:"description,omitempty" msgpack:"description"`
	Metadata        ItemMetadata `json:"metadata" msgpack:"metadata"`
	// SectionID is empty when the item is not assigned to a section.
	SectionID string    `json:"sectionId,omitempty" msgpack:"sectionId"`
	Order     int       `json:"order" msgpack:"order"`
	CreatedAt time.Time `json:"createdAt" msgpack:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" msgpack:"updatedAt"`
}

type ItemMetadata struct {
	Size       int64       `json:"size" msgpack:"size"`
	Dimensions *Dimensions `json:"dimensions,omitempty" msgpack:"dimensions"`
	// Duration is in whole seconds, videos only.
	Duration *int   `json:"duration,omitempty" msgpack:"duration"`
	Format   string `json:"format" msgpack:"format"`
}

type Dimensions struct {
	Width  int `json:"width" msgpack:"width"`
	Height int `json:"height" msgpack:"height"`
}
