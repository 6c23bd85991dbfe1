package model

import "time"

// MediaItem is one entry in the merged media listing spanning blog covers,
// photography works and AI project covers.
type MediaItem struct {
	ID           string     `json:"id"` // composite "<type>_<row id>"
	Type         string     `json:"type"`
	Title        string     `json:"title"`
	URL          string     `json:"url"`
	ThumbnailURL string     `json:"thumbnail_url"`
	FileSize     int64      `json:"file_size,omitempty"`
	Width        int        `json:"width,omitempty"`
	Height       int        `json:"height,omitempty"`
	RelatedID    int64      `json:"related_id"`
	RelatedType  string     `json:"related_type"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

// MediaStats counts stored assets per owner type.
type MediaStats struct {
	BlogCovers int64 `json:"blog_covers"`
	Photos     int64 `json:"photos"`
	AICovers   int64 `json:"ai_covers"`
	Total      int64 `json:"total"`
}

// Media listing type discriminators.
const (
	MediaTypeBlogCover = "blog_cover"
	MediaTypePhoto     = "photo"
	MediaTypeAICover   = "ai_cover"
)
