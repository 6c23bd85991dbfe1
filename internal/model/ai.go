package model

import "time"

// AIProject is a showcased machine-learning project.
type AIProject struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Content     string     `json:"content,omitempty"`
	CoverImage  string     `json:"cover_image,omitempty"`
	DemoURL     string     `json:"demo_url,omitempty"`
	GithubURL   string     `json:"github_url,omitempty"`
	TechStack   string     `json:"tech_stack,omitempty"`
	IsFeatured  bool       `json:"is_featured"`
	IsPublished bool       `json:"is_published"`
	ViewCount   int64      `json:"view_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// AIDemo is an embeddable lab demo, either a local bundle or an external URL.
type AIDemo struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description,omitempty"`
	CoverImage   string     `json:"cover_image,omitempty"`
	Category     string     `json:"category,omitempty"`
	Tags         string     `json:"tags,omitempty"`
	BundlePath   string     `json:"bundle_path,omitempty"`
	EntryFile    string     `json:"entry_file"`
	ExternalURL  string     `json:"external_url,omitempty"`
	IframeHeight *int       `json:"iframe_height,omitempty"`
	IsFeatured   bool       `json:"is_featured"`
	IsPublished  bool       `json:"is_published"`
	SortOrder    int        `json:"sort_order"`
	ViewCount    int64      `json:"view_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}

// AIImage is an AI-generated picture. Image and thumbnail URLs are owned
// object-storage pointers, like Photo's.
type AIImage struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title,omitempty"`
	ImageURL       string         `json:"image_url"`
	ThumbnailURL   string         `json:"thumbnail_url,omitempty"`
	Prompt         string         `json:"prompt,omitempty"`
	NegativePrompt string         `json:"negative_prompt,omitempty"`
	ModelName      string         `json:"model_name,omitempty"`
	Parameters     map[string]any `json:"parameters,omitempty"`
	Category       string         `json:"category,omitempty"`
	Tags           string         `json:"tags,omitempty"`
	IsFeatured     bool           `json:"is_featured"`
	IsPublished    bool           `json:"is_published"`
	ViewCount      int64          `json:"view_count"`
	LikeCount      int64          `json:"like_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      *time.Time     `json:"updated_at,omitempty"`
}
