package model

import "time"

// PhotoCategory groups photography works.
type PhotoCategory struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CoverImage  string    `json:"cover_image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Photo is one photography work. The image and thumbnail URLs are exclusively
// owned pointers into object storage: replacing either must release the old
// object.
type Photo struct {
	ID           int64          `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	ImageURL     string         `json:"image_url"`
	ThumbnailURL string         `json:"thumbnail_url,omitempty"`
	Width        int            `json:"width,omitempty"`
	Height       int            `json:"height,omitempty"`
	FileSize     int64          `json:"file_size,omitempty"`
	CameraMake   string         `json:"camera_make,omitempty"`
	CameraModel  string         `json:"camera_model,omitempty"`
	FocalLength  string         `json:"focal_length,omitempty"`
	Aperture     string         `json:"aperture,omitempty"`
	ShutterSpeed string         `json:"shutter_speed,omitempty"`
	ISO          string         `json:"iso,omitempty"`
	EXIF         map[string]any `json:"exif,omitempty"`
	ShootTime    *time.Time     `json:"shoot_time,omitempty"`
	CategoryID   *int64         `json:"category_id,omitempty"`
	Category     *PhotoCategory `json:"category,omitempty"`
	IsFeatured   bool           `json:"is_featured"`
	ViewCount    int64          `json:"view_count"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
}
