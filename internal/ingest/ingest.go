// Package ingest composes metadata extraction, image normalization and
// object storage into the single upload pipeline every image-bearing
// endpoint calls. One request equals one pass: there is no queue, no retry,
// no shared state beyond the bucket itself.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Jehuge/personalWeb/internal/config"
	"github.com/Jehuge/personalWeb/internal/exifmeta"
	"github.com/Jehuge/personalWeb/internal/imgproc"
	"github.com/Jehuge/personalWeb/internal/oss"
)

// Typed pipeline failures. Handlers map these onto HTTP status codes.
var (
	ErrInvalidContentType = errors.New("ingest: unsupported content type")
	ErrTooLarge           = errors.New("ingest: file exceeds size limit")
	ErrStorageUnavailable = errors.New("ingest: storage unavailable")
	ErrEncodeFailed       = errors.New("ingest: image could not be processed")
)

// allowedImageTypes is the closed MIME set accepted for inline images.
var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Storage is the gateway surface the pipeline consumes. *oss.Gateway
// implements it; tests substitute fakes.
type Storage interface {
	Enabled() bool
	Upload(ctx context.Context, data []byte, path, contentType string) (string, error)
	ResolvePath(url string) string
	Delete(ctx context.Context, path string) bool
}

// Upload is one file received from a client, alive for the request only.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Metadata carries the optional camera fields flattened into results.
// Absent fields marshal away entirely; consumers treat missing as unknown.
type Metadata struct {
	EXIF         map[string]any `json:"exif,omitempty"`
	Make         string         `json:"make,omitempty"`
	Model        string         `json:"model,omitempty"`
	FocalLength  string         `json:"focal_length,omitempty"`
	Aperture     string         `json:"aperture,omitempty"`
	ShutterSpeed string         `json:"shutter_speed,omitempty"`
	ISO          string         `json:"iso,omitempty"`
	ShootTime    *time.Time     `json:"shoot_time,omitempty"`
}

// Result describes a stored image: where it lives, its encoded dimensions
// and byte size, and whatever camera metadata the file carried.
type Result struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	FileSize     int64  `json:"file_size"`
	Metadata
}

// Analysis is the no-upload preview: raw dimensions plus metadata.
type Analysis struct {
	Width    int   `json:"width"`
	Height   int   `json:"height"`
	FileSize int64 `json:"file_size"`
	Metadata
}

// FileResult describes a stored general file; no processing is applied.
type FileResult struct {
	URL         string `json:"url"`
	Filename    string `json:"filename"`
	FileSize    int64  `json:"file_size"`
	ContentType string `json:"content_type"`
}

// Pipeline is the ingestion orchestrator.
type Pipeline struct {
	store Storage
	log   *slog.Logger

	maxImageBytes int64
	maxFileBytes  int64
	maxBound      int
	quality       int
	thumbBound    int
}

// New builds a pipeline from configuration.
func New(cfg *config.Config, store Storage, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		store:         store,
		log:           log,
		maxImageBytes: cfg.MaxImageBytes,
		maxFileBytes:  cfg.MaxFileBytes,
		maxBound:      cfg.ImageMaxBound,
		quality:       cfg.ImageQuality,
		thumbBound:    cfg.ThumbBound,
	}
}

// Ingest validates, normalizes and stores one image, returning URLs for the
// re-encoded original and (best-effort) its WebP preview. Validation happens
// before any side effect; a failed primary upload aborts the operation, a
// failed thumbnail upload only drops the thumbnail URL.
func (p *Pipeline) Ingest(ctx context.Context, up Upload) (*Result, error) {
	if err := p.validateImage(up); err != nil {
		return nil, err
	}

	raw, summary := exifmeta.Extract(up.Data)

	processed, err := imgproc.Process(up.Data, imgproc.Options{
		MaxWidth:   p.maxBound,
		MaxHeight:  p.maxBound,
		Quality:    p.quality,
		ThumbBound: p.thumbBound,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	path := objectPath("images", processed.Ext)
	url, err := p.store.Upload(ctx, processed.Data, path, processed.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	res := &Result{
		URL:      url,
		Width:    processed.Width,
		Height:   processed.Height,
		FileSize: int64(len(processed.Data)),
		Metadata: metadataFrom(raw, summary),
	}

	if processed.Thumb != nil {
		thumbPath := strings.TrimSuffix(path, filepath.Ext(path)) + "_thumb.webp"
		thumbURL, err := p.store.Upload(ctx, processed.Thumb, thumbPath, "image/webp")
		if err != nil {
			p.log.Warn("thumbnail upload failed", "path", thumbPath, "error", err)
		} else {
			res.ThumbnailURL = thumbURL
		}
	} else if processed.ThumbErr != nil {
		p.log.Warn("thumbnail generation failed", "path", path, "error", processed.ThumbErr)
	}
	return res, nil
}

// Analyze runs validation and metadata extraction without touching storage.
// Used to preview EXIF before committing to an upload.
func (p *Pipeline) Analyze(_ context.Context, up Upload) (*Analysis, error) {
	if err := p.validateImage(up); err != nil {
		return nil, err
	}
	width, height, err := imgproc.Dimensions(up.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}
	raw, summary := exifmeta.Extract(up.Data)
	return &Analysis{
		Width:    width,
		Height:   height,
		FileSize: int64(len(up.Data)),
		Metadata: metadataFrom(raw, summary),
	}, nil
}

// UploadFile stores an arbitrary file under files/<year>/<month>/ with no
// image processing applied.
func (p *Pipeline) UploadFile(ctx context.Context, up Upload) (*FileResult, error) {
	if int64(len(up.Data)) > p.maxFileBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(up.Data), p.maxFileBytes)
	}
	ext := strings.ToLower(filepath.Ext(up.Filename))
	path := objectPath("files", ext)
	url, err := p.store.Upload(ctx, up.Data, path, up.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return &FileResult{
		URL:         url,
		Filename:    up.Filename,
		FileSize:    int64(len(up.Data)),
		ContentType: up.ContentType,
	}, nil
}

func (p *Pipeline) validateImage(up Upload) error {
	if _, ok := allowedImageTypes[strings.ToLower(up.ContentType)]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidContentType, up.ContentType)
	}
	if int64(len(up.Data)) > p.maxImageBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(up.Data), p.maxImageBytes)
	}
	return nil
}

func metadataFrom(raw map[string]any, summary exifmeta.Summary) Metadata {
	return Metadata{
		EXIF:         raw,
		Make:         summary.Make,
		Model:        summary.Model,
		FocalLength:  summary.FocalLength,
		Aperture:     summary.Aperture,
		ShutterSpeed: summary.ShutterSpeed,
		ISO:          summary.ISO,
		ShootTime:    summary.ShootTime,
	}
}

// objectPath builds the hierarchical key `<prefix>/<year>/<month>/<random>.<ext>`.
// The storage backend treats slashes as implicit folders.
func objectPath(prefix, ext string) string {
	if ext == "" {
		ext = ".jpg"
	}
	now := time.Now()
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s/%d/%02d/%s%s", prefix, now.Year(), int(now.Month()), name, ext)
}

var _ Storage = (*oss.Gateway)(nil)
