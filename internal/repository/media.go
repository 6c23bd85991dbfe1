package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jehuge/personalWeb/internal/model"
)

// MediaRepository reads the merged media listing across blog covers,
// photography works and AI project covers. It owns no table of its own.
type MediaRepository struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

// mediaUnion merges the three asset sources into one shape. IDs are prefixed
// per source so the composite listing id stays unambiguous.
const mediaUnion = `
	SELECT 'photo' AS type, id AS related_id, COALESCE(title,'') AS title,
		image_url AS url, COALESCE(thumbnail_url,'') AS thumbnail_url,
		COALESCE(file_size,0) AS file_size, COALESCE(width,0) AS width,
		COALESCE(height,0) AS height, created_at
	FROM photos
	UNION ALL
	SELECT 'blog_cover', id, title, cover_image, '', 0, 0, 0, created_at
	FROM blogs WHERE cover_image IS NOT NULL AND cover_image <> ''
	UNION ALL
	SELECT 'ai_cover', id, title, cover_image, '', 0, 0, 0, created_at
	FROM ai_projects WHERE cover_image IS NOT NULL AND cover_image <> ''`

// List returns a page of the merged listing, newest first, optionally
// filtered by source type.
func (r *MediaRepository) List(ctx context.Context, mediaType string, limit, offset int) ([]model.MediaItem, error) {
	query := `SELECT type, related_id, title, url, thumbnail_url, file_size, width, height, created_at
		FROM (` + mediaUnion + `) m`
	args := []any{}
	if mediaType != "" {
		args = append(args, mediaType)
		query += fmt.Sprintf(" WHERE type = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select media: %w", err)
	}
	defer rows.Close()

	out := []model.MediaItem{}
	for rows.Next() {
		var item model.MediaItem
		if err := rows.Scan(&item.Type, &item.RelatedID, &item.Title, &item.URL,
			&item.ThumbnailURL, &item.FileSize, &item.Width, &item.Height, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan media item: %w", err)
		}
		item.ID = fmt.Sprintf("%s_%d", item.Type, item.RelatedID)
		switch item.Type {
		case model.MediaTypePhoto:
			item.RelatedType = "photo"
		case model.MediaTypeBlogCover:
			item.RelatedType = "blog"
		case model.MediaTypeAICover:
			item.RelatedType = "ai_project"
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// Stats counts stored assets per owner type.
func (r *MediaRepository) Stats(ctx context.Context) (*model.MediaStats, error) {
	var s model.MediaStats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM photos),
			(SELECT count(*) FROM blogs WHERE cover_image IS NOT NULL AND cover_image <> ''),
			(SELECT count(*) FROM ai_projects WHERE cover_image IS NOT NULL AND cover_image <> '')
	`).Scan(&s.Photos, &s.BlogCovers, &s.AICovers)
	if err != nil {
		return nil, fmt.Errorf("select media stats: %w", err)
	}
	s.Total = s.Photos + s.BlogCovers + s.AICovers
	return &s, nil
}

// URLsFor returns the object URLs held by one media item so the caller can
// release them after detaching the reference. Clearing the reference and
// deleting the row are the owner repositories' concern; this only resolves
// what a composite id points at.
func (r *MediaRepository) URLsFor(ctx context.Context, mediaType string, relatedID int64) (url, thumbnailURL string, err error) {
	switch mediaType {
	case model.MediaTypePhoto:
		err = r.pool.QueryRow(ctx,
			`SELECT image_url, COALESCE(thumbnail_url,'') FROM photos WHERE id=$1`, relatedID,
		).Scan(&url, &thumbnailURL)
	case model.MediaTypeBlogCover:
		err = r.pool.QueryRow(ctx,
			`SELECT COALESCE(cover_image,''), '' FROM blogs WHERE id=$1`, relatedID,
		).Scan(&url, &thumbnailURL)
	case model.MediaTypeAICover:
		err = r.pool.QueryRow(ctx,
			`SELECT COALESCE(cover_image,''), '' FROM ai_projects WHERE id=$1`, relatedID,
		).Scan(&url, &thumbnailURL)
	default:
		return "", "", fmt.Errorf("unknown media type %q", mediaType)
	}
	if err != nil {
		if notFound(err) {
			return "", "", ErrNotFound
		}
		return "", "", fmt.Errorf("select media urls: %w", err)
	}
	return url, thumbnailURL, nil
}

// DetachCover clears a cover reference without deleting the owning row.
// Photos are whole rows, so a photo "detach" deletes the row instead.
func (r *MediaRepository) DetachCover(ctx context.Context, mediaType string, relatedID int64) error {
	var stmt string
	switch mediaType {
	case model.MediaTypeBlogCover:
		stmt = `UPDATE blogs SET cover_image=NULL, updated_at=now() WHERE id=$1`
	case model.MediaTypeAICover:
		stmt = `UPDATE ai_projects SET cover_image=NULL, updated_at=now() WHERE id=$1`
	case model.MediaTypePhoto:
		stmt = `DELETE FROM photos WHERE id=$1`
	default:
		return fmt.Errorf("unknown media type %q", mediaType)
	}
	tag, err := r.pool.Exec(ctx, stmt, relatedID)
	if err != nil {
		return fmt.Errorf("detach media: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
