package repository

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jehuge/personalWeb/internal/model"
)

// PhotoRepository handles photography works and their categories.
type PhotoRepository struct {
	pool *pgxpool.Pool
}

func NewPhotoRepository(pool *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{pool: pool}
}

// ---- categories ----

func (r *PhotoRepository) ListCategories(ctx context.Context) ([]model.PhotoCategory, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, slug, COALESCE(description,''), COALESCE(cover_image,''), created_at
		FROM photo_categories ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("select photo categories: %w", err)
	}
	defer rows.Close()

	out := []model.PhotoCategory{}
	for rows.Next() {
		var c model.PhotoCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CoverImage, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan photo category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PhotoRepository) CreateCategory(ctx context.Context, c *model.PhotoCategory) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO photo_categories (name, slug, description, cover_image)
		VALUES ($1,$2,NULLIF($3,''),NULLIF($4,''))
		RETURNING id, created_at
	`, c.Name, c.Slug, c.Description, c.CoverImage)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		if uniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert photo category: %w", err)
	}
	return nil
}

func (r *PhotoRepository) UpdateCategory(ctx context.Context, c *model.PhotoCategory) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE photo_categories
		SET name=$1, slug=$2, description=NULLIF($3,''), cover_image=NULLIF($4,'')
		WHERE id=$5
	`, c.Name, c.Slug, c.Description, c.CoverImage, c.ID)
	if err != nil {
		if uniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update photo category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PhotoRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM photo_categories WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete photo category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PhotoRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM photo_categories WHERE id=$1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check photo category: %w", err)
	}
	return exists, nil
}

// ---- photos ----

// PhotoFilter narrows List results.
type PhotoFilter struct {
	CategoryID *int64
	IsFeatured *bool
	Limit      int
	Offset     int
}

const photoColumns = `
	p.id, p.title, COALESCE(p.description,''), p.image_url, COALESCE(p.thumbnail_url,''),
	COALESCE(p.width,0), COALESCE(p.height,0), COALESCE(p.file_size,0),
	COALESCE(p.camera_make,''), COALESCE(p.camera_model,''), COALESCE(p.focal_length,''),
	COALESCE(p.aperture,''), COALESCE(p.shutter_speed,''), COALESCE(p.iso,''),
	p.exif, p.shoot_time, p.category_id, p.is_featured, p.view_count, p.created_at, p.updated_at,
	c.id, c.name, c.slug, c.description, c.cover_image, c.created_at`

type photoRowScanner interface {
	Scan(dest ...any) error
}

func scanPhoto(row photoRowScanner) (*model.Photo, error) {
	var (
		p        model.Photo
		catID    *int64
		catName  *string
		catSlug  *string
		catDesc  *string
		catCover *string
		catAt    *time.Time
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.ImageURL, &p.ThumbnailURL,
		&p.Width, &p.Height, &p.FileSize,
		&p.CameraMake, &p.CameraModel, &p.FocalLength,
		&p.Aperture, &p.ShutterSpeed, &p.ISO,
		&p.EXIF, &p.ShootTime, &p.CategoryID, &p.IsFeatured, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catSlug, &catDesc, &catCover, &catAt,
	)
	if err != nil {
		return nil, err
	}
	if catID != nil {
		p.Category = &model.PhotoCategory{ID: *catID, Name: deref(catName), Slug: deref(catSlug), Description: deref(catDesc), CoverImage: deref(catCover)}
		if catAt != nil {
			p.Category.CreatedAt = *catAt
		}
	}
	return &p, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *PhotoRepository) List(ctx context.Context, f PhotoFilter) ([]model.Photo, error) {
	query := `SELECT ` + photoColumns + `
		FROM photos p LEFT JOIN photo_categories c ON c.id = p.category_id`
	where := []string{}
	args := []any{}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.IsFeatured != nil {
		args = append(args, *f.IsFeatured)
		where = append(where, fmt.Sprintf("p.is_featured = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select photos: %w", err)
	}
	defer rows.Close()

	out := []model.Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Get returns one photo. With incrementView the view counter is bumped in
// the same statement; if that update fails for any reason the photo is
// re-read without the increment so the read itself never fails because of a
// counter write.
func (r *PhotoRepository) Get(ctx context.Context, id int64, incrementView bool) (*model.Photo, error) {
	if incrementView {
		row := r.pool.QueryRow(ctx, `
			WITH bumped AS (
				UPDATE photos SET view_count = view_count + 1 WHERE id=$1 RETURNING *
			)
			SELECT `+photoColumns+`
			FROM bumped p LEFT JOIN photo_categories c ON c.id = p.category_id
		`, id)
		p, err := scanPhoto(row)
		if err == nil {
			return p, nil
		}
		if notFound(err) {
			return nil, ErrNotFound
		}
		// Counter write failed; fall through to a plain read.
	}

	row := r.pool.QueryRow(ctx, `
		SELECT `+photoColumns+`
		FROM photos p LEFT JOIN photo_categories c ON c.id = p.category_id
		WHERE p.id=$1
	`, id)
	p, err := scanPhoto(row)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select photo: %w", err)
	}
	return p, nil
}

func (r *PhotoRepository) Create(ctx context.Context, p *model.Photo) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO photos (
			title, description, image_url, thumbnail_url, width, height, file_size,
			camera_make, camera_model, focal_length, aperture, shutter_speed, iso,
			exif, shoot_time, category_id, is_featured
		) VALUES (
			$1, NULLIF($2,''), $3, NULLIF($4,''), NULLIF($5,0), NULLIF($6,0), NULLIF($7,0),
			NULLIF($8,''), NULLIF($9,''), NULLIF($10,''), NULLIF($11,''), NULLIF($12,''), NULLIF($13,''),
			$14, $15, $16, $17
		)
		RETURNING id, view_count, created_at
	`, p.Title, p.Description, p.ImageURL, p.ThumbnailURL, p.Width, p.Height, p.FileSize,
		p.CameraMake, p.CameraModel, p.FocalLength, p.Aperture, p.ShutterSpeed, p.ISO,
		p.EXIF, p.ShootTime, p.CategoryID, p.IsFeatured)
	if err := row.Scan(&p.ID, &p.ViewCount, &p.CreatedAt); err != nil {
		return fmt.Errorf("insert photo: %w", err)
	}
	return nil
}

func (r *PhotoRepository) Update(ctx context.Context, p *model.Photo) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE photos SET
			title=$1, description=NULLIF($2,''), image_url=$3, thumbnail_url=NULLIF($4,''),
			width=NULLIF($5,0), height=NULLIF($6,0), file_size=NULLIF($7,0),
			camera_make=NULLIF($8,''), camera_model=NULLIF($9,''), focal_length=NULLIF($10,''),
			aperture=NULLIF($11,''), shutter_speed=NULLIF($12,''), iso=NULLIF($13,''),
			exif=$14, shoot_time=$15, category_id=$16, is_featured=$17, updated_at=now()
		WHERE id=$18
	`, p.Title, p.Description, p.ImageURL, p.ThumbnailURL, p.Width, p.Height, p.FileSize,
		p.CameraMake, p.CameraModel, p.FocalLength, p.Aperture, p.ShutterSpeed, p.ISO,
		p.EXIF, p.ShootTime, p.CategoryID, p.IsFeatured, p.ID)
	if err != nil {
		return fmt.Errorf("update photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count reports the total number of photos.
func (r *PhotoRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM photos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return n, nil
}

// ListRandom returns up to limit photos sampled from a random offset, in
// shuffled order. Cheaper than ORDER BY random() over the whole table and
// random enough for a landing-page strip.
func (r *PhotoRepository) ListRandom(ctx context.Context, limit int) ([]model.Photo, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return []model.Photo{}, nil
	}

	offset := randomOffset(int(total), limit)
	rows, err := r.pool.Query(ctx, `
		SELECT `+photoColumns+`
		FROM photos p LEFT JOIN photo_categories c ON c.id = p.category_id
		ORDER BY p.id LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select random photos: %w", err)
	}
	defer rows.Close()

	out := []model.Photo{}
	for rows.Next() {
		p, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

// randomOffset picks a window start so that a full page of limit rows fits
// whenever the table holds that many.
func randomOffset(total, limit int) int {
	span := total - limit
	if span <= 0 {
		return 0
	}
	return rand.Intn(span + 1)
}

func (r *PhotoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM photos WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
