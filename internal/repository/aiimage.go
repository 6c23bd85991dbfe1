package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jehuge/personalWeb/internal/model"
)

// AIImageRepository handles AI-generated pictures.
type AIImageRepository struct {
	pool *pgxpool.Pool
}

func NewAIImageRepository(pool *pgxpool.Pool) *AIImageRepository {
	return &AIImageRepository{pool: pool}
}

// AIImageFilter narrows List results.
type AIImageFilter struct {
	Category      string
	Tag           string
	PublishedOnly bool
	IsFeatured    *bool
	Limit         int
	Offset        int
}

const aiImageColumns = `
	id, COALESCE(title,''), image_url, COALESCE(thumbnail_url,''),
	COALESCE(prompt,''), COALESCE(negative_prompt,''), COALESCE(model_name,''),
	parameters, COALESCE(category,''), COALESCE(tags,''),
	is_featured, is_published, view_count, like_count, created_at, updated_at`

func scanAIImage(row photoRowScanner) (*model.AIImage, error) {
	var img model.AIImage
	err := row.Scan(
		&img.ID, &img.Title, &img.ImageURL, &img.ThumbnailURL,
		&img.Prompt, &img.NegativePrompt, &img.ModelName,
		&img.Parameters, &img.Category, &img.Tags,
		&img.IsFeatured, &img.IsPublished, &img.ViewCount, &img.LikeCount,
		&img.CreatedAt, &img.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *AIImageRepository) List(ctx context.Context, f AIImageFilter) ([]model.AIImage, error) {
	query := `SELECT ` + aiImageColumns + ` FROM ai_images`
	where := []string{}
	args := []any{}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Tag != "" {
		args = append(args, "%"+f.Tag+"%")
		where = append(where, fmt.Sprintf("tags ILIKE $%d", len(args)))
	}
	if f.PublishedOnly {
		where = append(where, "is_published")
	}
	if f.IsFeatured != nil {
		args = append(args, *f.IsFeatured)
		where = append(where, fmt.Sprintf("is_featured = $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select ai images: %w", err)
	}
	defer rows.Close()

	out := []model.AIImage{}
	for rows.Next() {
		img, err := scanAIImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ai image: %w", err)
		}
		out = append(out, *img)
	}
	return out, rows.Err()
}

func (r *AIImageRepository) Get(ctx context.Context, id int64, incrementView bool) (*model.AIImage, error) {
	if incrementView {
		row := r.pool.QueryRow(ctx, `
			UPDATE ai_images SET view_count = view_count + 1 WHERE id=$1
			RETURNING `+aiImageColumns, id)
		if img, err := scanAIImage(row); err == nil {
			return img, nil
		} else if notFound(err) {
			return nil, ErrNotFound
		}
	}

	row := r.pool.QueryRow(ctx, `SELECT `+aiImageColumns+` FROM ai_images WHERE id=$1`, id)
	img, err := scanAIImage(row)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select ai image: %w", err)
	}
	return img, nil
}

func (r *AIImageRepository) Create(ctx context.Context, img *model.AIImage) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO ai_images (
			title, image_url, thumbnail_url, prompt, negative_prompt, model_name,
			parameters, category, tags, is_featured, is_published
		) VALUES (
			NULLIF($1,''),$2,NULLIF($3,''),NULLIF($4,''),NULLIF($5,''),NULLIF($6,''),
			$7,NULLIF($8,''),NULLIF($9,''),$10,$11
		)
		RETURNING id, view_count, like_count, created_at
	`, img.Title, img.ImageURL, img.ThumbnailURL, img.Prompt, img.NegativePrompt, img.ModelName,
		img.Parameters, img.Category, img.Tags, img.IsFeatured, img.IsPublished)
	if err := row.Scan(&img.ID, &img.ViewCount, &img.LikeCount, &img.CreatedAt); err != nil {
		return fmt.Errorf("insert ai image: %w", err)
	}
	return nil
}

func (r *AIImageRepository) Update(ctx context.Context, img *model.AIImage) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE ai_images SET
			title=NULLIF($1,''), image_url=$2, thumbnail_url=NULLIF($3,''),
			prompt=NULLIF($4,''), negative_prompt=NULLIF($5,''), model_name=NULLIF($6,''),
			parameters=$7, category=NULLIF($8,''), tags=NULLIF($9,''),
			is_featured=$10, is_published=$11, updated_at=now()
		WHERE id=$12
	`, img.Title, img.ImageURL, img.ThumbnailURL, img.Prompt, img.NegativePrompt, img.ModelName,
		img.Parameters, img.Category, img.Tags, img.IsFeatured, img.IsPublished, img.ID)
	if err != nil {
		return fmt.Errorf("update ai image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AIImageRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ai_images WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete ai image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Like bumps the like counter and returns the new value.
func (r *AIImageRepository) Like(ctx context.Context, id int64) (int64, error) {
	var likes int64
	err := r.pool.QueryRow(ctx, `
		UPDATE ai_images SET like_count = like_count + 1 WHERE id=$1 RETURNING like_count
	`, id).Scan(&likes)
	if err != nil {
		if notFound(err) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("like ai image: %w", err)
	}
	return likes, nil
}

// Categories returns the distinct non-empty categories in use.
func (r *AIImageRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT category FROM ai_images
		WHERE category IS NOT NULL AND category <> '' ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("select ai image categories: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
