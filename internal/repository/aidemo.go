package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jehuge/personalWeb/internal/model"
)

// AIDemoRepository handles embeddable lab demos.
type AIDemoRepository struct {
	pool *pgxpool.Pool
}

func NewAIDemoRepository(pool *pgxpool.Pool) *AIDemoRepository {
	return &AIDemoRepository{pool: pool}
}

// AIDemoFilter narrows List results. FeaturedFirst floats featured demos to
// the top of the usual sort order.
type AIDemoFilter struct {
	Category      string
	PublishedOnly bool
	FeaturedFirst bool
	Limit         int
	Offset        int
}

const aiDemoColumns = `
	id, title, slug, COALESCE(description,''), COALESCE(cover_image,''),
	COALESCE(category,''), COALESCE(tags,''), COALESCE(bundle_path,''), entry_file,
	COALESCE(external_url,''), iframe_height, is_featured, is_published, sort_order,
	view_count, created_at, updated_at, published_at`

func scanAIDemo(row photoRowScanner) (*model.AIDemo, error) {
	var d model.AIDemo
	err := row.Scan(
		&d.ID, &d.Title, &d.Slug, &d.Description, &d.CoverImage,
		&d.Category, &d.Tags, &d.BundlePath, &d.EntryFile,
		&d.ExternalURL, &d.IframeHeight, &d.IsFeatured, &d.IsPublished, &d.SortOrder,
		&d.ViewCount, &d.CreatedAt, &d.UpdatedAt, &d.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *AIDemoRepository) List(ctx context.Context, f AIDemoFilter) ([]model.AIDemo, error) {
	query := `SELECT ` + aiDemoColumns + ` FROM ai_demos`
	where := []string{}
	args := []any{}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.PublishedOnly {
		where = append(where, "is_published")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	order := " ORDER BY sort_order, created_at DESC"
	if f.FeaturedFirst {
		order = " ORDER BY is_featured DESC, sort_order, created_at DESC"
	}
	args = append(args, f.Limit)
	query += order + fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select ai demos: %w", err)
	}
	defer rows.Close()

	out := []model.AIDemo{}
	for rows.Next() {
		d, err := scanAIDemo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ai demo: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// CountPublished reports the number of published demos.
func (r *AIDemoRepository) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM ai_demos WHERE is_published`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ai demos: %w", err)
	}
	return n, nil
}

func (r *AIDemoRepository) Get(ctx context.Context, id int64, incrementView bool) (*model.AIDemo, error) {
	if incrementView {
		row := r.pool.QueryRow(ctx, `
			UPDATE ai_demos SET view_count = view_count + 1 WHERE id=$1
			RETURNING `+aiDemoColumns, id)
		if d, err := scanAIDemo(row); err == nil {
			return d, nil
		} else if notFound(err) {
			return nil, ErrNotFound
		}
	}

	row := r.pool.QueryRow(ctx, `SELECT `+aiDemoColumns+` FROM ai_demos WHERE id=$1`, id)
	d, err := scanAIDemo(row)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select ai demo: %w", err)
	}
	return d, nil
}

func (r *AIDemoRepository) GetBySlug(ctx context.Context, slug string) (*model.AIDemo, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+aiDemoColumns+` FROM ai_demos WHERE slug=$1`, slug)
	d, err := scanAIDemo(row)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select ai demo: %w", err)
	}
	return d, nil
}

func (r *AIDemoRepository) Create(ctx context.Context, d *model.AIDemo) error {
	if d.EntryFile == "" {
		d.EntryFile = "index.html"
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO ai_demos (
			title, slug, description, cover_image, category, tags, bundle_path,
			entry_file, external_url, iframe_height, is_featured, is_published,
			sort_order, published_at
		) VALUES (
			$1,$2,NULLIF($3,''),NULLIF($4,''),NULLIF($5,''),NULLIF($6,''),NULLIF($7,''),
			$8,NULLIF($9,''),$10,$11,$12,$13, CASE WHEN $12 THEN now() END
		)
		RETURNING id, view_count, created_at, published_at
	`, d.Title, d.Slug, d.Description, d.CoverImage, d.Category, d.Tags, d.BundlePath,
		d.EntryFile, d.ExternalURL, d.IframeHeight, d.IsFeatured, d.IsPublished, d.SortOrder)
	if err := row.Scan(&d.ID, &d.ViewCount, &d.CreatedAt, &d.PublishedAt); err != nil {
		if uniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert ai demo: %w", err)
	}
	return nil
}

func (r *AIDemoRepository) Update(ctx context.Context, d *model.AIDemo) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE ai_demos SET
			title=$1, slug=$2, description=NULLIF($3,''), cover_image=NULLIF($4,''),
			category=NULLIF($5,''), tags=NULLIF($6,''), bundle_path=NULLIF($7,''),
			entry_file=$8, external_url=NULLIF($9,''), iframe_height=$10,
			is_featured=$11, is_published=$12, sort_order=$13, updated_at=now(),
			published_at = CASE WHEN $12 AND published_at IS NULL THEN now() ELSE published_at END
		WHERE id=$14
	`, d.Title, d.Slug, d.Description, d.CoverImage, d.Category, d.Tags, d.BundlePath,
		d.EntryFile, d.ExternalURL, d.IframeHeight, d.IsFeatured, d.IsPublished, d.SortOrder, d.ID)
	if err != nil {
		if uniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update ai demo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AIDemoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ai_demos WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete ai demo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
