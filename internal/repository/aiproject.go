package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jehuge/personalWeb/internal/model"
)

// AIProjectRepository handles showcased machine-learning projects.
type AIProjectRepository struct {
	pool *pgxpool.Pool
}

func NewAIProjectRepository(pool *pgxpool.Pool) *AIProjectRepository {
	return &AIProjectRepository{pool: pool}
}

// AIProjectFilter narrows List results.
type AIProjectFilter struct {
	PublishedOnly bool
	IsFeatured    *bool
	Limit         int
	Offset        int
}

const aiProjectColumns = `
	id, title, slug, COALESCE(description,''), COALESCE(content,''), COALESCE(cover_image,''),
	COALESCE(demo_url,''), COALESCE(github_url,''), COALESCE(tech_stack,''),
	is_featured, is_published, view_count, created_at, updated_at, published_at`

func scanAIProject(row photoRowScanner) (*model.AIProject, error) {
	var p model.AIProject
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Content, &p.CoverImage,
		&p.DemoURL, &p.GithubURL, &p.TechStack,
		&p.IsFeatured, &p.IsPublished, &p.ViewCount, &p.CreatedAt, &p.UpdatedAt, &p.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *AIProjectRepository) List(ctx context.Context, f AIProjectFilter) ([]model.AIProject, error) {
	query := `SELECT ` + aiProjectColumns + ` FROM ai_projects`
	where := []string{}
	args := []any{}
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
		return nil, fmt.Errorf("select ai projects: %w", err)
	}
	defer rows.Close()

	out := []model.AIProject{}
	for rows.Next() {
		p, err := scanAIProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ai project: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// CountPublished reports the number of published projects.
func (r *AIProjectRepository) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM ai_projects WHERE is_published`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ai projects: %w", err)
	}
	return n, nil
}

func (r *AIProjectRepository) Get(ctx context.Context, id int64, incrementView bool) (*model.AIProject, error) {
	if incrementView {
		row := r.pool.QueryRow(ctx, `
			UPDATE ai_projects SET view_count = view_count + 1 WHERE id=$1
			RETURNING `+aiProjectColumns, id)
		if p, err := scanAIProject(row); err == nil {
			return p, nil
		} else if notFound(err) {
			return nil, ErrNotFound
		}
	}

	row := r.pool.QueryRow(ctx, `SELECT `+aiProjectColumns+` FROM ai_projects WHERE id=$1`, id)
	p, err := scanAIProject(row)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select ai project: %w", err)
	}
	return p, nil
}

func (r *AIProjectRepository) GetBySlug(ctx context.Context, slug string) (*model.AIProject, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+aiProjectColumns+` FROM ai_projects WHERE slug=$1`, slug)
	p, err := scanAIProject(row)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select ai project: %w", err)
	}
	return p, nil
}

func (r *AIProjectRepository) Create(ctx context.Context, p *model.AIProject) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO ai_projects (
			title, slug, description, content, cover_image, demo_url, github_url,
			tech_stack, is_featured, is_published, published_at
		) VALUES (
			$1,$2,NULLIF($3,''),NULLIF($4,''),NULLIF($5,''),NULLIF($6,''),NULLIF($7,''),
			NULLIF($8,''),$9,$10, CASE WHEN $10 THEN now() END
		)
		RETURNING id, view_count, created_at, published_at
	`, p.Title, p.Slug, p.Description, p.Content, p.CoverImage, p.DemoURL, p.GithubURL,
		p.TechStack, p.IsFeatured, p.IsPublished)
	if err := row.Scan(&p.ID, &p.ViewCount, &p.CreatedAt, &p.PublishedAt); err != nil {
		if uniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert ai project: %w", err)
	}
	return nil
}

func (r *AIProjectRepository) Update(ctx context.Context, p *model.AIProject) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE ai_projects SET
			title=$1, slug=$2, description=NULLIF($3,''), content=NULLIF($4,''),
			cover_image=NULLIF($5,''), demo_url=NULLIF($6,''), github_url=NULLIF($7,''),
			tech_stack=NULLIF($8,''), is_featured=$9, is_published=$10, updated_at=now(),
			published_at = CASE WHEN $10 AND published_at IS NULL THEN now() ELSE published_at END
		WHERE id=$11
	`, p.Title, p.Slug, p.Description, p.Content, p.CoverImage, p.DemoURL, p.GithubURL,
		p.TechStack, p.IsFeatured, p.IsPublished, p.ID)
	if err != nil {
		if uniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update ai project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AIProjectRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM ai_projects WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete ai project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
