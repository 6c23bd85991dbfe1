package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jehuge/personalWeb/internal/model"
)

// BlogRepository handles posts, their categories and tags.
type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

// ---- categories ----

func (r *BlogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, slug, COALESCE(description,''), created_at
		FROM categories ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	out := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *BlogRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, slug, description)
		VALUES ($1,$2,NULLIF($3,''))
		RETURNING id, created_at
	`, c.Name, c.Slug, c.Description)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		if uniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *BlogRepository) UpdateCategory(ctx context.Context, c *model.Category) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories SET name=$1, slug=$2, description=NULLIF($3,'') WHERE id=$4
	`, c.Name, c.Slug, c.Description, c.ID)
	if err != nil {
		if uniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BlogRepository) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- tags ----

func (r *BlogRepository) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, slug, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select tags: %w", err)
	}
	defer rows.Close()

	out := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *BlogRepository) CreateTag(ctx context.Context, t *model.Tag) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tags (name, slug) VALUES ($1,$2) RETURNING id, created_at
	`, t.Name, t.Slug)
	if err := row.Scan(&t.ID, &t.CreatedAt); err != nil {
		if uniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

func (r *BlogRepository) DeleteTag(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- blogs ----

// BlogFilter narrows List results.
type BlogFilter struct {
	CategoryID    *int64
	TagID         *int64
	PublishedOnly bool
	Limit         int
	Offset        int
}

const blogColumns = `
	b.id, b.title, b.slug, b.content, COALESCE(b.excerpt,''), COALESCE(b.cover_image,''),
	b.is_published, b.view_count, b.category_id, b.author_id,
	b.created_at, b.updated_at, b.published_at,
	c.id, c.name, c.slug, c.description, c.created_at`

func scanBlog(row photoRowScanner) (*model.Blog, error) {
	var (
		b       model.Blog
		catID   *int64
		catName *string
		catSlug *string
		catDesc *string
		catAt   *time.Time
	)
	err := row.Scan(
		&b.ID, &b.Title, &b.Slug, &b.Content, &b.Excerpt, &b.CoverImage,
		&b.IsPublished, &b.ViewCount, &b.CategoryID, &b.AuthorID,
		&b.CreatedAt, &b.UpdatedAt, &b.PublishedAt,
		&catID, &catName, &catSlug, &catDesc, &catAt,
	)
	if err != nil {
		return nil, err
	}
	if catID != nil {
		b.Category = &model.Category{ID: *catID, Name: deref(catName), Slug: deref(catSlug), Description: deref(catDesc)}
		if catAt != nil {
			b.Category.CreatedAt = *catAt
		}
	}
	b.Tags = []model.Tag{}
	return &b, nil
}

func (r *BlogRepository) List(ctx context.Context, f BlogFilter) ([]model.Blog, error) {
	query := `SELECT ` + blogColumns + `
		FROM blogs b LEFT JOIN categories c ON c.id = b.category_id`
	where := []string{}
	args := []any{}
	if f.TagID != nil {
		args = append(args, *f.TagID)
		where = append(where, fmt.Sprintf("b.id IN (SELECT blog_id FROM blog_tag WHERE tag_id = $%d)", len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, fmt.Sprintf("b.category_id = $%d", len(args)))
	}
	if f.PublishedOnly {
		where = append(where, "b.is_published")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY b.created_at DESC LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select blogs: %w", err)
	}
	defer rows.Close()

	out := []model.Blog{}
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachTags(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachTags loads tags for a page of blogs in one query.
func (r *BlogRepository) attachTags(ctx context.Context, blogs []model.Blog) error {
	if len(blogs) == 0 {
		return nil
	}
	ids := make([]int64, len(blogs))
	index := make(map[int64]*model.Blog, len(blogs))
	for i := range blogs {
		ids[i] = blogs[i].ID
		index[blogs[i].ID] = &blogs[i]
	}
	rows, err := r.pool.Query(ctx, `
		SELECT bt.blog_id, t.id, t.name, t.slug, t.created_at
		FROM blog_tag bt JOIN tags t ON t.id = bt.tag_id
		WHERE bt.blog_id = ANY($1)
		ORDER BY t.name
	`, ids)
	if err != nil {
		return fmt.Errorf("select blog tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var blogID int64
		var t model.Tag
		if err := rows.Scan(&blogID, &t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan blog tag: %w", err)
		}
		if b, ok := index[blogID]; ok {
			b.Tags = append(b.Tags, t)
		}
	}
	return rows.Err()
}

// CountPublished reports the number of published posts.
func (r *BlogRepository) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM blogs WHERE is_published`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count blogs: %w", err)
	}
	return n, nil
}

// Get returns one blog by id or slug, optionally bumping the view counter.
// A failed counter write degrades to a plain read.
func (r *BlogRepository) Get(ctx context.Context, id int64, incrementView bool) (*model.Blog, error) {
	if incrementView {
		row := r.pool.QueryRow(ctx, `
			WITH bumped AS (
				UPDATE blogs SET view_count = view_count + 1 WHERE id=$1 RETURNING *
			)
			SELECT `+blogColumns+`
			FROM bumped b LEFT JOIN categories c ON c.id = b.category_id
		`, id)
		if b, err := scanBlog(row); err == nil {
			return b, r.attachTagsOne(ctx, b)
		} else if notFound(err) {
			return nil, ErrNotFound
		}
	}

	row := r.pool.QueryRow(ctx, `
		SELECT `+blogColumns+`
		FROM blogs b LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.id=$1
	`, id)
	b, err := scanBlog(row)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select blog: %w", err)
	}
	return b, r.attachTagsOne(ctx, b)
}

func (r *BlogRepository) GetBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+blogColumns+`
		FROM blogs b LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.slug=$1
	`, slug)
	b, err := scanBlog(row)
	if err != nil {
		if notFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select blog: %w", err)
	}
	return b, r.attachTagsOne(ctx, b)
}

func (r *BlogRepository) attachTagsOne(ctx context.Context, b *model.Blog) error {
	page := []model.Blog{*b}
	if err := r.attachTags(ctx, page); err != nil {
		return err
	}
	b.Tags = page[0].Tags
	return nil
}

// Create inserts a blog and its tag links in one transaction. When the post
// is created already published, published_at is stamped immediately.
func (r *BlogRepository) Create(ctx context.Context, b *model.Blog, tagIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO blogs (title, slug, content, excerpt, cover_image, is_published, category_id, author_id, published_at)
		VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),$6,$7,$8, CASE WHEN $6 THEN now() END)
		RETURNING id, view_count, created_at, published_at
	`, b.Title, b.Slug, b.Content, b.Excerpt, b.CoverImage, b.IsPublished, b.CategoryID, b.AuthorID)
	if err := row.Scan(&b.ID, &b.ViewCount, &b.CreatedAt, &b.PublishedAt); err != nil {
		if uniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert blog: %w", err)
	}
	if err := replaceTagLinks(ctx, tx, b.ID, tagIDs); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Update rewrites a blog and, when tagIDs is non-nil, its tag links.
// published_at is stamped on the first transition to published and kept
// afterwards.
func (r *BlogRepository) Update(ctx context.Context, b *model.Blog, tagIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE blogs SET
			title=$1, slug=$2, content=$3, excerpt=NULLIF($4,''), cover_image=NULLIF($5,''),
			is_published=$6, category_id=$7, updated_at=now(),
			published_at = CASE WHEN $6 AND published_at IS NULL THEN now() ELSE published_at END
		WHERE id=$8
	`, b.Title, b.Slug, b.Content, b.Excerpt, b.CoverImage, b.IsPublished, b.CategoryID, b.ID)
	if err != nil {
		if uniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("update blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	if tagIDs != nil {
		if err := replaceTagLinks(ctx, tx, b.ID, tagIDs); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *BlogRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// replaceTagLinks rewrites the blog_tag rows for one blog.
func replaceTagLinks(ctx context.Context, tx pgx.Tx, blogID int64, tagIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM blog_tag WHERE blog_id=$1`, blogID); err != nil {
		return fmt.Errorf("clear blog tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO blog_tag (blog_id, tag_id) VALUES ($1,$2) ON CONFLICT DO NOTHING
		`, blogID, tagID); err != nil {
			return fmt.Errorf("link blog tag: %w", err)
		}
	}
	return nil
}
