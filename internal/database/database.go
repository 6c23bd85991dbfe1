package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pgx connection pool using the provided DSN.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 8
	cfg.MaxConnIdleTime = 5 * time.Minute
	return pgxpool.NewWithConfig(ctx, cfg)
}

// EnsureSchema creates every table the service uses. Keeping the schema in
// code keeps the deployment self-contained; `personalweb init-db` runs this
// once against a fresh database.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	is_superuser BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS categories (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	slug TEXT NOT NULL UNIQUE,
	description TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tags (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	slug TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS blogs (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	content TEXT NOT NULL,
	excerpt TEXT,
	cover_image TEXT,
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	view_count BIGINT NOT NULL DEFAULT 0,
	category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
	author_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ,
	published_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_blogs_category ON blogs(category_id);
CREATE INDEX IF NOT EXISTS idx_blogs_published ON blogs(is_published);

CREATE TABLE IF NOT EXISTS blog_tag (
	blog_id BIGINT NOT NULL REFERENCES blogs(id) ON DELETE CASCADE,
	tag_id BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
	PRIMARY KEY (blog_id, tag_id)
);

CREATE TABLE IF NOT EXISTS photo_categories (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	slug TEXT NOT NULL UNIQUE,
	description TEXT,
	cover_image TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS photos (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	image_url TEXT NOT NULL,
	thumbnail_url TEXT,
	width INTEGER,
	height INTEGER,
	file_size BIGINT,
	camera_make TEXT,
	camera_model TEXT,
	focal_length TEXT,
	aperture TEXT,
	shutter_speed TEXT,
	iso TEXT,
	exif JSONB,
	shoot_time TIMESTAMPTZ,
	category_id BIGINT REFERENCES photo_categories(id) ON DELETE SET NULL,
	is_featured BOOLEAN NOT NULL DEFAULT FALSE,
	view_count BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_photos_category ON photos(category_id);
CREATE INDEX IF NOT EXISTS idx_photos_featured ON photos(is_featured);

CREATE TABLE IF NOT EXISTS ai_projects (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	description TEXT,
	content TEXT,
	cover_image TEXT,
	demo_url TEXT,
	github_url TEXT,
	tech_stack TEXT,
	is_featured BOOLEAN NOT NULL DEFAULT FALSE,
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	view_count BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ,
	published_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS ai_demos (
	id BIGSERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	description TEXT,
	cover_image TEXT,
	category TEXT,
	tags TEXT,
	bundle_path TEXT,
	entry_file TEXT NOT NULL DEFAULT 'index.html',
	external_url TEXT,
	iframe_height INTEGER,
	is_featured BOOLEAN NOT NULL DEFAULT FALSE,
	is_published BOOLEAN NOT NULL DEFAULT FALSE,
	sort_order INTEGER NOT NULL DEFAULT 0,
	view_count BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ,
	published_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS ai_images (
	id BIGSERIAL PRIMARY KEY,
	title TEXT,
	image_url TEXT NOT NULL,
	thumbnail_url TEXT,
	prompt TEXT,
	negative_prompt TEXT,
	model_name TEXT,
	parameters JSONB,
	category TEXT,
	tags TEXT,
	is_featured BOOLEAN NOT NULL DEFAULT FALSE,
	is_published BOOLEAN NOT NULL DEFAULT TRUE,
	view_count BIGINT NOT NULL DEFAULT 0,
	like_count BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_ai_images_published ON ai_images(is_published);
`
	if _, err := pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
