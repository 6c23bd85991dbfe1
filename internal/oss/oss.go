// Package oss wraps MinIO/S3 interactions behind the small gateway surface
// the upload pipeline needs: put bytes under a key, map public URLs back to
// keys, and best-effort deletes. Without credentials the gateway runs
// disabled and every operation degrades instead of failing hard.
package oss

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Jehuge/personalWeb/internal/config"
)

// ErrDisabled is returned by Upload when no storage credentials were
// configured. Callers treat it as "service not configured", not a bug.
var ErrDisabled = errors.New("oss: storage gateway disabled")

// Gateway talks to one bucket. The zero value is a disabled gateway.
type Gateway struct {
	client  *minio.Client
	bucket  string
	baseURL string
	// defaultHost is the bucket's virtual-host prefix, used both to build
	// public URLs and to resolve them back to object keys.
	defaultHost string
	log         *slog.Logger
}

// New creates the gateway. Missing credentials yield a disabled gateway and
// no error; a broken endpoint yields an error.
func New(cfg *config.Config, log *slog.Logger) (*Gateway, error) {
	if log == nil {
		log = slog.Default()
	}
	if !cfg.OSSConfigured() {
		log.Warn("object storage not configured, uploads disabled")
		return &Gateway{log: log}, nil
	}

	client, err := minio.New(cfg.OSSEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.OSSAccessKey, cfg.OSSSecretKey, ""),
		Secure: cfg.OSSUseSSL,
		Region: cfg.OSSRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}

	scheme := "https"
	if !cfg.OSSUseSSL {
		scheme = "http"
	}
	return &Gateway{
		client:      client,
		bucket:      cfg.OSSBucket,
		baseURL:     strings.TrimRight(cfg.OSSBaseURL, "/"),
		defaultHost: fmt.Sprintf("%s://%s.%s", scheme, cfg.OSSBucket, cfg.OSSEndpoint),
		log:         log,
	}, nil
}

// Enabled reports whether storage calls will reach a real backend.
func (g *Gateway) Enabled() bool {
	return g.client != nil
}

// EnsureBucket creates the bucket when absent. Called once at startup.
func (g *Gateway) EnsureBucket(ctx context.Context) error {
	if !g.Enabled() {
		return nil
	}
	exists, err := g.client.BucketExists(ctx, g.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", g.bucket, err)
	}
	if !exists {
		if err := g.client.MakeBucket(ctx, g.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("make bucket %s: %w", g.bucket, err)
		}
	}
	return nil
}

// Upload stores a byte buffer under a /-delimited key and returns its public
// URL. The backend treats the key's slashes as an implicit folder hierarchy;
// no directories are created explicitly.
func (g *Gateway) Upload(ctx context.Context, data []byte, path, contentType string) (string, error) {
	if !g.Enabled() {
		return "", ErrDisabled
	}
	path = strings.TrimLeft(path, "/")
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := g.client.PutObject(ctx, g.bucket, path, bytes.NewReader(data), int64(len(data)), opts); err != nil {
		return "", fmt.Errorf("put object %s: %w", path, err)
	}
	return g.PublicURL(path), nil
}

// PublicURL builds the externally visible URL for an object key, preferring
// the configured CDN base URL over the bucket's default virtual-host domain.
func (g *Gateway) PublicURL(path string) string {
	path = strings.TrimLeft(path, "/")
	if g.baseURL != "" {
		return g.baseURL + "/" + path
	}
	return g.defaultHost + "/" + path
}

// ResolvePath maps a public URL back to the object key it was uploaded
// under. Query strings are stripped first; the custom base URL is preferred,
// then the default virtual-host domain, then the URL's bare path component.
// Unresolvable input yields "".
func (g *Gateway) ResolvePath(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	clean := rawURL
	if i := strings.IndexByte(clean, '?'); i >= 0 {
		clean = clean[:i]
	}

	if g.baseURL != "" && strings.HasPrefix(clean, g.baseURL) {
		return strings.TrimLeft(strings.TrimPrefix(clean, g.baseURL), "/")
	}
	if g.defaultHost != "" && strings.HasPrefix(clean, g.defaultHost) {
		return strings.TrimLeft(strings.TrimPrefix(clean, g.defaultHost), "/")
	}

	parsed, err := url.Parse(clean)
	if err != nil {
		return ""
	}
	return strings.TrimLeft(parsed.Path, "/")
}

// Delete removes an object by key. It never surfaces an error: failures are
// logged and reported as false so row mutations are never blocked by
// storage housekeeping.
func (g *Gateway) Delete(ctx context.Context, path string) bool {
	if !g.Enabled() || path == "" {
		return false
	}
	// S3 deletes are idempotent successes even for absent keys; stat first so
	// callers can tell "removed" from "was already gone".
	if _, err := g.client.StatObject(ctx, g.bucket, path, minio.StatObjectOptions{}); err != nil {
		return false
	}
	if err := g.client.RemoveObject(ctx, g.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		g.log.Warn("delete object failed", "path", path, "error", err)
		return false
	}
	return true
}
