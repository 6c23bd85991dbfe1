package ingest

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"log/slog"
	"strings"
	"testing"

	"github.com/Jehuge/personalWeb/internal/config"
)

// fakeStore records gateway traffic in memory.
type fakeStore struct {
	enabled   bool
	objects   map[string][]byte
	uploads   int
	deletes   int
	failPaths map[string]bool // uploads to these paths fail
}

func newFakeStore() *fakeStore {
	return &fakeStore{enabled: true, objects: map[string][]byte{}, failPaths: map[string]bool{}}
}

func (f *fakeStore) Enabled() bool { return f.enabled }

func (f *fakeStore) Upload(_ context.Context, data []byte, path, _ string) (string, error) {
	f.uploads++
	if !f.enabled {
		return "", errors.New("disabled")
	}
	if f.failPaths[path] || (len(f.failPaths) > 0 && f.failPaths["*thumb*"] && strings.Contains(path, "_thumb")) {
		return "", errors.New("upload refused")
	}
	f.objects[path] = data
	return "https://cdn.test/" + path, nil
}

func (f *fakeStore) ResolvePath(url string) string {
	return strings.TrimPrefix(url, "https://cdn.test/")
}

func (f *fakeStore) Delete(_ context.Context, path string) bool {
	f.deletes++
	if _, ok := f.objects[path]; !ok {
		return false
	}
	delete(f.objects, path)
	return true
}

func testConfig() *config.Config {
	return &config.Config{
		MaxImageBytes: 10 << 20,
		MaxFileBytes:  50 << 20,
		ImageMaxBound: 1920,
		ImageQuality:  85,
		ThumbBound:    1200,
	}
}

func jpegFixture(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestIngestHappyPath(t *testing.T) {
	store := newFakeStore()
	p := New(testConfig(), store, slog.Default())

	res, err := p.Ingest(context.Background(), Upload{
		Data:        jpegFixture(t, 320, 240),
		Filename:    "shot.jpg",
		ContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.URL == "" {
		t.Fatalf("expected stored URL")
	}
	if res.ThumbnailURL == "" {
		t.Errorf("expected thumbnail URL")
	}
	if res.Width != 320 || res.Height != 240 {
		t.Errorf("dimensions %dx%d, want 320x240", res.Width, res.Height)
	}
	stored := store.objects[store.ResolvePath(res.URL)]
	if int64(len(stored)) != res.FileSize {
		t.Errorf("file_size %d, want stored byte length %d", res.FileSize, len(stored))
	}
	if !strings.Contains(res.URL, "images/") {
		t.Errorf("object key missing images/ prefix: %s", res.URL)
	}
	if !strings.HasSuffix(res.ThumbnailURL, "_thumb.webp") {
		t.Errorf("thumbnail key %s, want _thumb.webp suffix", res.ThumbnailURL)
	}
}

func TestIngestRejectsBadContentType(t *testing.T) {
	store := newFakeStore()
	p := New(testConfig(), store, slog.Default())

	_, err := p.Ingest(context.Background(), Upload{Data: []byte("x"), ContentType: "application/pdf"})
	if !errors.Is(err, ErrInvalidContentType) {
		t.Fatalf("err = %v, want ErrInvalidContentType", err)
	}
	if store.uploads != 0 {
		t.Errorf("gateway saw %d uploads, want 0", store.uploads)
	}
}

func TestIngestRejectsOversizedBeforeStorage(t *testing.T) {
	cfg := testConfig()
	cfg.MaxImageBytes = 10
	store := newFakeStore()
	p := New(cfg, store, slog.Default())

	_, err := p.Ingest(context.Background(), Upload{
		Data:        jpegFixture(t, 64, 64),
		ContentType: "image/jpeg",
	})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if store.uploads != 0 {
		t.Errorf("gateway saw %d uploads, want 0", store.uploads)
	}
}

func TestIngestToleratesThumbnailFailure(t *testing.T) {
	store := newFakeStore()
	store.failPaths["*thumb*"] = true
	p := New(testConfig(), store, slog.Default())

	res, err := p.Ingest(context.Background(), Upload{
		Data:        jpegFixture(t, 100, 100),
		ContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.ThumbnailURL != "" {
		t.Errorf("thumbnail_url = %q, want absent", res.ThumbnailURL)
	}
	if res.URL == "" || res.Width != 100 || res.Height != 100 {
		t.Errorf("primary result degraded: %+v", res)
	}
}

func TestIngestFailsWhenStorageDisabled(t *testing.T) {
	store := newFakeStore()
	store.enabled = false
	p := New(testConfig(), store, slog.Default())

	_, err := p.Ingest(context.Background(), Upload{
		Data:        jpegFixture(t, 10, 10),
		ContentType: "image/jpeg",
	})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("err = %v, want ErrStorageUnavailable", err)
	}
}

func TestIngestGarbageImage(t *testing.T) {
	store := newFakeStore()
	p := New(testConfig(), store, slog.Default())

	_, err := p.Ingest(context.Background(), Upload{Data: []byte("junk"), ContentType: "image/jpeg"})
	if !errors.Is(err, ErrEncodeFailed) {
		t.Fatalf("err = %v, want ErrEncodeFailed", err)
	}
	if store.uploads != 0 {
		t.Errorf("gateway saw %d uploads, want 0", store.uploads)
	}
}

func TestAnalyzeDoesNotTouchStorage(t *testing.T) {
	store := newFakeStore()
	p := New(testConfig(), store, slog.Default())

	a, err := p.Analyze(context.Background(), Upload{
		Data:        jpegFixture(t, 48, 36),
		ContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if a.Width != 48 || a.Height != 36 {
		t.Errorf("dimensions %dx%d, want 48x36", a.Width, a.Height)
	}
	if store.uploads != 0 || store.deletes != 0 {
		t.Errorf("analyze produced storage traffic: %d uploads %d deletes", store.uploads, store.deletes)
	}
}

func TestAnalyzeOmitsExifForPlainImages(t *testing.T) {
	p := New(testConfig(), newFakeStore(), slog.Default())
	a, err := p.Analyze(context.Background(), Upload{
		Data:        jpegFixture(t, 20, 20),
		ContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if a.EXIF != nil || a.Make != "" || a.Model != "" {
		t.Errorf("expected no metadata for EXIF-less image, got %+v", a.Metadata)
	}
}

func TestCleanupOrphansIdempotent(t *testing.T) {
	store := newFakeStore()
	p := New(testConfig(), store, slog.Default())

	res, err := p.Ingest(context.Background(), Upload{
		Data:        jpegFixture(t, 60, 60),
		ContentType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	refs := []OrphanRef{{URL: res.URL, ThumbnailURL: res.ThumbnailURL}}
	first := p.CleanupOrphans(context.Background(), refs)
	if first.Deleted != 2 {
		t.Errorf("first sweep deleted %d, want 2", first.Deleted)
	}
	second := p.CleanupOrphans(context.Background(), refs)
	if second.Deleted != 0 {
		t.Errorf("second sweep deleted %d, want 0", second.Deleted)
	}
	if len(second.Failed) != 2 {
		t.Errorf("second sweep failed list %v, want both URLs", second.Failed)
	}
}

func TestUploadFileSizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxFileBytes = 4
	p := New(cfg, newFakeStore(), slog.Default())

	_, err := p.UploadFile(context.Background(), Upload{Data: []byte("too big"), Filename: "a.zip"})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestUploadFileNoProcessing(t *testing.T) {
	store := newFakeStore()
	p := New(testConfig(), store, slog.Default())

	payload := []byte("%PDF-1.4 raw bytes")
	res, err := p.UploadFile(context.Background(), Upload{
		Data:        payload,
		Filename:    "doc.PDF",
		ContentType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("upload file: %v", err)
	}
	stored := store.objects[store.ResolvePath(res.URL)]
	if !bytes.Equal(stored, payload) {
		t.Errorf("stored bytes were transformed")
	}
	if !strings.Contains(res.URL, "files/") || !strings.HasSuffix(res.URL, ".pdf") {
		t.Errorf("object key %s, want files/ prefix and .pdf ext", res.URL)
	}
}

func TestReleaseURLsSkipsWhenDisabled(t *testing.T) {
	store := newFakeStore()
	store.enabled = false
	p := New(testConfig(), store, slog.Default())

	p.ReleaseURLs(context.Background(), "https://cdn.test/images/x.jpg")
	if store.deletes != 0 {
		t.Errorf("disabled gateway saw %d deletes, want 0", store.deletes)
	}
}
