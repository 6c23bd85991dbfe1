package oss

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Jehuge/personalWeb/internal/config"
)

func testGateway() *Gateway {
	return &Gateway{
		baseURL:     "https://cdn.example.com",
		defaultHost: "https://media.oss-cn-hangzhou.aliyuncs.com",
		log:         slog.Default(),
	}
}

func TestResolvePathCustomBaseURL(t *testing.T) {
	g := testGateway()
	got := g.ResolvePath("https://cdn.example.com/images/2025/11/abc.jpg")
	if got != "images/2025/11/abc.jpg" {
		t.Errorf("resolved %q", got)
	}
}

func TestResolvePathDefaultDomain(t *testing.T) {
	g := testGateway()
	got := g.ResolvePath("https://media.oss-cn-hangzhou.aliyuncs.com/images/a.png")
	if got != "images/a.png" {
		t.Errorf("resolved %q", got)
	}
}

func TestResolvePathArbitraryURLFallsBackToPath(t *testing.T) {
	g := testGateway()
	got := g.ResolvePath("https://elsewhere.net/some/dir/file.webp")
	if got != "some/dir/file.webp" {
		t.Errorf("resolved %q", got)
	}
}

func TestResolvePathStripsQuery(t *testing.T) {
	g := testGateway()
	got := g.ResolvePath("https://cdn.example.com/images/x.jpg?Expires=123&sig=abc")
	if got != "images/x.jpg" {
		t.Errorf("resolved %q", got)
	}
}

func TestResolvePathEmpty(t *testing.T) {
	if got := testGateway().ResolvePath(""); got != "" {
		t.Errorf("resolved %q, want empty", got)
	}
}

func TestDisabledGateway(t *testing.T) {
	g, err := New(&config.Config{}, slog.Default())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if g.Enabled() {
		t.Fatalf("gateway without credentials must be disabled")
	}
	if _, err := g.Upload(context.Background(), []byte("x"), "images/a.jpg", "image/jpeg"); !errors.Is(err, ErrDisabled) {
		t.Errorf("upload err = %v, want ErrDisabled", err)
	}
	if g.Delete(context.Background(), "images/a.jpg") {
		t.Errorf("delete on disabled gateway must report false")
	}
	if err := g.EnsureBucket(context.Background()); err != nil {
		t.Errorf("ensure bucket on disabled gateway: %v", err)
	}
}

func TestPublicURLPrefersBaseURL(t *testing.T) {
	g := testGateway()
	if got := g.PublicURL("/images/a.jpg"); got != "https://cdn.example.com/images/a.jpg" {
		t.Errorf("url %q", got)
	}
	g.baseURL = ""
	if got := g.PublicURL("images/a.jpg"); got != "https://media.oss-cn-hangzhou.aliyuncs.com/images/a.jpg" {
		t.Errorf("url %q", got)
	}
}
