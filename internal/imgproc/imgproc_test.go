package imgproc

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestProcessKeepsJPEG(t *testing.T) {
	src := encodeJPEG(t, solidImage(640, 480, color.RGBA{R: 200, A: 255}))
	res, err := Process(src, Options{Quality: 80})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.ContentType != "image/jpeg" || res.Ext != ".jpg" {
		t.Errorf("content type %s ext %s, want jpeg", res.ContentType, res.Ext)
	}
	if res.Width != 640 || res.Height != 480 {
		t.Errorf("dimensions %dx%d, want 640x480", res.Width, res.Height)
	}
	if len(res.Data) == 0 {
		t.Fatalf("expected re-encoded bytes")
	}
	if _, format, err := image.Decode(bytes.NewReader(res.Data)); err != nil || format != "jpeg" {
		t.Errorf("output decode format %s err %v, want jpeg", format, err)
	}
}

func TestProcessKeepsPNG(t *testing.T) {
	src := encodePNG(t, solidImage(32, 32, color.RGBA{G: 120, A: 255}))
	res, err := Process(src, Options{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.ContentType != "image/png" || res.Ext != ".png" {
		t.Errorf("content type %s, want image/png", res.ContentType)
	}
}

func TestProcessConvertsGIFToJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := gif.Encode(&buf, solidImage(16, 16, color.RGBA{B: 250, A: 255}), nil); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	res, err := Process(buf.Bytes(), Options{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.ContentType != "image/jpeg" {
		t.Errorf("content type %s, want image/jpeg after conversion", res.ContentType)
	}
}

func TestProcessDownscalesIntoBox(t *testing.T) {
	src := encodeJPEG(t, solidImage(800, 400, color.RGBA{R: 10, G: 20, B: 30, A: 255}))
	res, err := Process(src, Options{MaxWidth: 200, MaxHeight: 200})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Width != 200 || res.Height != 100 {
		t.Errorf("dimensions %dx%d, want 200x100 (aspect preserved)", res.Width, res.Height)
	}
}

func TestProcessNeverUpscales(t *testing.T) {
	src := encodeJPEG(t, solidImage(50, 40, color.RGBA{R: 99, A: 255}))
	res, err := Process(src, Options{MaxWidth: 1000, MaxHeight: 1000})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if res.Width != 50 || res.Height != 40 {
		t.Errorf("dimensions %dx%d, want original 50x40", res.Width, res.Height)
	}
}

func TestProcessReportsPostEncodeSize(t *testing.T) {
	src := encodeJPEG(t, solidImage(300, 300, color.RGBA{R: 1, G: 2, B: 3, A: 255}))
	res, err := Process(src, Options{Quality: 40})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(res.Data) == len(src) {
		t.Errorf("expected re-encoded byte length to differ from input")
	}
}

func TestProcessRejectsGarbage(t *testing.T) {
	if _, err := Process([]byte("not an image"), Options{}); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDimensions(t *testing.T) {
	src := encodePNG(t, solidImage(123, 45, color.RGBA{A: 255}))
	w, h, err := Dimensions(src)
	if err != nil {
		t.Fatalf("dimensions: %v", err)
	}
	if w != 123 || h != 45 {
		t.Errorf("got %dx%d, want 123x45", w, h)
	}
}

func TestThumbIsWebP(t *testing.T) {
	src := encodeJPEG(t, solidImage(64, 64, color.RGBA{R: 7, A: 255}))
	res, err := Process(src, Options{})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(res.Thumb) < 12 {
		t.Fatalf("expected thumbnail bytes (ThumbErr: %v)", res.ThumbErr)
	}
	if res.ThumbErr != nil {
		t.Errorf("ThumbErr = %v alongside a generated thumbnail", res.ThumbErr)
	}
	// RIFF....WEBP container header.
	if string(res.Thumb[0:4]) != "RIFF" || string(res.Thumb[8:12]) != "WEBP" {
		t.Errorf("thumbnail is not a WebP container")
	}
}
