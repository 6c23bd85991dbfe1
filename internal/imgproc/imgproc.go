// Package imgproc decodes, downsamples and re-encodes uploaded images, and
// derives a lossy WebP preview from the working copy.
package imgproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	_ "golang.org/x/image/webp"
)

// ErrDecode reports input that no registered decoder understands.
var ErrDecode = errors.New("imgproc: undecodable image data")

// Options control one processing pass. A zero MaxWidth/MaxHeight pair means
// the original dimensions are kept.
type Options struct {
	MaxWidth   int
	MaxHeight  int
	Quality    int // JPEG quality 1-100
	ThumbBound int // bounding box edge for the derived preview
}

// Result is the re-encoded working copy plus its derived thumbnail. Thumb is
// nil when preview generation failed; that is a degraded success, never an
// error. ThumbErr carries the reason so callers can log it.
type Result struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
	Thumb       []byte
	ThumbErr    error
}

const (
	defaultQuality    = 85
	defaultThumbBound = 1200
	// WebP previews get a small quality boost over the working copy, capped
	// below lossless territory.
	thumbQualityBoost = 5
	thumbQualityCap   = 95
)

// Process decodes raw image bytes, optionally downscales them into the
// bounding box (never upscaling), and re-encodes according to the source
// format: JPEG stays JPEG at the requested quality, PNG stays PNG, anything
// else is flattened onto white and converted to JPEG.
func Process(data []byte, opts Options) (*Result, error) {
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = defaultQuality
	}
	if opts.ThumbBound <= 0 {
		opts.ThumbBound = defaultThumbBound
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if opts.MaxWidth > 0 && opts.MaxHeight > 0 {
		img = imaging.Fit(img, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
	}

	encoded, contentType, ext, err := encodeWorkingCopy(img, format, opts.Quality)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	res := &Result{
		Data:        encoded,
		ContentType: contentType,
		Ext:         ext,
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}

	// Preview failure is tolerated; the caller gets the reason instead of
	// the thumbnail.
	if thumb, err := encodeThumb(img, opts.ThumbBound, opts.Quality); err != nil {
		res.ThumbErr = err
	} else {
		res.Thumb = thumb
	}
	return res, nil
}

// Dimensions decodes just enough of the image to report its pixel size.
func Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return cfg.Width, cfg.Height, nil
}

// encodeWorkingCopy applies the format policy. The strategy switch is the one
// place the policy lives; callers only see the resulting content type.
func encodeWorkingCopy(img image.Image, format string, quality int) ([]byte, string, string, error) {
	var buf bytes.Buffer
	switch format {
	case "jpeg":
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, "", "", fmt.Errorf("encode jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", ".jpg", nil
	case "png":
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, "", "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", ".png", nil
	default:
		flattened := flattenOntoWhite(img)
		if err := imaging.Encode(&buf, flattened, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, "", "", fmt.Errorf("encode converted jpeg: %w", err)
		}
		return buf.Bytes(), "image/jpeg", ".jpg", nil
	}
}

// encodeThumb fits the working copy into the preview bounding box and encodes
// it as lossy WebP near maximum quality.
func encodeThumb(img image.Image, bound, quality int) ([]byte, error) {
	thumb := imaging.Fit(img, bound, bound, imaging.Lanczos)

	q := quality + thumbQualityBoost
	if q > thumbQualityCap {
		q = thumbQualityCap
	}
	opts, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, float32(q))
	if err != nil {
		return nil, fmt.Errorf("webp encoder options: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, thumb, opts); err != nil {
		return nil, fmt.Errorf("encode webp thumb: %w", err)
	}
	return buf.Bytes(), nil
}

// flattenOntoWhite composites transparent or palette sources onto an opaque
// white background so the JPEG conversion has no alpha channel to lose.
func flattenOntoWhite(img image.Image) image.Image {
	bounds := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, bounds.Min, draw.Over)
	return out
}
