// Package exifmeta parses embedded EXIF tags from raw image bytes into a
// JSON-safe tag map plus a summary of the camera fields the gallery cares
// about. Images without EXIF are normal input, not an error.
package exifmeta

import (
	"encoding/hex"
	"fmt"
	"time"
	"unicode/utf8"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

// Summary holds the derived camera fields. Fields whose source tag is absent
// or unparseable stay empty (nil for ShootTime) and are omitted downstream;
// callers must treat missing values as unknown, not zero.
type Summary struct {
	Make         string
	Model        string
	FocalLength  string
	Aperture     string
	ShutterSpeed string
	ISO          string
	ShootTime    *time.Time
}

// Extract reads EXIF tags from raw image bytes. The returned map contains
// every recognized tag normalized to JSON-safe values; it is nil when the
// image carries no EXIF block. Extraction never fails hard: any decode
// problem simply yields an empty result.
func Extract(data []byte) (map[string]any, Summary) {
	raw := readTags(data)
	if len(raw) == 0 {
		return nil, Summary{}
	}

	normalized := make(map[string]any, len(raw))
	for name, value := range raw {
		normalized[name] = normalizeValue(value)
	}
	return normalized, summarize(raw)
}

// readTags walks the IFD tree first and falls back to a flat scan of the
// EXIF block when the tree walk yields nothing. Some camera files carry
// structures the tree walker refuses but the flat reader still understands.
func readTags(data []byte) map[string]any {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil {
		return nil
	}

	tags := collectTree(rawExif)
	if len(tags) == 0 {
		tags = collectFlat(rawExif)
	}
	return tags
}

func collectTree(rawExif []byte) map[string]any {
	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil
	}
	ti := exif.NewTagIndex()

	_, index, err := exif.Collect(im, ti, rawExif)
	if err != nil {
		return nil
	}

	tags := make(map[string]any)
	cb := func(ifd *exif.Ifd, ite *exif.IfdTagEntry) error {
		value, err := ite.Value()
		if err != nil {
			// Skip undecodable entries instead of aborting the walk.
			return nil
		}
		tags[ite.TagName()] = value
		return nil
	}
	if err := index.RootIfd.EnumerateTagsRecursively(cb); err != nil {
		return tags
	}
	return tags
}

func collectFlat(rawExif []byte) map[string]any {
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}
	tags := make(map[string]any, len(entries))
	for _, entry := range entries {
		if entry.Value == nil {
			continue
		}
		tags[entry.TagName] = entry.Value
	}
	return tags
}

// normalizeValue maps a decoded EXIF value onto the closed set of JSON-safe
// kinds: string, integer, float, [numerator, denominator] pairs, and nested
// lists of those. Anything unrecognized renders through fmt.Sprint.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return val
	case []byte:
		return decodeBytes(val)
	case exifcommon.Rational:
		return []int64{int64(val.Numerator), int64(val.Denominator)}
	case exifcommon.SignedRational:
		return []int64{int64(val.Numerator), int64(val.Denominator)}
	case []exifcommon.Rational:
		return normalizeSlice(len(val), func(i int) any { return normalizeValue(val[i]) })
	case []exifcommon.SignedRational:
		return normalizeSlice(len(val), func(i int) any { return normalizeValue(val[i]) })
	case []uint16:
		return normalizeSlice(len(val), func(i int) any { return int64(val[i]) })
	case []uint32:
		return normalizeSlice(len(val), func(i int) any { return int64(val[i]) })
	case []int16:
		return normalizeSlice(len(val), func(i int) any { return int64(val[i]) })
	case []int32:
		return normalizeSlice(len(val), func(i int) any { return int64(val[i]) })
	case []int64:
		return normalizeSlice(len(val), func(i int) any { return val[i] })
	case []float32:
		return normalizeSlice(len(val), func(i int) any { return float64(val[i]) })
	case []float64:
		return normalizeSlice(len(val), func(i int) any { return val[i] })
	case []string:
		return normalizeSlice(len(val), func(i int) any { return val[i] })
	case []any:
		return normalizeSlice(len(val), func(i int) any { return normalizeValue(val[i]) })
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val)
	case float32:
		return float64(val)
	case float64:
		return val
	default:
		return fmt.Sprint(val)
	}
}

// normalizeSlice unwraps single-element sequences; EXIF stores most scalar
// tags as one-element arrays.
func normalizeSlice(n int, at func(int) any) any {
	if n == 1 {
		return at(0)
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = at(i)
	}
	return out
}

func decodeBytes(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return hex.EncodeToString(b)
}
