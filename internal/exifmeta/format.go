package exifmeta

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

// Tag names the summary is derived from. ISO moved between tag names across
// EXIF revisions, so both spellings are checked.
const (
	tagMake             = "Make"
	tagModel            = "Model"
	tagFocalLength      = "FocalLength"
	tagFNumber          = "FNumber"
	tagExposureTime     = "ExposureTime"
	tagISOSpeedRatings  = "ISOSpeedRatings"
	tagPhotographicISO  = "PhotographicSensitivity"
	tagDateTimeOriginal = "DateTimeOriginal"
	tagDateTime         = "DateTime"
)

func summarize(raw map[string]any) Summary {
	var s Summary
	if v, ok := stringTag(raw[tagMake]); ok {
		s.Make = v
	}
	if v, ok := stringTag(raw[tagModel]); ok {
		s.Model = v
	}
	s.FocalLength = formatFocalLength(raw[tagFocalLength])
	s.Aperture = formatAperture(raw[tagFNumber])
	s.ShutterSpeed = formatShutterSpeed(raw[tagExposureTime])
	s.ISO = formatISO(raw[tagISOSpeedRatings])
	if s.ISO == "" {
		s.ISO = formatISO(raw[tagPhotographicISO])
	}
	s.ShootTime = parseShootTime(raw[tagDateTimeOriginal])
	if s.ShootTime == nil {
		s.ShootTime = parseShootTime(raw[tagDateTime])
	}
	return s
}

// formatFocalLength renders a rational as "50mm", keeping one decimal for
// non-integral lengths. Textual values get a "mm" suffix when missing.
func formatFocalLength(v any) string {
	if num, den, ok := ratio(v); ok {
		if den == 0 {
			return ""
		}
		value := float64(num) / float64(den)
		if value == math.Trunc(value) {
			return fmt.Sprintf("%dmm", int64(value))
		}
		return fmt.Sprintf("%.1fmm", value)
	}
	if text, ok := stringTag(v); ok {
		if strings.HasSuffix(strings.ToLower(text), "mm") {
			return text
		}
		return text + "mm"
	}
	return ""
}

// formatAperture renders a rational as "f/2.8", trimming trailing zeros so
// 40/10 becomes "f/4".
func formatAperture(v any) string {
	if num, den, ok := ratio(v); ok {
		if den == 0 {
			return ""
		}
		value := fmt.Sprintf("%.1f", float64(num)/float64(den))
		value = strings.TrimSuffix(strings.TrimRight(value, "0"), ".")
		return "f/" + value
	}
	if text, ok := stringTag(v); ok {
		if strings.HasPrefix(strings.ToLower(text), "f/") {
			return text
		}
		return "f/" + text
	}
	return ""
}

// formatShutterSpeed renders exposure times the way photographers read them:
// whole seconds as "2s", fractions as "1/200s" when the reciprocal is close
// to exact, otherwise a 4-decimal figure.
func formatShutterSpeed(v any) string {
	num, den, ok := ratio(v)
	if !ok {
		return ""
	}
	if den == 0 || num == 0 {
		if den == 0 && num != 0 {
			return fmt.Sprintf("%d/%ds", num, den)
		}
		return ""
	}
	value := float64(num) / float64(den)
	if value >= 1 {
		if value == math.Trunc(value) {
			return fmt.Sprintf("%ds", int64(value))
		}
		return strings.TrimRight(strconv.FormatFloat(value, 'f', 4, 64), "0") + "s"
	}
	reciprocal := math.Round(1 / value)
	if reciprocal > 0 && math.Abs(reciprocal-1/value) <= 0.05 {
		return fmt.Sprintf("1/%ds", int64(reciprocal))
	}
	return fmt.Sprintf("%.4fs", value)
}

// formatISO takes the first element of a sequence and coerces numerics to an
// integer string.
func formatISO(v any) string {
	v = first(v)
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case uint16:
		return strconv.FormatInt(int64(val), 10)
	case uint32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatInt(int64(val), 10)
	default:
		if num, den, ok := ratio(v); ok && den != 0 {
			return strconv.FormatInt(num/den, 10)
		}
		return ""
	}
}

// parseShootTime accepts the EXIF-standard "2006:01:02 15:04:05" layout and
// the dashed variant some editors write back.
func parseShootTime(v any) *time.Time {
	text, ok := stringTag(v)
	if !ok {
		return nil
	}
	for _, layout := range []string{"2006:01:02 15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, text); err == nil {
			return &t
		}
	}
	return nil
}

// ratio extracts a numerator/denominator pair from the shapes go-exif emits:
// bare rationals, one-element rational slices, and already-normalized
// two-element integer lists.
func ratio(v any) (int64, int64, bool) {
	switch val := v.(type) {
	case exifcommon.Rational:
		return int64(val.Numerator), int64(val.Denominator), true
	case exifcommon.SignedRational:
		return int64(val.Numerator), int64(val.Denominator), true
	case []exifcommon.Rational:
		if len(val) > 0 {
			return int64(val[0].Numerator), int64(val[0].Denominator), true
		}
	case []exifcommon.SignedRational:
		if len(val) > 0 {
			return int64(val[0].Numerator), int64(val[0].Denominator), true
		}
	case []int64:
		if len(val) == 2 {
			return val[0], val[1], true
		}
	case []any:
		if len(val) > 0 {
			return ratio(val[0])
		}
	}
	return 0, 0, false
}

// first unwraps one-element sequences; scalar values pass through unchanged.
func first(v any) any {
	switch val := v.(type) {
	case []uint16:
		if len(val) > 0 {
			return val[0]
		}
		return nil
	case []uint32:
		if len(val) > 0 {
			return val[0]
		}
		return nil
	case []int64:
		if len(val) > 0 {
			return val[0]
		}
		return nil
	case []string:
		if len(val) > 0 {
			return val[0]
		}
		return nil
	case []any:
		if len(val) > 0 {
			return val[0]
		}
		return nil
	default:
		return v
	}
}

func stringTag(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		trimmed := strings.TrimSpace(strings.Trim(val, "\x00"))
		return trimmed, trimmed != ""
	case []byte:
		return stringTag(decodeBytes(val))
	case []string:
		if len(val) > 0 {
			return stringTag(val[0])
		}
	case []any:
		if len(val) > 0 {
			return stringTag(val[0])
		}
	}
	return "", false
}
