package exifmeta

import (
	"testing"
	"time"

	exifcommon "github.com/dsoprea/go-exif/v3/common"
)

func rat(n, d uint32) []exifcommon.Rational {
	return []exifcommon.Rational{{Numerator: n, Denominator: d}}
}

func TestFormatAperture(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{rat(28, 10), "f/2.8"},
		{rat(40, 10), "f/4"},
		{rat(18, 10), "f/1.8"},
		{rat(1, 0), ""},
		{"2.8", "f/2.8"},
		{"f/2.8", "f/2.8"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := formatAperture(tc.in); got != tc.want {
			t.Errorf("formatAperture(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatShutterSpeed(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{rat(1, 200), "1/200s"},
		{rat(2, 1), "2s"},
		{rat(1, 8000), "1/8000s"},
		{rat(5, 10), "1/2s"},
		{rat(30, 1), "30s"},
		{rat(3, 0), "3/0s"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := formatShutterSpeed(tc.in); got != tc.want {
			t.Errorf("formatShutterSpeed(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatFocalLength(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{rat(500, 10), "50mm"},
		{rat(345, 10), "34.5mm"},
		{rat(24, 1), "24mm"},
		{"85", "85mm"},
		{"85mm", "85mm"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := formatFocalLength(tc.in); got != tc.want {
			t.Errorf("formatFocalLength(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatISO(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{[]uint16{400}, "400"},
		{[]uint16{100, 200}, "100"},
		{int64(800), "800"},
		{"1600", "1600"},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := formatISO(tc.in); got != tc.want {
			t.Errorf("formatISO(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseShootTime(t *testing.T) {
	got := parseShootTime("2024:06:01 14:30:00")
	if got == nil {
		t.Fatalf("expected EXIF-standard timestamp to parse")
	}
	want := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parsed %v, want %v", got, want)
	}

	if parseShootTime("2024-06-01 14:30:00") == nil {
		t.Errorf("expected dashed timestamp to parse")
	}
	if parseShootTime("not a date") != nil {
		t.Errorf("expected garbage timestamp to be dropped")
	}
	if parseShootTime(nil) != nil {
		t.Errorf("expected nil input to yield no timestamp")
	}
}

func TestSummarizeOmitsMissingFields(t *testing.T) {
	s := summarize(map[string]any{tagMake: "Canon"})
	if s.Make != "Canon" {
		t.Errorf("make = %q, want Canon", s.Make)
	}
	if s.Model != "" || s.Aperture != "" || s.ShutterSpeed != "" || s.FocalLength != "" || s.ISO != "" {
		t.Errorf("expected absent tags to stay empty, got %+v", s)
	}
	if s.ShootTime != nil {
		t.Errorf("expected no shoot time, got %v", s.ShootTime)
	}
}

func TestSummarizeISOFallbackTag(t *testing.T) {
	s := summarize(map[string]any{tagPhotographicISO: []uint16{200}})
	if s.ISO != "200" {
		t.Errorf("iso = %q, want 200", s.ISO)
	}
}

func TestNormalizeValue(t *testing.T) {
	got := normalizeValue([]exifcommon.Rational{{Numerator: 28, Denominator: 10}})
	pair, ok := got.([]int64)
	if !ok || len(pair) != 2 || pair[0] != 28 || pair[1] != 10 {
		t.Errorf("rational normalized to %v, want [28 10]", got)
	}

	if got := normalizeValue([]byte("hello")); got != "hello" {
		t.Errorf("utf8 bytes = %v, want hello", got)
	}
	if got := normalizeValue([]byte{0xff, 0xfe}); got != "fffe" {
		t.Errorf("binary bytes = %v, want hex fffe", got)
	}

	if got := normalizeValue([]uint16{400}); got != int64(400) {
		t.Errorf("single-element sequence = %v, want 400", got)
	}
	nested, ok := normalizeValue([]uint16{1, 2}).([]any)
	if !ok || len(nested) != 2 {
		t.Errorf("multi-element sequence = %v, want two entries", nested)
	}
}

func TestExtractNoExif(t *testing.T) {
	raw, summary := Extract([]byte("definitely not an image"))
	if raw != nil {
		t.Errorf("expected nil tag map, got %v", raw)
	}
	if summary != (Summary{}) {
		t.Errorf("expected empty summary, got %+v", summary)
	}
}
