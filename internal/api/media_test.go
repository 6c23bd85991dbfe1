package api

import "testing"

func TestSplitMediaID(t *testing.T) {
	cases := []struct {
		in        string
		wantType  string
		wantID    int64
		wantValid bool
	}{
		{"photo_12", "photo", 12, true},
		{"blog_cover_3", "blog_cover", 3, true},
		{"ai_cover_7", "ai_cover", 7, true},
		{"photo_", "", 0, false},
		{"photo", "", 0, false},
		{"photo_abc", "", 0, false},
		{"photo_0", "", 0, false},
		{"photo_-4", "", 0, false},
		{"unknown_5", "", 0, false},
		{"", "", 0, false},
	}
	for _, tc := range cases {
		gotType, gotID, ok := splitMediaID(tc.in)
		if ok != tc.wantValid {
			t.Errorf("splitMediaID(%q) valid = %v, want %v", tc.in, ok, tc.wantValid)
			continue
		}
		if ok && (gotType != tc.wantType || gotID != tc.wantID) {
			t.Errorf("splitMediaID(%q) = (%q, %d), want (%q, %d)", tc.in, gotType, gotID, tc.wantType, tc.wantID)
		}
	}
}

func TestCutBearer(t *testing.T) {
	if tok, ok := cutBearer("Bearer abc"); !ok || tok != "abc" {
		t.Errorf("cutBearer(Bearer abc) = (%q, %v)", tok, ok)
	}
	for _, bad := range []string{"", "Bearer ", "bearer abc", "Basic abc"} {
		if _, ok := cutBearer(bad); ok {
			t.Errorf("cutBearer(%q) accepted", bad)
		}
	}
}
