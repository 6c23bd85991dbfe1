package repository

import "testing"

func TestRandomOffset(t *testing.T) {
	cases := []struct {
		total, limit int
		maxOffset    int
	}{
		{0, 8, 0},
		{3, 8, 0},   // fewer rows than the page: always start at 0
		{8, 8, 0},   // exact fit
		{9, 8, 1},   // one spare row
		{100, 8, 92},
	}
	for _, tc := range cases {
		for i := 0; i < 50; i++ {
			got := randomOffset(tc.total, tc.limit)
			if got < 0 || got > tc.maxOffset {
				t.Fatalf("randomOffset(%d, %d) = %d, want within [0, %d]",
					tc.total, tc.limit, got, tc.maxOffset)
			}
		}
	}
}

// The window must always leave room for a full page when the table has one.
func TestRandomOffsetKeepsFullPage(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for i := 0; i < 20; i++ {
			off := randomOffset(total, 8)
			if remaining := total - off; remaining < 8 && remaining != total {
				t.Fatalf("randomOffset(%d, 8) = %d leaves only %d rows", total, off, remaining)
			}
		}
	}
}
