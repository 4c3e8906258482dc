package utils

import "testing"

func TestAwardPoints(t *testing.T) {
	cases := []struct {
		name         string
		s1, s2       int
		want1, want2 int
	}{
		{"home win", 3, 1, 3, 0},
		{"away win", 0, 2, 0, 3},
		{"scoring draw", 2, 2, 1, 1},
		{"goalless draw", 0, 0, 1, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got1, got2 := AwardPoints(tc.s1, tc.s2)
			if got1 != tc.want1 || got2 != tc.want2 {
				t.Fatalf("AwardPoints(%d, %d) = %d, %d; want %d, %d", tc.s1, tc.s2, got1, got2, tc.want1, tc.want2)
			}
		})
	}
}

func TestWinnerID(t *testing.T) {
	if w := WinnerID(7, 9, 4, 1); w == nil || *w != 7 {
		t.Fatalf("expected team 7 to win, got %v", w)
	}
	if w := WinnerID(7, 9, 0, 1); w == nil || *w != 9 {
		t.Fatalf("expected team 9 to win, got %v", w)
	}
	if w := WinnerID(7, 9, 2, 2); w != nil {
		t.Fatalf("expected no winner on a draw, got %d", *w)
	}
}
