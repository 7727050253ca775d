package storage

import "testing"

func TestRowRefFromRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a1   string
		want string
	}{
		{"append response range", "Records!A5:J5", "row_5"},
		{"single cell", "Records!A12", "row_12"},
		{"multi letter column", "Records!AB103:AK103", "row_103"},
		{"no row component", "Records!A:J", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := rowRefFromRange(tt.a1); got != tt.want {
				t.Errorf("rowRefFromRange(%q) = %q, want %q", tt.a1, got, tt.want)
			}
		})
	}
}
