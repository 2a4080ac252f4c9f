package normalize

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Slow Fashion", "slow-fashion"},
		{"slow_fashion", "slow-fashion"},
		{"SLOW-FASHION", "slow-fashion"},
		{"Été", "ete"},
		{"  multi   word ", "multi-word"},
		{"--leading--", "leading"},
		{"🧥 Jackets!", "jackets"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSearchTerm(t *testing.T) {
	if got := SearchTerm("  Blue Denim "); got != "blue denim" {
		t.Errorf("SearchTerm: got %q", got)
	}
}
