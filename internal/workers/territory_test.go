package workers

import "testing"

func TestExtractTerritoryID(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"Keep (17)", "17"},
		{"Northern Fort (north-1)", "north-1"},
		{"No parens here", ""},
		{"Trailing space (5) ", ""}, // pattern anchors to end, trailing space breaks it
	}
	for _, c := range cases {
		if got := extractTerritoryID(c.name); got != c.want {
			t.Errorf("extractTerritoryID(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}
