package layout

import "testing"

func TestHeadingClassifier_Classify(t *testing.T) {
	c := NewHeadingClassifier()
	c.Observe(10, 1000)
	c.Observe(20, 20)
	c.Observe(0, 50)

	if got := c.BodySize(); got != 10 {
		t.Fatalf("BodySize() = %v, want 10", got)
	}

	tests := []struct {
		name  string
		role  string
		size  float64
		lines int
		want  string
	}{
		{"ratio 1.8", "", 18, 1, StyleHeading1},
		{"ratio 1.5", "", 15, 1, StyleHeading2},
		{"ratio 1.3", "", 13, 2, StyleHeading3},
		{"body size", "", 12, 1, StyleNormal},
		{"too many lines", "", 20, 5, StyleNormal},
		{"H2 role", "H2", 10, 1, StyleHeading2},
		{"H5 role", "h5", 10, 1, StyleHeading3},
		{"title role", "Title", 10, 1, StyleTitle},
		{"code role", "PRE", 10, 1, StyleCode},
		{"paragraph role", "P", 10, 1, StyleNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.role, tt.size, tt.lines); got != tt.want {
				t.Errorf("Classify(%q, %v, %d) = %q, want %q", tt.role, tt.size, tt.lines, got, tt.want)
			}
		})
	}
}

func TestHeadingClassifier_NoSample(t *testing.T) {
	if got := NewHeadingClassifier().Classify("", 30, 1); got != StyleNormal {
		t.Errorf("Classify without a sample = %q, want %q", got, StyleNormal)
	}
}

func TestHeadingLevel(t *testing.T) {
	tests := map[string]int{
		StyleTitle:    1,
		StyleHeading1: 1,
		StyleHeading2: 2,
		StyleHeading3: 3,
		StyleSubtitle: 0,
		StyleNormal:   0,
	}
	for style, want := range tests {
		if got := HeadingLevel(style); got != want {
			t.Errorf("HeadingLevel(%q) = %d, want %d", style, got, want)
		}
	}
}
