package pdf2docx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tsawler/pdf2docx/source"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"D:20240102030405Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), true},
		{"D:20240102030405+02'00'", time.Date(2024, 1, 2, 1, 4, 5, 0, time.UTC), true},
		{"D:20240102030405-05'30'", time.Date(2024, 1, 2, 8, 34, 5, 0, time.UTC), true},
		{"D:20240102030405-05'30", time.Date(2024, 1, 2, 8, 34, 5, 0, time.UTC), true},
		{"D:20240102233000-0930", time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), true},
		{"D:20240102010000+05'45'", time.Date(2024, 1, 1, 19, 15, 0, 0, time.UTC), true},
		{"20240102030405", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), true},
		{"D:2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"D:20240102030405+5'", time.Time{}, false},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"revenue", "growth", "q3"}, splitKeywords(" revenue, growth;q3 ,, "))
	assert.Nil(t, splitKeywords(""))
}

func TestMetadataOf(t *testing.T) {
	m := metadataOf(source.Info{
		Title:        " Report ",
		Author:       "Finance",
		Keywords:     "a, b",
		CreationDate: "D:20240102030405Z",
		ModDate:      "not a date",
		Language:     "de-DE",
	})
	assert.Equal(t, "Report", m.Title)
	assert.Equal(t, []string{"a", "b"}, m.Keywords)
	assert.Equal(t, "de-DE", m.Language)
	assert.Equal(t, 2024, m.Created.Year())
	assert.Equal(t, m.Created, m.Modified, "an unreadable modification date falls back to creation")
}
