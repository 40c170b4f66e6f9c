package docx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries(t *testing.T) []entry {
	t.Helper()
	entries, err := assemble(sampleDocument())
	require.NoError(t, err)
	require.NoError(t, validateEntries(entries))
	return entries
}

func replaceEntry(entries []entry, name string, data []byte) []entry {
	out := make([]entry, 0, len(entries))
	for _, e := range entries {
		if e.name == name {
			if data == nil {
				continue
			}
			e.data = data
		}
		out = append(out, e)
	}
	return out
}

func TestValidate_Corrupt(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]entry) []entry
		want   string
	}{
		{
			name:   "missing styles",
			mutate: func(e []entry) []entry { return replaceEntry(e, partStyles, nil) },
			want:   "missing required part word/styles.xml",
		},
		{
			name:   "malformed document",
			mutate: func(e []entry) []entry { return replaceEntry(e, partDocument, []byte("<w:document><w:body>")) },
			want:   "word/document.xml is not well formed",
		},
		{
			name:   "missing header target",
			mutate: func(e []entry) []entry { return replaceEntry(e, "word/header1.xml", nil) },
			want:   "targets missing part word/header1.xml",
		},
		{
			name: "duplicate relationship id",
			mutate: func(e []entry) []entry {
				return replaceEntry(e, "word/_rels/header1.xml.rels", []byte(`<?xml version="1.0"?>
<Relationships xmlns="`+nsRels+`">
<Relationship Id="rId1" Type="`+relImage+`" Target="media/image1.png"/>
<Relationship Id="rId1" Type="`+relImage+`" Target="media/image1.png"/>
</Relationships>`))
			},
			want: "duplicate relationship id rId1",
		},
		{
			name: "gap in relationship ids",
			mutate: func(e []entry) []entry {
				return replaceEntry(e, "word/_rels/header1.xml.rels", []byte(`<?xml version="1.0"?>
<Relationships xmlns="`+nsRels+`">
<Relationship Id="rId1" Type="`+relImage+`" Target="media/image1.png"/>
<Relationship Id="rId3" Type="`+relImage+`" Target="media/image1.png"/>
</Relationships>`))
			},
			want: "relationship ids are not contiguous",
		},
		{
			name: "rels for missing part",
			mutate: func(e []entry) []entry {
				return append(e, entry{"word/_rels/ghost.xml.rels", []byte(`<Relationships/>`)})
			},
			want: "describes missing part word/ghost.xml",
		},
		{
			name:   "part without content type",
			mutate: func(e []entry) []entry { return append(e, entry{"word/extra.xml", []byte(`<extra/>`)}) },
			want:   "no content type for word/extra.xml",
		},
		{
			name:   "duplicate entry",
			mutate: func(e []entry) []entry { return append(e, entry{partApp, e[4].data}) },
			want:   "duplicate entry docProps/app.xml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEntries(tt.mutate(sampleEntries(t)))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_Archive(t *testing.T) {
	data, err := Package(sampleDocument())
	require.NoError(t, err)
	assert.NoError(t, Validate(data))

	err = Validate([]byte("PK garbage"))
	assert.ErrorIs(t, err, ErrValidation)

	var buf bytes.Buffer
	entries := replaceEntry(sampleEntries(t), partNumbering, nil)
	require.NoError(t, writeZip(&buf, entries))
	err = Validate(buf.Bytes())
	require.Error(t, err)
	// numbering.xml is also a document relationship target
	assert.True(t, strings.Contains(err.Error(), "missing required part word/numbering.xml"))
}

func TestRelsSource(t *testing.T) {
	tests := []struct {
		name, dir, source string
	}{
		{"word/_rels/document.xml.rels", "word/", "word/document.xml"},
		{"word/_rels/header1.xml.rels", "word/", "word/header1.xml"},
		{"_rels/.rels", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, source := relsSource(tt.name)
			assert.Equal(t, tt.dir, dir)
			assert.Equal(t, tt.source, source)
		})
	}
}
