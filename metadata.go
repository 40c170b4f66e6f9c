package pdf2docx

import (
	"strconv"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/tsawler/pdf2docx/ir"
	"github.com/tsawler/pdf2docx/source"
)

// metadataOf maps the document information dictionary to document
// properties. Dates that do not parse are dropped.
func metadataOf(info source.Info) ir.Metadata {
	m := ir.Metadata{
		Title:    strings.TrimSpace(info.Title),
		Author:   strings.TrimSpace(info.Author),
		Subject:  strings.TrimSpace(info.Subject),
		Keywords: splitKeywords(info.Keywords),
		Language: strings.TrimSpace(info.Language),
	}
	if t, ok := parseDate(info.CreationDate); ok {
		m.Created = t
	}
	if t, ok := parseDate(info.ModDate); ok {
		m.Modified = t
	}
	if m.Modified.IsZero() {
		m.Modified = m.Created
	}
	return m
}

// parseDate reads a PDF date, D:YYYYMMDDHHmmSSOHH'mm', with every part
// after the year optional. The local part goes through pdfcpu's relaxed
// reader; the UTC offset is applied here so negative zones keep their
// minutes.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	local, offset, ok := splitZone(s)
	if !ok {
		return time.Time{}, false
	}
	t, ok := types.DateTime(local, true)
	if !ok {
		return time.Time{}, false
	}
	return t.Add(-offset).UTC(), true
}

// splitZone separates the local date from its O HH'mm' suffix. A date
// without a suffix is taken as UTC.
func splitZone(s string) (string, time.Duration, bool) {
	body := strings.TrimPrefix(s, "D:")
	i := strings.IndexAny(body, "Z+-")
	if i < 4 {
		return s, 0, true
	}
	local := "D:" + body[:i]
	if body[i] == 'Z' {
		return local, 0, true
	}

	digits := strings.NewReplacer("'", "", ":", "").Replace(body[i+1:])
	if len(digits) != 2 && len(digits) != 4 {
		return "", 0, false
	}
	hours, err := strconv.Atoi(digits[:2])
	if err != nil || hours > 23 {
		return "", 0, false
	}
	var minutes int
	if len(digits) == 4 {
		if minutes, err = strconv.Atoi(digits[2:]); err != nil || minutes > 59 {
			return "", 0, false
		}
	}
	offset := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	if body[i] == '-' {
		offset = -offset
	}
	return local, offset, true
}

// splitKeywords splits the keywords entry on commas and semicolons
func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
