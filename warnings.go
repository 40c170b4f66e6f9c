package pdf2docx

import (
	"fmt"
	"strings"
	"time"
)

// Warning is a non-fatal issue met during conversion
type Warning struct {
	Stage   string
	Page    int // -1 for document level warnings
	Message string
	Err     error
}

func (w Warning) String() string {
	if w.Page < 0 {
		return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
	}
	return fmt.Sprintf("[%s] page %d: %s", w.Stage, w.Page, w.Message)
}

// Unwrap returns the underlying error, if any
func (w Warning) Unwrap() error { return w.Err }

// FormatWarnings renders warnings one per line
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// TraceEvent records one completed pipeline stage
type TraceEvent struct {
	Stage   string
	Page    int // -1 for document level stages
	Detail  string
	Elapsed time.Duration
}

func (e TraceEvent) String() string {
	if e.Page < 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Stage, e.Detail, e.Elapsed)
	}
	return fmt.Sprintf("%s page %d: %s (%s)", e.Stage, e.Page, e.Detail, e.Elapsed)
}
