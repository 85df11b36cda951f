package exporter

import (
	"fmt"
	"io"

	"github.com/gookit/color"

	"github.com/dbsmedya/goexport/internal/types"
)

// Progress prints one console line per table, rewriting the running row
// count in place:
//
//	Load table [dbo].[Customers] - 150 saved.
type Progress struct {
	w       io.Writer
	colored bool
	label   string
}

// NewProgress creates a reporter writing to w. A nil writer discards output.
func NewProgress(w io.Writer, colored bool) *Progress {
	if w == nil {
		w = io.Discard
	}
	return &Progress{w: w, colored: colored}
}

// Start begins the line for table t.
func (p *Progress) Start(t types.TableID) {
	p.label = fmt.Sprintf("Load table %s - ", t)
	_, _ = fmt.Fprint(p.w, p.label+"0")
}

// Update rewrites the current line with the running row count.
func (p *Progress) Update(rows int64) {
	_, _ = fmt.Fprintf(p.w, "\r%s%d", p.label, rows)
}

// Finish ends the line, marking it saved when a file was written.
func (p *Progress) Finish(saved bool) {
	if !saved {
		_, _ = fmt.Fprintln(p.w)
		return
	}
	msg := " saved."
	if p.colored {
		msg = color.Green.Render(msg)
	}
	_, _ = fmt.Fprintln(p.w, msg)
}

// Abort ends the line after a failure so error output starts on a new line.
func (p *Progress) Abort() {
	_, _ = fmt.Fprintln(p.w)
}
