// Package script assembles batched INSERT scripts and writes them to disk.
package script

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/goexport/internal/sqlutil"
)

// LineEnding terminates every line of a generated script.
const LineEnding = "\r\n"

// DefaultBatchSize is the number of row tuples per INSERT statement.
const DefaultBatchSize = 100

// InsertHeader builds "INSERT <table> ([c1], [c2], ...) VALUES".
func InsertHeader(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = sqlutil.QuoteBracket(c)
	}
	return fmt.Sprintf("INSERT %s (%s) VALUES", table, strings.Join(quoted, ", "))
}

// IdentityOn returns the preamble that allows explicit identity values.
func IdentityOn(table string) string {
	return "SET IDENTITY_INSERT " + table + " ON" + LineEnding + LineEnding
}

// IdentityOff returns the suffix that restores identity generation.
func IdentityOff(table string) string {
	return "SET IDENTITY_INSERT " + table + " OFF" + LineEnding
}

// Builder accumulates row tuples for one table and emits them as INSERT
// blocks of at most batchSize tuples each.
type Builder struct {
	table     string
	header    string
	batchSize int
	batch     []string
	buf       strings.Builder
	rows      int64
	blocks    int
	onFlush   func(rows int64)
}

// NewBuilder creates a Builder for the given rendered table name and column list.
// A non-positive batchSize falls back to DefaultBatchSize.
func NewBuilder(table string, columns []string, batchSize int) *Builder {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Builder{
		table:     table,
		header:    InsertHeader(table, columns),
		batchSize: batchSize,
		batch:     make([]string, 0, batchSize),
	}
}

// OnFlush registers a callback invoked after each INSERT block with the
// running row total.
func (b *Builder) OnFlush(fn func(rows int64)) {
	b.onFlush = fn
}

// Add appends one rendered tuple, flushing when the batch is full.
func (b *Builder) Add(tuple string) {
	b.batch = append(b.batch, tuple)
	if len(b.batch) >= b.batchSize {
		b.Flush()
	}
}

// Flush writes the pending tuples as one INSERT block. It is a no-op when
// nothing is pending.
func (b *Builder) Flush() {
	if len(b.batch) == 0 {
		return
	}

	b.buf.WriteString(b.header)
	b.buf.WriteString(LineEnding)
	b.buf.WriteString(strings.Join(b.batch, ","+LineEnding))
	b.buf.WriteString(LineEnding)
	b.buf.WriteString("GO")
	b.buf.WriteString(LineEnding)

	b.rows += int64(len(b.batch))
	b.blocks++
	b.batch = b.batch[:0]

	if b.onFlush != nil {
		b.onFlush(b.rows)
	}
}

// Rows returns the number of tuples flushed so far.
func (b *Builder) Rows() int64 {
	return b.rows
}

// Blocks returns the number of INSERT blocks emitted so far.
func (b *Builder) Blocks() int {
	return b.blocks
}

// Finish flushes pending tuples and returns the complete script. The result
// is empty when no rows were added; otherwise it is wrapped in
// IDENTITY_INSERT guards when identity is true.
func (b *Builder) Finish(identity bool) string {
	b.Flush()

	if b.buf.Len() == 0 {
		return ""
	}
	if !identity {
		return b.buf.String()
	}

	var out strings.Builder
	out.Grow(b.buf.Len() + 2*len(b.table) + 64)
	out.WriteString(IdentityOn(b.table))
	out.WriteString(b.buf.String())
	out.WriteString(IdentityOff(b.table))
	return out.String()
}
