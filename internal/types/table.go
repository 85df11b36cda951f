// Package types contains shared types used across multiple packages to avoid import cycles.
package types

import (
	"strings"
	"time"

	"github.com/dbsmedya/goexport/internal/sqlutil"
)

// TableID identifies a table by schema and name.
//
// Tables read from an explicit list keep the verbatim line in Raw; that text
// is what appears in generated SQL and in the output file name.
type TableID struct {
	Schema string
	Name   string
	Raw    string
}

// NewTableID creates a TableID for a catalog-discovered table.
func NewTableID(schema, name string) TableID {
	return TableID{Schema: schema, Name: name}
}

// ParseTableID builds a TableID from an already-qualified name.
// Schema and Name are filled in on a best-effort basis for filtering and
// logging; a name that cannot be split is kept as Name.
func ParseTableID(raw string) TableID {
	raw = strings.TrimSpace(raw)
	id := TableID{Raw: raw, Name: raw}

	parts, err := sqlutil.SplitQualified(raw)
	if err != nil {
		return id
	}
	switch len(parts) {
	case 1:
		id.Name = parts[0]
	default:
		id.Schema = parts[len(parts)-2]
		id.Name = parts[len(parts)-1]
	}
	return id
}

// IsExplicit reports whether the identifier came verbatim from a table list.
func (t TableID) IsExplicit() bool {
	return t.Raw != ""
}

// String renders the identifier as a bracketed qualified name, e.g. [dbo].[Orders].
func (t TableID) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	return sqlutil.QuoteBracket(t.Schema) + "." + sqlutil.QuoteBracket(t.Name)
}

// Key returns the unquoted schema.name form used for pattern matching and
// dependency lookups.
func (t TableID) Key() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// FileName returns the script file name for the table, without directory.
func (t TableID) FileName() string {
	base := t.Schema + "." + t.Name
	if t.Raw != "" {
		base = t.Raw
	}
	return sanitizeFileName(base) + ".sql"
}

var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "_")

func sanitizeFileName(s string) string {
	return fileNameReplacer.Replace(s)
}

// ExportStats contains statistics about an export run.
type ExportStats struct {
	TablesListed  int              // Tables selected for export
	TablesWritten int              // Tables that produced a script file
	TablesEmpty   int              // Tables with no rows (no file written)
	RowsExported  int64            // Total rows across all tables
	RowsPerTable  map[string]int64 // Rows per table, keyed by TableID.String()
	Files         []string         // Paths of written scripts, in export order
	Duration      time.Duration    // Wall time of the run
}

// NewExportStats returns an ExportStats ready for use.
func NewExportStats() *ExportStats {
	return &ExportStats{
		RowsPerTable: make(map[string]int64),
	}
}
