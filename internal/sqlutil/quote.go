// Package sqlutil provides SQL quoting and name parsing helpers for GoExport.
package sqlutil

import (
	"strings"
)

// QuoteIdentifier quotes a MySQL identifier (table name, column name) with backticks.
// It escapes any existing backticks by doubling them.
// Example: "my_table" -> "`my_table`"
// Example: "my`table" -> "`my``table`"
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteBracket quotes a SQL Server identifier with square brackets.
// A closing bracket inside the name is doubled.
// Example: "Order Details" -> "[Order Details]"
func QuoteBracket(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// QuoteString renders s as a single-quoted SQL string literal with embedded
// quotes doubled.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// SplitQualified splits a possibly quoted, dot-separated name into its parts
// with quoting removed. Brackets, backticks and double quotes are recognised.
// Example: "[dbo].[Order Details]" -> ["dbo", "Order Details"]
func SplitQualified(name string) ([]string, error) {
	var (
		parts  []string
		cur    strings.Builder
		closeQ rune
		inQ    bool
	)

	runes := []rune(strings.TrimSpace(name))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if inQ {
			if r == closeQ {
				// doubled closing quote is an escaped literal
				if i+1 < len(runes) && runes[i+1] == closeQ {
					cur.WriteRune(r)
					i++
					continue
				}
				inQ = false
				continue
			}
			cur.WriteRune(r)
			continue
		}

		switch r {
		case '[':
			inQ, closeQ = true, ']'
		case '`':
			inQ, closeQ = true, '`'
		case '"':
			inQ, closeQ = true, '"'
		case '.':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}

	if inQ {
		return nil, &InvalidIdentifierError{Name: name, Reason: "unterminated quoted identifier"}
	}
	parts = append(parts, cur.String())

	for _, p := range parts {
		if p == "" {
			return nil, &InvalidIdentifierError{Name: name, Reason: "empty name part"}
		}
	}
	return parts, nil
}

// InvalidIdentifierError is returned when a qualified name cannot be parsed.
type InvalidIdentifierError struct {
	Name   string
	Reason string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (" + e.Reason + ")"
}
