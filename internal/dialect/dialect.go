// Package dialect abstracts the catalog queries and value decoding that
// differ between source database engines.
package dialect

import (
	"fmt"

	"github.com/dbsmedya/goexport/internal/config"
	"github.com/dbsmedya/goexport/internal/types"
)

// Dialect abstracts database-specific operations.
type Dialect interface {
	// Name returns the database/sql driver name.
	Name() string

	// TablesQuery lists base tables as (schema, name) rows.
	TablesQuery() string
	// ForeignKeysQuery lists references as (child schema, child name,
	// parent schema, parent name) rows.
	ForeignKeysQuery() string
	// IdentityQuery returns a query yielding the count of identity columns of t.
	IdentityQuery(t types.TableID) (string, []any)

	// SelectAll returns the unfiltered row query for t.
	SelectAll(t types.TableID) string
	// CountRows returns a single-value row count query for t.
	CountRows(t types.TableID) string

	// Normalize converts a value scanned from a column of the given
	// database type into a value sqlliteral can classify.
	Normalize(dbType string, v any) (any, error)
}

// Names lists the drivers For accepts, default first.
func Names() []string {
	return []string{config.DriverSQLServer, config.DriverMySQL}
}

// For returns the Dialect for a configured driver name.
func For(driver string) (Dialect, error) {
	switch driver {
	case config.DriverSQLServer, "":
		return SQLServer{}, nil
	case config.DriverMySQL:
		return MySQL{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}
