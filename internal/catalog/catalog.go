// Package catalog discovers the tables to export and answers per-table
// metadata questions against the source database.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dbsmedya/goexport/internal/config"
	"github.com/dbsmedya/goexport/internal/dialect"
	"github.com/dbsmedya/goexport/internal/graph"
	"github.com/dbsmedya/goexport/internal/logger"
	"github.com/dbsmedya/goexport/internal/types"
)

// Catalog runs metadata queries through a Dialect.
type Catalog struct {
	db      *sql.DB
	dialect dialect.Dialect
	logger  *logger.Logger
}

// New creates a Catalog. A nil logger falls back to the default logger.
func New(db *sql.DB, d dialect.Dialect, log *logger.Logger) *Catalog {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Catalog{db: db, dialect: d, logger: log}
}

// Selection describes which tables to export and in what order.
type Selection struct {
	TableList string   // Optional list file; empty means catalog discovery
	Include   []string // Glob patterns over schema.table; empty means all
	Exclude   []string // Glob patterns over schema.table
	Order     string   // config.OrderCatalog or config.OrderDependency
}

// SelectionFromConfig builds a Selection from export settings.
func SelectionFromConfig(cfg config.ExportConfig) Selection {
	return Selection{
		TableList: cfg.TableList,
		Include:   cfg.Include,
		Exclude:   cfg.Exclude,
		Order:     cfg.Order,
	}
}

// Tables returns every base table in the order the catalog reports them.
func (c *Catalog) Tables(ctx context.Context) ([]types.TableID, error) {
	rows, err := c.db.QueryContext(ctx, c.dialect.TablesQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tables []types.TableID
	for rows.Next() {
		var schema, name string
		if err := rows.Scan(&schema, &name); err != nil {
			return nil, fmt.Errorf("failed to scan table row: %w", err)
		}
		tables = append(tables, types.NewTableID(schema, name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}

	c.logger.Debugf("Catalog reported %d base tables", len(tables))
	return tables, nil
}

// References returns every foreign key relationship between tables.
func (c *Catalog) References(ctx context.Context) ([]graph.Reference, error) {
	rows, err := c.db.QueryContext(ctx, c.dialect.ForeignKeysQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to list foreign keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var refs []graph.Reference
	for rows.Next() {
		var childSchema, childName, parentSchema, parentName string
		if err := rows.Scan(&childSchema, &childName, &parentSchema, &parentName); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key row: %w", err)
		}
		refs = append(refs, graph.Reference{
			Child:  types.NewTableID(childSchema, childName).Key(),
			Parent: types.NewTableID(parentSchema, parentName).Key(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating foreign keys: %w", err)
	}

	return refs, nil
}

// HasIdentity reports whether the table has an auto-increment column.
func (c *Catalog) HasIdentity(ctx context.Context, t types.TableID) (bool, error) {
	query, args := c.dialect.IdentityQuery(t)

	var count int
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check identity for %s: %w", t, err)
	}
	return count > 0, nil
}

// RowCount returns the exact row count of a table.
func (c *Catalog) RowCount(ctx context.Context, t types.TableID) (int64, error) {
	var count int64
	if err := c.db.QueryRowContext(ctx, c.dialect.CountRows(t)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows of %s: %w", t, err)
	}
	return count, nil
}

// Resolve returns the tables selected for export, filtered, deduplicated
// and ordered according to sel.
func (c *Catalog) Resolve(ctx context.Context, sel Selection) ([]types.TableID, error) {
	var (
		tables []types.TableID
		err    error
	)

	if sel.TableList != "" {
		tables, err = LoadTableList(sel.TableList)
		if err != nil {
			return nil, err
		}
		c.logger.Infof("Loaded %d tables from %s", len(tables), sel.TableList)
	} else {
		tables, err = c.Tables(ctx)
		if err != nil {
			return nil, err
		}
	}

	tables, err = Filter(tables, sel.Include, sel.Exclude)
	if err != nil {
		return nil, err
	}

	if sel.Order != config.OrderDependency {
		return tables, nil
	}

	refs, err := c.References(ctx)
	if err != nil {
		return nil, err
	}
	return OrderByDependency(tables, refs)
}

// OrderByDependency sorts tables so that referenced tables come before the
// tables referencing them. Unrelated tables keep their relative order.
func OrderByDependency(tables []types.TableID, refs []graph.Reference) ([]types.TableID, error) {
	byKey := make(map[string]types.TableID, len(tables))
	keys := make([]string, 0, len(tables))
	for _, t := range tables {
		byKey[t.Key()] = t
		keys = append(keys, t.Key())
	}

	order, err := graph.Build(keys, refs).TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("failed to order tables by dependency: %w", err)
	}

	sorted := make([]types.TableID, 0, len(order))
	for _, key := range order {
		sorted = append(sorted, byKey[key])
	}
	return sorted, nil
}
