// Package exporter streams table rows into batched INSERT scripts.
package exporter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dbsmedya/goexport/internal/catalog"
	"github.com/dbsmedya/goexport/internal/config"
	"github.com/dbsmedya/goexport/internal/dialect"
	"github.com/dbsmedya/goexport/internal/logger"
	"github.com/dbsmedya/goexport/internal/script"
	"github.com/dbsmedya/goexport/internal/sqlliteral"
	"github.com/dbsmedya/goexport/internal/types"
	"github.com/dbsmedya/goexport/internal/verifier"
)

// TableResult describes the outcome of exporting one table.
type TableResult struct {
	Table    types.TableID
	Rows     int64
	Blocks   int
	Identity bool
	Path     string // empty when the table had no rows
}

// Exporter walks the selected tables and writes one script per non-empty table.
type Exporter struct {
	db       *sql.DB
	dialect  dialect.Dialect
	catalog  *catalog.Catalog
	writer   *script.Writer
	cfg      config.ExportConfig
	logger   *logger.Logger
	progress *Progress
	verifier *verifier.Verifier
}

// NewExporter creates an exporter reading from db. A nil logger falls back to
// the default logger and a nil progress reporter prints nothing.
func NewExporter(db *sql.DB, d dialect.Dialect, cfg config.ExportConfig, log *logger.Logger, progress *Progress) (*Exporter, error) {
	if db == nil {
		return nil, fmt.Errorf("database is nil")
	}
	if d == nil {
		return nil, fmt.Errorf("dialect is nil")
	}
	if log == nil {
		log = logger.NewDefault()
	}
	if progress == nil {
		progress = NewProgress(nil, false)
	}

	writer, err := script.NewWriter(cfg.OutputDir, cfg.Compress, cfg.Overwrite)
	if err != nil {
		return nil, err
	}

	cat := catalog.New(db, d, log)

	// An empty method skips verification.
	method := verifier.Method(cfg.Verify)
	if method == "" {
		method = verifier.MethodSkip
	}
	v, err := verifier.NewVerifier(cat, method, log)
	if err != nil {
		return nil, err
	}

	return &Exporter{
		db:       db,
		dialect:  d,
		catalog:  cat,
		writer:   writer,
		cfg:      cfg,
		logger:   log,
		progress: progress,
		verifier: v,
	}, nil
}

// Run resolves the table selection and exports every table in order. The
// first error aborts the run; stats cover the tables finished before it.
func (e *Exporter) Run(ctx context.Context) (*types.ExportStats, error) {
	startedAt := time.Now()
	stats := types.NewExportStats()

	tables, err := e.catalog.Resolve(ctx, catalog.SelectionFromConfig(e.cfg))
	if err != nil {
		return stats, err
	}
	stats.TablesListed = len(tables)

	e.logger.Infow("Starting export",
		"tables", len(tables),
		"batch_size", e.batchSize(),
		"output_dir", e.cfg.OutputDir,
		"order", e.cfg.Order,
	)

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(startedAt)
			return stats, fmt.Errorf("export interrupted: %w", err)
		}

		res, err := e.ExportTable(ctx, t)
		if err != nil {
			stats.Duration = time.Since(startedAt)
			return stats, err
		}

		stats.RowsExported += res.Rows
		stats.RowsPerTable[t.String()] = res.Rows
		if res.Path == "" {
			stats.TablesEmpty++
		} else {
			stats.TablesWritten++
			stats.Files = append(stats.Files, res.Path)
		}
	}

	manifest, err := e.verifier.SaveManifest(e.writer.Dir())
	if err != nil {
		stats.Duration = time.Since(startedAt)
		return stats, err
	}
	if manifest != "" {
		stats.Files = append(stats.Files, manifest)
	}

	stats.Duration = time.Since(startedAt)
	e.logger.Infow("Export completed",
		"tables_written", stats.TablesWritten,
		"tables_empty", stats.TablesEmpty,
		"tables_verified", e.verifier.Stats().TablesVerified,
		"rows", stats.RowsExported,
		"duration", stats.Duration,
	)

	return stats, nil
}

// ExportTable writes the script for a single table.
func (e *Exporter) ExportTable(ctx context.Context, t types.TableID) (*TableResult, error) {
	log := e.logger.WithTable(t.String())
	e.progress.Start(t)

	identity, err := e.catalog.HasIdentity(ctx, t)
	if err != nil {
		e.progress.Abort()
		return nil, err
	}

	content, builder, err := e.render(ctx, t, identity)
	if err != nil {
		e.progress.Abort()
		return nil, fmt.Errorf("failed to export %s: %w", t, err)
	}
	e.progress.Update(builder.Rows())

	path, err := e.writer.Write(t, content)
	if err != nil {
		e.progress.Abort()
		return nil, err
	}
	e.progress.Finish(path != "")

	if _, err := e.verifier.VerifyTable(ctx, t, builder.Rows(), path); err != nil {
		return nil, err
	}

	log = log.WithFields(map[string]interface{}{
		"rows":     builder.Rows(),
		"blocks":   builder.Blocks(),
		"identity": identity,
	})
	log.Debugw("Table exported", "file", path)

	return &TableResult{
		Table:    t,
		Rows:     builder.Rows(),
		Blocks:   builder.Blocks(),
		Identity: identity,
		Path:     path,
	}, nil
}

// render streams all rows of t through the script builder.
func (e *Exporter) render(ctx context.Context, t types.TableID, identity bool) (string, *script.Builder, error) {
	rows, err := e.db.QueryContext(ctx, e.dialect.SelectAll(t))
	if err != nil {
		return "", nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return "", nil, fmt.Errorf("failed to read columns: %w", err)
	}
	dbTypes, err := databaseTypes(rows)
	if err != nil {
		return "", nil, err
	}

	log := e.logger.WithTable(t.String())
	builder := script.NewBuilder(t.String(), columns, e.batchSize())
	builder.OnFlush(func(rows int64) {
		e.progress.Update(rows)
		log.WithBatch(builder.Blocks()).Debugw("Block flushed", "rows", rows)
	})

	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}
		if err := rows.Scan(dest...); err != nil {
			return "", nil, fmt.Errorf("failed to scan row: %w", err)
		}

		for i, v := range values {
			normalized, err := e.dialect.Normalize(dbTypes[i], v)
			if err != nil {
				return "", nil, &sqlliteral.ColumnError{Index: i, Name: columns[i], Err: err}
			}
			values[i] = normalized
		}

		tuple, err := sqlliteral.Tuple(values)
		if err != nil {
			var colErr *sqlliteral.ColumnError
			if errors.As(err, &colErr) && colErr.Index < len(columns) {
				colErr.Name = columns[colErr.Index]
			}
			return "", nil, err
		}
		builder.Add(tuple)
	}
	if err := rows.Err(); err != nil {
		return "", nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return builder.Finish(identity), builder, nil
}

// columnTyper is the part of *sql.Rows that reports column metadata.
type columnTyper interface {
	ColumnTypes() ([]*sql.ColumnType, error)
}

// databaseTypes returns the driver type name of every column. Normalization
// depends on these names, so a failure to read them is fatal.
func databaseTypes(rows columnTyper) ([]string, error) {
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	names := make([]string, len(colTypes))
	for i, ct := range colTypes {
		names[i] = ct.DatabaseTypeName()
	}
	return names, nil
}

func (e *Exporter) batchSize() int {
	if e.cfg.BatchSize <= 0 {
		return script.DefaultBatchSize
	}
	return e.cfg.BatchSize
}
