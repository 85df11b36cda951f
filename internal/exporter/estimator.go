package exporter

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/goexport/internal/catalog"
	"github.com/dbsmedya/goexport/internal/logger"
	"github.com/dbsmedya/goexport/internal/script"
	"github.com/dbsmedya/goexport/internal/types"
)

// TableEstimate holds the row count and expected script shape of one table.
type TableEstimate struct {
	Table    types.TableID
	Rows     int64
	Blocks   int64
	Identity bool
}

// Estimator counts rows for the list-tables report.
type Estimator struct {
	catalog   *catalog.Catalog
	batchSize int
	logger    *logger.Logger
}

// NewEstimator creates a new estimator.
func NewEstimator(c *catalog.Catalog, batchSize int, log *logger.Logger) *Estimator {
	if log == nil {
		log = logger.NewDefault()
	}
	if batchSize <= 0 {
		batchSize = script.DefaultBatchSize
	}
	return &Estimator{
		catalog:   c,
		batchSize: batchSize,
		logger:    log,
	}
}

// Estimate counts rows of every table and derives the number of INSERT blocks.
func (e *Estimator) Estimate(ctx context.Context, tables []types.TableID) ([]TableEstimate, error) {
	estimates := make([]TableEstimate, 0, len(tables))

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := e.catalog.RowCount(ctx, t)
		if err != nil {
			return nil, err
		}
		identity, err := e.catalog.HasIdentity(ctx, t)
		if err != nil {
			return nil, err
		}

		estimates = append(estimates, TableEstimate{
			Table:    t,
			Rows:     rows,
			Blocks:   EstimateBlocks(rows, e.batchSize),
			Identity: identity,
		})
	}

	e.logger.Debugf("Estimated %d tables", len(estimates))
	return estimates, nil
}

// EstimateBlocks returns ceil(rows / batchSize).
func EstimateBlocks(rows int64, batchSize int) int64 {
	if rows <= 0 || batchSize <= 0 {
		return 0
	}
	return (rows + int64(batchSize) - 1) / int64(batchSize)
}

// DisplayTables prints table names one per line.
func DisplayTables(w io.Writer, tables []types.TableID) {
	for _, t := range tables {
		_, _ = fmt.Fprintln(w, t.String())
	}
}

// DisplayEstimates prints an aligned table of estimates. Column widths are
// measured in terminal cells so that wide table names line up.
func DisplayEstimates(w io.Writer, estimates []TableEstimate) {
	headers := []string{"TABLE", "ROWS", "BLOCKS", "IDENTITY"}

	cells := make([][]string, 0, len(estimates))
	var totalRows, totalBlocks int64
	for _, est := range estimates {
		identity := "no"
		if est.Identity {
			identity = "yes"
		}
		cells = append(cells, []string{
			est.Table.String(),
			strconv.FormatInt(est.Rows, 10),
			strconv.FormatInt(est.Blocks, 10),
			identity,
		})
		totalRows += est.Rows
		totalBlocks += est.Blocks
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range cells {
		for i, c := range row {
			if cw := runewidth.StringWidth(c); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	printRow := func(row []string) {
		_, _ = fmt.Fprintf(w, "%s  %s  %s  %s\n",
			runewidth.FillRight(row[0], widths[0]),
			runewidth.FillLeft(row[1], widths[1]),
			runewidth.FillLeft(row[2], widths[2]),
			row[3],
		)
	}

	printRow(headers)
	for _, row := range cells {
		printRow(row)
	}
	_, _ = fmt.Fprintf(w, "\n%d tables, %d rows, %d INSERT blocks\n", len(estimates), totalRows, totalBlocks)
}
