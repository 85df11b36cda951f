package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/goexport/internal/catalog"
	"github.com/dbsmedya/goexport/internal/config"
	"github.com/dbsmedya/goexport/internal/exporter"
	"github.com/dbsmedya/goexport/internal/logger"
)

var (
	listTablesFile   string
	listTablesOrder  string
	listTablesCounts bool
)

var listTablesCmd = &cobra.Command{
	Use:   "list-tables",
	Short: "List the tables an export would visit",
	Long: `List-tables resolves the table selection exactly as export does and prints
the tables in export order. With --counts it also shows row counts, the
number of INSERT blocks each script would hold and whether the table has an
identity column.

Example:
  goexport list-tables --config goexport.yaml --counts`,
	RunE: runListTables,
}

func init() {
	listTablesCmd.Flags().StringVarP(&listTablesFile, "tables", "t", "",
		"File with one qualified table name per line (skips catalog discovery)")
	listTablesCmd.Flags().StringVar(&listTablesOrder, "order", "",
		"Table order (catalog, dependency)")
	listTablesCmd.Flags().BoolVar(&listTablesCounts, "counts", false,
		"Show row counts and INSERT block estimates")

	rootCmd.AddCommand(listTablesCmd)
}

func runListTables(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(config.Overrides{
		TableList: listTablesFile,
		Order:     listTablesOrder,
	})
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := commandContext(cmd)

	dbManager, d, err := connectSource(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to source database: %w", err)
	}
	defer func() { _ = dbManager.Close() }()

	cat := catalog.New(dbManager.Source, d, log)
	tables, err := cat.Resolve(ctx, catalog.SelectionFromConfig(cfg.Export))
	if err != nil {
		return err
	}

	if len(tables) == 0 {
		cmd.Println("No tables selected")
		return nil
	}

	if !listTablesCounts {
		exporter.DisplayTables(cmd.OutOrStdout(), tables)
		return nil
	}

	estimates, err := exporter.NewEstimator(cat, cfg.Export.BatchSize, log).Estimate(ctx, tables)
	if err != nil {
		return fmt.Errorf("failed to estimate tables: %w", err)
	}
	exporter.DisplayEstimates(cmd.OutOrStdout(), estimates)

	return nil
}
