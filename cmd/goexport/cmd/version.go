package cmd

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dbsmedya/goexport/internal/config"
	"github.com/dbsmedya/goexport/internal/dialect"
	"github.com/dbsmedya/goexport/internal/verifier"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version and supported drivers",
	Long: `Display the build version together with the source drivers, script
options and verification methods this binary supports.`,
	Run: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	cmd.Printf("goexport %s (commit %s, %s %s/%s)\n",
		Version, Commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	cmd.Printf("  Drivers: %s\n", strings.Join(dialect.Names(), ", "))
	cmd.Printf("  Scripts: INSERT blocks of %d rows, GO separated, CRLF\n", config.DefaultConfig().Export.BatchSize)
	cmd.Printf("  Compression: none, zstd\n")
	cmd.Printf("  Verification: %s, %s, %s\n", verifier.MethodCount, verifier.MethodSHA256, verifier.MethodSkip)
}
