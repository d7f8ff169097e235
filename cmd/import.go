package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/welth/internal/cli"
	"github.com/theirongolddev/welth/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagImportForce bool
	flagImportOwner string
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import JSONL ledger files into the database",
	Long: `Import JSONL ledger files into the database.

A path may be a single file or a directory. Inside a directory, files in a
first-level subdirectory belong to the user named by that subdirectory;
files at the root belong to --owner. Unchanged files are skipped unless
--force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportForce, "force", false, "Reimport files even when unchanged")
	importCmd.Flags().StringVar(&flagImportOwner, "owner", "", "Owner of records that name no user (default: --user)")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	owner := flagImportOwner
	if owner == "" {
		owner = activeUser()
	}

	progressf("  Scanning %s...\n", args[0])
	progressFn := func(current, total int) {
		if current%50 == 0 || current == total {
			progressf("\r  Parsing %s", cli.RenderProgressBar(current, total, 24))
		}
	}

	result, err := pipeline.Import(ctx, args[0], st, pipeline.ImportOptions{
		DefaultUser: owner,
		Force:       flagImportForce,
	}, progressFn)
	if err != nil {
		return err
	}

	if result.TotalFiles == 0 {
		fmt.Println("\n  No ledger files found.")
		return nil
	}
	progressf("\r  Imported %d files for %d users (%d unchanged)    \n",
		result.ParsedFiles, result.UserCount, result.SkippedFiles)

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Record", "Count"},
		Rows: [][]string{
			{"Transactions", cli.FormatNumber(int64(result.Transactions))},
			{"Accounts", cli.FormatNumber(int64(result.Accounts))},
			{"Budgets", cli.FormatNumber(int64(result.Budgets))},
		},
	}))

	if result.FileErrors > 0 {
		fmt.Fprintf(os.Stderr, "\n  %d files could not be read\n", result.FileErrors)
	}
	if result.ParseErrors > 0 {
		fmt.Fprintf(os.Stderr, "  %d lines could not be parsed\n", result.ParseErrors)
	}
	if result.Rejected > 0 {
		fmt.Fprintf(os.Stderr, "  %d records rejected\n", result.Rejected)
	}
	return nil
}
