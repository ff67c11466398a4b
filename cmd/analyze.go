package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/sheetlens/internal/parser"
	"github.com/KaramelBytes/sheetlens/internal/utils"
	"github.com/spf13/cobra"
)

var (
	anaOutputPath  string
	anaFormat      string
	anaDelimiter   string
	anaPreviewRows int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV/TSV/XLSX file and print its schema and statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if err := checkFormat(anaFormat); err != nil {
			return err
		}
		opt, err := analysisOptions(anaDelimiter, anaPreviewRows)
		if err != nil {
			return err
		}
		res, err := parser.ParseFile(path, opt)
		if err != nil {
			return err
		}
		out, err := render(res, filepath.Base(path), anaFormat)
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, []byte(out)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "markdown", "output format: markdown|json|yaml|table")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default: by extension)")
	analyzeCmd.Flags().IntVar(&anaPreviewRows, "preview-rows", 0, "number of preview rows (default from config, 5)")
}
