package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
	"github.com/KaramelBytes/sheetlens/internal/parser"
	"github.com/KaramelBytes/sheetlens/internal/utils"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	abFormat          string
	abDelimiter       string
	abPreviewRows     int
	abJobs            int
	abOutputDir       string
	abContinueOnError bool
	abQuiet           bool
)

// batchItem is one file's outcome in a batch run.
type batchItem struct {
	File   string           `json:"file"`
	Result *analysis.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		if err := checkFormat(abFormat); err != nil {
			return err
		}
		opt, err := analysisOptions(abDelimiter, abPreviewRows)
		if err != nil {
			return err
		}
		jobs := abJobs
		if jobs <= 0 {
			jobs = currentConfig().BatchJobs
		}
		if jobs <= 0 {
			jobs = 1
		}

		log := newLogger()
		out := cmd.OutOrStdout()
		items := make([]batchItem, len(files))
		for i, path := range files {
			items[i].File = path
		}
		g, ctx := errgroup.WithContext(context.Background())
		g.SetLimit(jobs)
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := parser.ParseFile(path, opt)
				if err != nil {
					log.Warn("analysis failed", "file", path, "error", err)
					items[i].Error = err.Error()
					if abContinueOnError {
						return nil
					}
					return fmt.Errorf("%s: %w", path, err)
				}
				log.Debug("analyzed", "file", path, "rows", res.RowCount, "columns", res.ColumnCount)
				items[i].Result = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if abOutputDir != "" {
			return writeBatchFiles(out, items)
		}
		if strings.EqualFold(abFormat, "json") {
			b, err := utils.PrettyJSON(items)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return batchErr(items)
		}
		for i, it := range items {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] %s\n", i+1, len(items), it.File)
			}
			if it.Result == nil {
				fmt.Fprintf(out, "✗ %s\n\n", it.Error)
				continue
			}
			s, err := render(it.Result, filepath.Base(it.File), abFormat)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, s)
		}
		return batchErr(items)
	},
}

// expandInputs resolves globs and literal paths, dropping duplicates and
// anything without a supported extension. The result is sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			if _, err := parser.KindFor(m); err != nil {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

// writeBatchFiles writes one report per successful item into abOutputDir.
// Reports for inputs sharing a basename get a __N suffix.
func writeBatchFiles(out io.Writer, items []batchItem) error {
	if err := os.MkdirAll(abOutputDir, 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	ext := formatExt(abFormat)
	for _, it := range items {
		if it.Result == nil {
			if !abQuiet {
				fmt.Fprintf(out, "✗ %s: %s\n", it.File, it.Error)
			}
			continue
		}
		s, err := render(it.Result, filepath.Base(it.File), abFormat)
		if err != nil {
			return err
		}
		base := strings.TrimSuffix(filepath.Base(it.File), filepath.Ext(it.File))
		outFile := filepath.Join(abOutputDir, base+".summary"+ext)
		if _, err := os.Stat(outFile); err == nil {
			for idx := 2; ; idx++ {
				cand := filepath.Join(abOutputDir, fmt.Sprintf("%s__%d.summary%s", base, idx, ext))
				if _, err := os.Stat(cand); errors.Is(err, os.ErrNotExist) {
					outFile = cand
					break
				}
			}
		}
		if err := utils.SafeWriteFile(outFile, []byte(s)); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		if !abQuiet {
			fmt.Fprintf(out, "✓ Wrote %s\n", outFile)
		}
	}
	return batchErr(items)
}

func batchErr(items []batchItem) error {
	n := 0
	for _, it := range items {
		if it.Error != "" {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d files failed", n, len(items))
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "markdown", "output format: markdown|json|yaml|table")
	analyzeBatchCmd.Flags().StringVar(&abDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (default: by extension)")
	analyzeBatchCmd.Flags().IntVar(&abPreviewRows, "preview-rows", 0, "number of preview rows (default from config, 5)")
	analyzeBatchCmd.Flags().IntVarP(&abJobs, "jobs", "j", 0, "files analyzed concurrently (default from config, 4)")
	analyzeBatchCmd.Flags().StringVar(&abOutputDir, "output-dir", "", "write one report per file into this directory")
	analyzeBatchCmd.Flags().BoolVar(&abContinueOnError, "continue-on-error", false, "keep going when a file fails to load")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}

