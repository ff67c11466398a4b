package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
	cfgpkg "github.com/KaramelBytes/sheetlens/internal/config"
	"github.com/KaramelBytes/sheetlens/internal/utils"
	"gopkg.in/yaml.v3"
)

// analysisOptions merges config defaults with per-command flag overrides.
func analysisOptions(delimiter string, previewRows int) (analysis.Options, error) {
	c := currentConfig()
	opt := analysis.DefaultOptions()
	if c.PreviewRows > 0 {
		opt.PreviewRows = c.PreviewRows
	}
	d := c.CSVDelimiter
	if delimiter != "" {
		d = delimiter
	}
	r, err := cfgpkg.Delimiter(d)
	if err != nil {
		return opt, fmt.Errorf("unsupported --delimiter: %s", d)
	}
	opt.Delimiter = r
	if previewRows > 0 {
		opt.PreviewRows = previewRows
	}
	return opt, nil
}

func checkFormat(format string) error {
	switch strings.ToLower(format) {
	case "markdown", "md", "json", "yaml", "yml", "table":
		return nil
	}
	return fmt.Errorf("unsupported --format: %s (use markdown|json|yaml|table)", format)
}

// render formats one result. name labels the human-readable reports.
func render(res *analysis.Result, name, format string) (string, error) {
	switch strings.ToLower(format) {
	case "", "markdown", "md":
		return res.Markdown(name), nil
	case "table":
		return res.Text(name), nil
	case "json":
		b, err := utils.PrettyJSON(res)
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "yaml", "yml":
		b, err := yaml.Marshal(res)
		if err != nil {
			return "", fmt.Errorf("marshal yaml: %w", err)
		}
		return string(b), nil
	default:
		return "", checkFormat(format)
	}
}

func formatExt(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return ".json"
	case "yaml", "yml":
		return ".yaml"
	case "table":
		return ".txt"
	default:
		return ".md"
	}
}
