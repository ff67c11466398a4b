package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
)

// Parser maps a file name onto the tabular kind the engine should load it as.
type Parser interface {
	CanParse(filename string) bool
	Kind() analysis.Kind
	Extensions() []string
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ErrUnsupported indicates a format is not supported.
var ErrUnsupported = errors.New("unsupported file type")

// KindFor picks the source kind by file extension.
func KindFor(filename string) (analysis.Kind, error) {
	for _, p := range registry {
		if p.CanParse(filename) {
			return p.Kind(), nil
		}
	}
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = "(none)"
	}
	return "", fmt.Errorf("%w: %s (accepted: %s)", ErrUnsupported, ext, strings.Join(Accepted(), ", "))
}

// Accepted lists every registered extension.
func Accepted() []string {
	var out []string
	for _, p := range registry {
		out = append(out, p.Extensions()...)
	}
	return out
}

// ParseFile analyzes the file at path. The file is held open only for the
// duration of the call. When opt.Delimiter is 0 the delimiter follows the
// extension (tab for .tsv, comma otherwise); an explicit one is kept.
func ParseFile(path string, opt analysis.Options) (*analysis.Result, error) {
	kind, err := KindFor(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &analysis.LoadError{Kind: kind, Err: fmt.Errorf("open file: %w", err)}
	}
	defer f.Close()
	if kind == analysis.KindDelimited && opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return analysis.Analyze(f, kind, opt)
}

func hasExt(filename string, exts []string) bool {
	name := strings.ToLower(filename)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}
