package parser

import (
	"strings"

	"github.com/KaramelBytes/sheetlens/internal/analysis"
)

type csvParser struct{}

func (csvParser) Extensions() []string { return []string{".csv", ".tsv"} }

func (p csvParser) CanParse(filename string) bool { return hasExt(filename, p.Extensions()) }

func (csvParser) Kind() analysis.Kind { return analysis.KindDelimited }

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	// filename heuristic only; the body is read once
	return ','
}
