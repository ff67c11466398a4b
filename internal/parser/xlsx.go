package parser

import "github.com/KaramelBytes/sheetlens/internal/analysis"

// xlsxParser also claims .xls. Only OOXML content loads; a legacy BIFF
// workbook fails with a LoadError.
type xlsxParser struct{}

func (xlsxParser) Extensions() []string { return []string{".xlsx", ".xls"} }

func (p xlsxParser) CanParse(filename string) bool { return hasExt(filename, p.Extensions()) }

func (xlsxParser) Kind() analysis.Kind { return analysis.KindSpreadsheet }
