package normalize

import (
	"sort"
	"time"

	"ingestdesk/internal/domain"
)

// Leading columns, in display order.
const (
	ColumnSourceFile  = "arquivo_original"
	ColumnProcessedAt = "data_processamento"
)

// DateLayout is the display format of the processing date.
const DateLayout = "02/01/2006 15:04:05"

// DisplayOptions controls locale-dependent rendering.
type DisplayOptions struct {
	Locale   string
	Location *time.Location
}

// Table is a set of flattened rows sharing one column order.
type Table struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"-"`
}

// BuildTable flattens every result and computes the column union. The two
// leading columns come first, the remaining keys follow in lexicographic
// order. A payload key equal to a leading column is shadowed by it.
func BuildTable(results []domain.AnalysisResult, opts DisplayOptions) Table {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	seen := make(map[string]struct{})
	rows := make([]map[string]any, 0, len(results))
	for i := range results {
		r := &results[i]
		row := flattenPayload(r.Data)
		for k := range row {
			seen[k] = struct{}{}
		}

		row[ColumnSourceFile] = r.SourceFile
		if r.ProcessedAt != nil {
			row[ColumnProcessedAt] = r.ProcessedAt.In(loc).Format(DateLayout)
		} else {
			row[ColumnProcessedAt] = nil
		}
		rows = append(rows, row)
	}

	delete(seen, ColumnSourceFile)
	delete(seen, ColumnProcessedAt)
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)

	return Table{
		Columns: append([]string{ColumnSourceFile, ColumnProcessedAt}, rest...),
		Rows:    rows,
	}
}

// Cells renders every row in column order. Missing keys render as EmptyCell.
func (t Table) Cells(locale string) [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = FormatCell(row[col], locale)
		}
		out = append(out, cells)
	}
	return out
}

// flattenPayload decodes stored JSON; a payload that is not valid JSON is
// kept verbatim under ValueKey.
func flattenPayload(raw []byte) map[string]any {
	if len(raw) == 0 {
		return make(map[string]any)
	}
	v, err := Decode(raw)
	if err != nil {
		return map[string]any{ValueKey: string(raw)}
	}
	return Flatten(v)
}
