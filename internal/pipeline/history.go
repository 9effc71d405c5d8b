package pipeline

import (
	"strings"

	"nbd-crr/internal/sheet"
)

// HistoryTable - первые N колонок листа истории, готовые к показу.
type HistoryTable struct {
	Sheet   string     `json:"sheet"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ProjectHistorySheet берёт первые width колонок. Значение: .f, если есть;
// для колонок с "date"/"timestamp" в подписи - переписанная дата; иначе .v.
// Полностью пустые строки пропускаются.
func ProjectHistorySheet(t *sheet.Table, width int) HistoryTable {
	if w := t.Width(); width > w {
		width = w
	}

	out := HistoryTable{Sheet: t.Sheet, Headers: make([]string, width), Rows: [][]string{}}
	dateCols := make([]bool, width)
	for i := 0; i < width; i++ {
		label := strings.TrimSpace(t.Label(i))
		if label == "" {
			label = "Column " + sheet.ColumnLetters(i)
		}
		out.Headers[i] = label
		lower := strings.ToLower(label)
		dateCols[i] = strings.Contains(lower, "date") || strings.Contains(lower, "timestamp")
	}

	for _, row := range t.Rows {
		values := make([]string, width)
		empty := true
		for i := 0; i < width; i++ {
			c := row.Cell(i)
			switch {
			case c.Formatted != "":
				values[i] = c.Formatted
			case dateCols[i]:
				values[i] = sheet.RewriteDate(c.Text())
			default:
				values[i] = c.Text()
			}
			if values[i] != "" {
				empty = false
			}
		}
		if !empty {
			out.Rows = append(out.Rows, values)
		}
	}
	return out
}
