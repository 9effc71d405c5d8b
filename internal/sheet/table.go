// Package sheet описывает таблицу листа в том виде, в каком её отдаёт
// эндпоинт запросов: колонки с подписями и строки типизированных ячеек.
package sheet

import (
	"math"
	"strconv"
	"strings"
)

type Column struct {
	ID    string
	Label string
	Type  string
}

// Cell - значение (.v) и необязательная отформатированная строка (.f).
// Value бывает nil, string, float64 или bool.
type Cell struct {
	Value     any
	Formatted string
}

type Row struct {
	Cells []Cell
}

type Table struct {
	Sheet   string
	Columns []Column
	Rows    []Row
}

// Cell возвращает ячейку по индексу; отсутствующая ячейка равна null.
func (r Row) Cell(i int) Cell {
	if i < 0 || i >= len(r.Cells) {
		return Cell{}
	}
	return r.Cells[i]
}

// Width - ширина таблицы: максимум из числа колонок и длины самой длинной строки.
func (t *Table) Width() int {
	w := len(t.Columns)
	for _, r := range t.Rows {
		if len(r.Cells) > w {
			w = len(r.Cells)
		}
	}
	return w
}

// Label возвращает подпись колонки или "".
func (t *Table) Label(i int) string {
	if i < 0 || i >= len(t.Columns) {
		return ""
	}
	return t.Columns[i].Label
}

func (c Cell) IsNull() bool {
	return c.Value == nil
}

// IsBlank - null либо пустая строка. Ноль пустым не считается.
func (c Cell) IsBlank() bool {
	if c.Value == nil {
		return true
	}
	s, ok := c.Value.(string)
	return ok && s == ""
}

// Truthy повторяет истинность значения в JS.
func (c Cell) Truthy() bool {
	switch v := c.Value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case bool:
		return v
	default:
		return true
	}
}

// Raw - строковая форма значения без обрезки пробелов.
func (c Cell) Raw() string {
	switch v := c.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

func (c Cell) Text() string {
	return strings.TrimSpace(c.Raw())
}

// Display предпочитает .f, если он есть.
func (c Cell) Display() string {
	if c.Formatted != "" {
		return c.Formatted
	}
	return c.Text()
}

// Number приводит значение к числу; при неудаче 0 и false.
func (c Cell) Number() (float64, bool) {
	switch v := c.Value.(type) {
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// NewTable собирает таблицу из подписей и сырых значений строк.
// Используется моком провайдера и тестами.
func NewTable(name string, labels []string, rows ...[]any) *Table {
	t := &Table{Sheet: name, Columns: make([]Column, len(labels))}
	for i, l := range labels {
		t.Columns[i] = Column{ID: ColumnLetters(i), Label: l, Type: "string"}
	}
	for _, values := range rows {
		row := Row{Cells: make([]Cell, len(values))}
		for j, v := range values {
			switch x := v.(type) {
			case Cell:
				row.Cells[j] = x
			case int:
				row.Cells[j] = Cell{Value: float64(x)}
			default:
				row.Cells[j] = Cell{Value: v}
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
