// Package pipeline превращает строки листов в записи воронки продаж:
// схемы колонок, разбиение на pending/history, агрегаты дашборда и
// генерация порядковых номеров.
package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"nbd-crr/internal/sheet"
	apperrors "nbd-crr/pkg/errors"
)

type FieldKind int

const (
	KindText FieldKind = iota
	KindNumber
	KindDate
)

// Field - одна колонка схемы. Если Index < 0, колонка ищется по подписи:
// берётся последняя колонка, чья подпись (в нижнем регистре) содержит Label.
type Field struct {
	Index int
	Label string
	Kind  FieldKind
}

func At(i int, kind FieldKind) Field { return Field{Index: i, Kind: kind} }

func ByLabel(token string, kind FieldKind) Field {
	return Field{Index: -1, Label: strings.ToLower(token), Kind: kind}
}

// Schema - именованная и версионированная раскладка колонок листа.
type Schema struct {
	Name       string
	Version    int
	Sheet      string
	MinColumns int
	Fields     map[string]Field
}

func (s *Schema) ID() string {
	return fmt.Sprintf("%s/v%d", s.Name, s.Version)
}

// Mapping - схема, привязанная к конкретной таблице.
type Mapping struct {
	schema *Schema
	index  map[string]int
}

// Bind проверяет таблицу против схемы. Если колонок меньше, чем ждёт
// схема, возвращается ParseError: раскладка листа поменялась.
func (s *Schema) Bind(t *sheet.Table) (*Mapping, error) {
	if got := len(t.Columns); got < s.MinColumns {
		return nil, &apperrors.ParseError{
			Sheet:  t.Sheet,
			Reason: fmt.Sprintf("схема %s ждёт минимум %d колонок, получено %d", s.ID(), s.MinColumns, got),
		}
	}

	m := &Mapping{schema: s, index: make(map[string]int, len(s.Fields))}
	for name, f := range s.Fields {
		if f.Index >= 0 {
			m.index[name] = f.Index
			continue
		}
		m.index[name] = -1
		for i, col := range t.Columns {
			if strings.Contains(strings.ToLower(col.Label), f.Label) {
				m.index[name] = i
			}
		}
	}
	return m, nil
}

// Index возвращает номер колонки поля или -1.
func (m *Mapping) Index(name string) int {
	i, ok := m.index[name]
	if !ok {
		return -1
	}
	return i
}

func (m *Mapping) Cell(r sheet.Row, name string) sheet.Cell {
	return r.Cell(m.Index(name))
}

// Record - строка после проекции: текст и даты строками, числа float64.
type Record map[string]any

func (m *Mapping) Project(r sheet.Row) Record {
	rec := make(Record, len(m.schema.Fields))
	for name, f := range m.schema.Fields {
		rec[name] = projectCell(m.Cell(r, name), f.Kind)
	}
	return rec
}

func projectCell(c sheet.Cell, kind FieldKind) any {
	switch kind {
	case KindNumber:
		n, ok := c.Number()
		if !ok {
			return 0.0
		}
		return n
	case KindDate:
		return sheet.RewriteDate(c.Text())
	default:
		return c.Text()
	}
}

func (r Record) String(name string) string {
	s, _ := r[name].(string)
	return s
}

func (r Record) Float(name string) float64 {
	f, _ := r[name].(float64)
	return f
}

// Names - поля записи в алфавитном порядке.
func (r Record) Names() []string {
	names := make([]string, 0, len(r))
	for k := range r {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
