package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var sequencePattern = regexp.MustCompile(`^([A-Za-z\-]+)(\d+)$`)

// SequenceStrategy - как из существующих номеров получить следующий.
// В исходной системе две формы используют разные правила, и обе сохранены.
type SequenceStrategy string

const (
	// MaxSuffix: база - максимальный числовой суффикс, префикс берётся у
	// этого же номера, ширина - максимум из 3 и всех встреченных ширин.
	MaxSuffix SequenceStrategy = "max-suffix"
	// LastEntry: база - последний непустой номер в колонке, ширина 3.
	LastEntry SequenceStrategy = "last-entry"
)

type SequenceSpec struct {
	Strategy SequenceStrategy
	Prefix   string
}

var (
	EnquirySerial   = SequenceSpec{Strategy: MaxSuffix, Prefix: "SN-"}
	QuotationNumber = SequenceSpec{Strategy: LastEntry, Prefix: "IN-NBD-"}
)

// Seed - первый номер, когда колонка пуста.
func (s SequenceSpec) Seed() string {
	return s.Prefix + "001"
}

// Next вычисляет номер, следующий за существующими.
func (s SequenceSpec) Next(existing []string) string {
	values := make([]string, 0, len(existing))
	for _, v := range existing {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return s.Seed()
	}

	switch s.Strategy {
	case LastEntry:
		m := sequencePattern.FindStringSubmatch(values[len(values)-1])
		if m == nil {
			return s.Seed()
		}
		n, _ := strconv.Atoi(m[2])
		return formatSequence(m[1], n+1, 3)
	default:
		prefix, highest, width := s.Prefix, 0, 3
		for _, v := range values {
			m := sequencePattern.FindStringSubmatch(v)
			if m == nil {
				continue
			}
			if len(m[2]) > width {
				width = len(m[2])
			}
			if n, _ := strconv.Atoi(m[2]); n > highest {
				highest, prefix = n, m[1]
			}
		}
		return formatSequence(prefix, highest+1, width)
	}
}

// Advance возвращает номер на step позиций дальше value, сохраняя префикс и ширину.
func Advance(value string, step int) (string, bool) {
	m := sequencePattern.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	n, _ := strconv.Atoi(m[2])
	return formatSequence(m[1], n+step, len(m[2])), true
}

func formatSequence(prefix string, n, width int) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}
