package pipeline

import (
	"regexp"
	"sort"
	"strings"

	"nbd-crr/internal/sheet"
)

var nonNumeric = regexp.MustCompile(`[^0-9.\-]+`)

// ParseAmount убирает всё, кроме цифр, точки и минуса, и читает префикс как число.
func ParseAmount(s string) (float64, bool) {
	return sheet.ParseFloatPrefix(nonNumeric.ReplaceAllString(s, ""))
}

// SumRevenue суммирует разбираемые ячейки; остальные пропускаются.
func SumRevenue(cells []sheet.Cell) float64 {
	var total float64
	for _, c := range cells {
		if !c.Truthy() {
			continue
		}
		if f, ok := ParseAmount(c.Raw()); ok {
			total += f
		}
	}
	return total
}

// Column собирает ячейки колонки, начиная со строки from.
func Column(t *sheet.Table, col, from int) []sheet.Cell {
	var out []sheet.Cell
	for i := from; i < len(t.Rows); i++ {
		out = append(out, t.Rows[i].Cell(col))
	}
	return out
}

// CountTruthy считает строки, начиная с from, где ячейка col истинна.
func CountTruthy(t *sheet.Table, col, from int) int {
	n := 0
	for _, c := range Column(t, col, from) {
		if c.Truthy() {
			n++
		}
	}
	return n
}

// ConversionRate = round(orders/enquiries*100), 0 при отсутствии заявок.
func ConversionRate(orders, enquiries int) int {
	if enquiries <= 0 {
		return 0
	}
	return sheet.RoundHalfUp(float64(orders) / float64(enquiries) * 100)
}

// StageBreakdown - число pending-строк по каждому этапу (правило пары дат).
func StageBreakdown(t *sheet.Table) map[string]int {
	out := EmptyStageBreakdown()
	for _, row := range t.Rows {
		for _, l := range stageLayouts {
			if IsPending(row.Cell(l.Planned), row.Cell(l.Actual)) {
				out[l.Flag]++
			}
		}
	}
	return out
}

func EmptyStageBreakdown() map[string]int {
	out := make(map[string]int, len(stageLayouts))
	for _, l := range stageLayouts {
		out[l.Flag] = 0
	}
	return out
}

type OrderBreakdown struct {
	Received int `json:"received"`
	Lost     int `json:"lost"`
	Hold     int `json:"hold"`
}

// orderOutcome нормализует колонку D листа Order Status.
func orderOutcome(c sheet.Cell) string {
	return strings.ToLower(c.Text())
}

// BreakdownOrders: yes -> received, no -> lost, hold -> hold. Строка 0 - заголовок.
func BreakdownOrders(t *sheet.Table) OrderBreakdown {
	var b OrderBreakdown
	for i := 1; i < len(t.Rows); i++ {
		switch orderOutcome(t.Rows[i].Cell(ColOrderReceived)) {
		case "yes":
			b.Received++
		case "no":
			b.Lost++
		case "hold":
			b.Hold++
		}
	}
	return b
}

type ReasonStat struct {
	Reason     string `json:"reason"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

// ReasonHistogram группирует по точному значению после trim. Процент
// считается от суммы группы; при равных count сохраняется порядок появления.
func ReasonHistogram(values []string) []ReasonStat {
	stats := []ReasonStat{}
	pos := map[string]int{}
	total := 0
	for _, v := range values {
		reason := strings.TrimSpace(v)
		if reason == "" {
			continue
		}
		total++
		if i, ok := pos[reason]; ok {
			stats[i].Count++
			continue
		}
		pos[reason] = len(stats)
		stats = append(stats, ReasonStat{Reason: reason, Count: 1})
	}

	for i := range stats {
		stats[i].Percentage = sheet.RoundHalfUp(float64(stats[i].Count) / float64(total) * 100)
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })
	return stats
}

type OrderReasons struct {
	LostReasons []ReasonStat `json:"lostReasons"`
	HoldReasons []ReasonStat `json:"holdReasons"`
}

// CollectOrderReasons: причины проигрыша для "no" и причины паузы для "hold".
func CollectOrderReasons(t *sheet.Table) OrderReasons {
	var lost, hold []string
	for i := 1; i < len(t.Rows); i++ {
		row := t.Rows[i]
		switch orderOutcome(row.Cell(ColOrderReceived)) {
		case "no":
			if c := row.Cell(ColOrderLostReason); c.Truthy() {
				lost = append(lost, c.Raw())
			}
		case "hold":
			if c := row.Cell(ColOrderHoldReason); c.Truthy() {
				hold = append(hold, c.Raw())
			}
		}
	}
	return OrderReasons{LostReasons: ReasonHistogram(lost), HoldReasons: ReasonHistogram(hold)}
}
