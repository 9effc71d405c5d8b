package pipeline

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"nbd-crr/internal/sheet"
)

// PendingTask - строка этапа в том виде, в каком её показывают в таблицах.
type PendingTask struct {
	ID               string            `json:"id"`
	RowIndex         int               `json:"rowIndex"`
	Stage            Stage             `json:"stage"`
	StageTitle       string            `json:"stageTitle"`
	EnquiryNo        string            `json:"enquiryNo"`
	QuotationNumber  string            `json:"quotationNumber,omitempty"`
	CompanyName      string            `json:"companyName"`
	ContactPerson    string            `json:"contactPerson"`
	ApproximateValue string            `json:"approximateValue,omitempty"`
	Priority         string            `json:"priority"`
	Days             float64           `json:"days"`
	DaysText         string            `json:"daysText"`
	Status           string            `json:"status"`
	PlannedDate      string            `json:"plannedDate,omitempty"`
	FormLink         string            `json:"formLink"`
	RowData          map[string]string `json:"rowData,omitempty"`
}

type Classification struct {
	Stage   Stage         `json:"stage"`
	Pending []PendingTask `json:"pending"`
	History []PendingTask `json:"history"`
	Scanned int           `json:"scanned"`
	Dropped int           `json:"dropped"`
}

// IsPending: planned заполнен (в смысле JS), actual пуст или null.
func IsPending(planned, actual sheet.Cell) bool {
	return planned.Truthy() && actual.IsBlank()
}

var completionMarkers = []string{"complete", "closed", "done"}

func IsCompletedStatus(status string) bool {
	s := strings.ToLower(status)
	for _, m := range completionMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// DaysFrom: число берётся как есть, строка - через parseInt, иначе 0.
func DaysFrom(c sheet.Cell) float64 {
	if !c.Truthy() {
		return 0
	}
	if f, ok := c.Value.(float64); ok {
		return f
	}
	n, ok := sheet.ParseIntPrefix(c.Raw())
	if !ok {
		return 0
	}
	return float64(n)
}

func FormatDays(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// ClassifyStage раскладывает строки REPORT по корзинам этапа.
// Строка без пары дат (planned есть, actual пуст) отбрасывается сразу.
// Из прошедших проверку статус complete/closed/done уходит в историю,
// остальные в pending.
func ClassifyStage(t *sheet.Table, layout StageLayout) (Classification, error) {
	res := Classification{Stage: layout.Stage, Pending: []PendingTask{}, History: []PendingTask{}}

	mapping, err := ReportSchema.Bind(t)
	if err != nil {
		return res, err
	}

	for rowIndex, row := range t.Rows {
		res.Scanned++

		if !IsPending(row.Cell(layout.Planned), row.Cell(layout.Actual)) {
			res.Dropped++
			continue
		}

		task, ok := buildStageTask(t, mapping, row, rowIndex, layout)
		if !ok {
			res.Dropped++
			continue
		}

		if IsCompletedStatus(row.Cell(layout.Status).Text()) {
			res.History = append(res.History, task)
		} else {
			res.Pending = append(res.Pending, task)
		}
	}
	return res, nil
}

func buildStageTask(t *sheet.Table, m *Mapping, row sheet.Row, rowIndex int, layout StageLayout) (PendingTask, bool) {
	rec := m.Project(row)

	enquiryNo := rec.String("enquiryNo")
	company := rec.String("companyName")
	contact := rec.String("contactPerson")
	status := row.Cell(layout.Status).Text()

	if layout.KeepBlankEnquiry {
		enquiryNo = orDefault(enquiryNo, fmt.Sprintf("Row-%d", rowIndex+1))
		company = orDefault(company, "Unknown")
		contact = orDefault(contact, "Unknown")
		status = orDefault(status, "Pending")
	} else if enquiryNo == "" {
		return PendingTask{}, false
	}

	days, daysText := stageDays(row, layout)
	return PendingTask{
		ID:               fmt.Sprintf("task-%d-%s", rowIndex, layout.Stage),
		RowIndex:         rowIndex,
		Stage:            layout.Stage,
		StageTitle:       layout.Title,
		EnquiryNo:        enquiryNo,
		QuotationNumber:  rec.String("quotationNumber"),
		CompanyName:      company,
		ContactPerson:    contact,
		ApproximateValue: FormatRupees(rec.String("approximateValue")),
		Priority:         orDefault(rec.String("priority"), "Low"),
		Days:             days,
		DaysText:         daysText,
		Status:           status,
		PlannedDate:      sheet.RewriteDate(row.Cell(layout.Planned).Text()),
		FormLink:         layout.FormLink(),
		RowData:          rowData(t, row),
	}, true
}

// stageDays: колонка pending days (если есть у этапа) показывается как
// есть, даже нечисловая. Число для сортировки тогда из неё же, иначе из delay.
func stageDays(row sheet.Row, layout StageLayout) (float64, string) {
	days := DaysFrom(row.Cell(layout.Delay))
	if layout.PendingDays < 0 {
		return days, FormatDays(days)
	}
	pd := row.Cell(layout.PendingDays)
	if !pd.Truthy() {
		return days, FormatDays(days)
	}
	if n, ok := sheet.ParseFloatPrefix(pd.Raw()); ok {
		days = n
	}
	return days, pd.Text()
}

// rowData - все колонки строки под ключами col{i}, даты переписаны.
func rowData(t *sheet.Table, row sheet.Row) map[string]string {
	width := t.Width()
	out := make(map[string]string, width)
	for i := 0; i < width; i++ {
		out["col"+strconv.Itoa(i)] = sheet.RewriteDate(row.Cell(i).Text())
	}
	return out
}

// PendingAcrossStages - список задач дашборда: только правило пары дат,
// по одной задаче на (строку, этап), сортировка по дням по убыванию.
// Дни для всех этапов берутся из колонки delay первого этапа.
func PendingAcrossStages(t *sheet.Table) ([]PendingTask, error) {
	tasks := []PendingTask{}
	if _, err := ReportSchema.Bind(t); err != nil {
		return tasks, err
	}
	dashboardDelay := stageLayouts[0].Delay

	for rowIndex, row := range t.Rows {
		for _, layout := range stageLayouts {
			if !IsPending(row.Cell(layout.Planned), row.Cell(layout.Actual)) {
				continue
			}
			days := DaysFrom(row.Cell(dashboardDelay))
			tasks = append(tasks, PendingTask{
				ID:            fmt.Sprintf("task-%d-%s", rowIndex, layout.Title),
				RowIndex:      rowIndex,
				Stage:         layout.Stage,
				StageTitle:    layout.Title,
				EnquiryNo:     row.Cell(ColEnquiryNo).Text(),
				CompanyName:   row.Cell(ColCompanyName).Text(),
				ContactPerson: row.Cell(ColContactPerson).Text(),
				Priority:      orDefault(row.Cell(ColPriority).Text(), "Low"),
				Days:          days,
				DaysText:      FormatDays(days),
				PlannedDate:   sheet.RewriteDate(row.Cell(layout.Planned).Text()),
				FormLink:      layout.FormLink(),
			})
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Days > tasks[j].Days })
	return tasks, nil
}

// FormatRupees: числовая строка -> "₹1,234.5", остальное без изменений.
func FormatRupees(s string) string {
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	return "₹" + groupThousands(f)
}

func groupThousands(f float64) string {
	neg := f < 0
	f = math.Abs(f)
	raw := strconv.FormatFloat(math.Round(f*1000)/1000, 'f', -1, 64)
	intPart, frac, _ := strings.Cut(raw, ".")

	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	out := b.String()
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
