package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nbd-crr/internal/sheet"
	apperrors "nbd-crr/pkg/errors"
)

const reportWidth = 70

// reportTable строит REPORT нужной ширины; строки задаются как {колонка: значение}.
func reportTable(rows ...map[int]any) *sheet.Table {
	labels := make([]string, reportWidth)
	for i := range labels {
		labels[i] = "Col " + sheet.ColumnLetters(i)
	}
	labels[ColEnquiryNo] = "Enquiry No"
	t := sheet.NewTable(SheetReport, labels)
	for _, r := range rows {
		values := make([]any, reportWidth)
		for col, v := range r {
			values[col] = v
		}
		t.Rows = append(t.Rows, sheet.NewTable("", nil, values).Rows[0])
	}
	return t
}

func mustLayout(t *testing.T, s Stage) StageLayout {
	t.Helper()
	l, ok := LayoutOf(s)
	require.True(t, ok)
	return l
}

func TestIsPending(t *testing.T) {
	date := sheet.Cell{Value: "Date(2024,0,1)"}
	assert.True(t, IsPending(date, sheet.Cell{}))
	assert.True(t, IsPending(date, sheet.Cell{Value: ""}))
	assert.False(t, IsPending(date, sheet.Cell{Value: "Date(2024,0,2)"}))
	assert.False(t, IsPending(sheet.Cell{}, sheet.Cell{}))
	assert.False(t, IsPending(sheet.Cell{Value: ""}, sheet.Cell{}))
	// 0 в actual - это значение, а не пустота
	assert.False(t, IsPending(date, sheet.Cell{Value: 0.0}))
}

func TestClassifyStage_Buckets(t *testing.T) {
	l := mustLayout(t, StageUpdateQuotation)
	table := reportTable(
		map[int]any{ColEnquiryNo: "SN-001", l.Planned: "Date(2024,0,1)", l.Delay: 4},
		map[int]any{ColEnquiryNo: "SN-002", l.Planned: "Date(2024,0,1)", l.Actual: "Date(2024,0,3)"},
		map[int]any{ColEnquiryNo: "SN-003", l.Planned: "Date(2024,0,1)", l.Status: "Completed"},
		map[int]any{ColEnquiryNo: "SN-004", l.Status: "closed by client"},
		map[int]any{ColEnquiryNo: "", l.Planned: "Date(2024,0,1)", l.Actual: ""},
		map[int]any{ColEnquiryNo: "SN-006", l.Planned: "Date(2024,0,1)", l.Status: "In discussion"},
		map[int]any{ColEnquiryNo: "SN-007", l.Actual: "Date(2024,0,3)", l.Status: "Done"},
	)

	res, err := ClassifyStage(table, l)
	require.NoError(t, err)

	assert.Equal(t, 7, res.Scanned)
	assert.Equal(t, 4, res.Dropped)
	require.Len(t, res.Pending, 2)
	assert.Equal(t, "SN-001", res.Pending[0].EnquiryNo)
	assert.Equal(t, 4.0, res.Pending[0].Days)
	assert.Equal(t, "4", res.Pending[0].DaysText)
	assert.Equal(t, "2024-01-01", res.Pending[0].PlannedDate)
	assert.Equal(t, "Low", res.Pending[0].Priority)
	assert.Equal(t, "/forms/update-quotation", res.Pending[0].FormLink)
	assert.Equal(t, "SN-006", res.Pending[1].EnquiryNo)

	// статус закрытия не возвращает строки, не прошедшие проверку дат
	require.Len(t, res.History, 1)
	assert.Equal(t, "SN-003", res.History[0].EnquiryNo)
}

func TestClassifyStage_CompletedStatusNeedsDatePair(t *testing.T) {
	for _, l := range Stages() {
		table := reportTable(
			map[int]any{ColEnquiryNo: "SN-1", l.Actual: "Date(2024,0,3)", l.Status: "Done"},
			map[int]any{ColEnquiryNo: "SN-2", l.Planned: "Date(2024,0,1)", l.Actual: "Date(2024,0,3)", l.Status: "Closed"},
			map[int]any{ColEnquiryNo: "SN-3", l.Status: "complete"},
		)
		res, err := ClassifyStage(table, l)
		require.NoError(t, err)

		assert.Empty(t, res.Pending, string(l.Stage))
		assert.Empty(t, res.History, string(l.Stage))
		assert.Equal(t, 3, res.Dropped, string(l.Stage))
	}
}

func TestClassifyStage_NeverBothBuckets(t *testing.T) {
	for _, l := range Stages() {
		table := reportTable(
			map[int]any{ColEnquiryNo: "A", l.Planned: "x"},
			map[int]any{ColEnquiryNo: "B", l.Planned: "x", l.Status: "DONE"},
			map[int]any{ColEnquiryNo: "C", l.Planned: 45000.0},
		)
		res, err := ClassifyStage(table, l)
		require.NoError(t, err)

		seen := map[string]int{}
		for _, p := range res.Pending {
			seen[p.EnquiryNo]++
		}
		for _, h := range res.History {
			seen[h.EnquiryNo]++
		}
		for no, n := range seen {
			assert.Equal(t, 1, n, "stage %s enquiry %s", l.Stage, no)
		}
		assert.Len(t, res.Pending, 2, string(l.Stage))
		assert.Len(t, res.History, 1, string(l.Stage))
	}
}

func TestClassifyStage_OnCallKeepsBlankRows(t *testing.T) {
	l := mustLayout(t, StageOnCallFollowup)
	table := reportTable(
		map[int]any{l.Planned: "Date(2023,9,15)", ColApproximateValue: 125000, l.Delay: "7 days"},
	)

	res, err := ClassifyStage(table, l)
	require.NoError(t, err)
	require.Len(t, res.Pending, 1)

	task := res.Pending[0]
	assert.Equal(t, "Row-1", task.EnquiryNo)
	assert.Equal(t, "Unknown", task.CompanyName)
	assert.Equal(t, "Unknown", task.ContactPerson)
	assert.Equal(t, "Pending", task.Status)
	assert.Equal(t, "₹125,000", task.ApproximateValue)
	assert.Equal(t, 7.0, task.Days)
	assert.Equal(t, "7", task.DaysText)
	assert.Equal(t, "task-0-on-call-followup", task.ID)
	assert.Equal(t, "2023-10-15", task.RowData["col21"])
}

func TestClassifyStage_OrderStatusDays(t *testing.T) {
	l := mustLayout(t, StageOrderStatus)
	table := reportTable(
		map[int]any{ColEnquiryNo: "SN-1", l.Planned: "x", ColOrderPendingDays: "12", l.Delay: 3},
		map[int]any{ColEnquiryNo: "SN-2", l.Planned: "x", l.Delay: 3},
		map[int]any{ColEnquiryNo: "SN-3", l.Planned: "x", ColOrderPendingDays: "n/a", l.Delay: "9"},
		map[int]any{ColEnquiryNo: "SN-4", l.Planned: "x", l.Delay: 2.5},
	)

	res, err := ClassifyStage(table, l)
	require.NoError(t, err)
	require.Len(t, res.Pending, 4)
	assert.Equal(t, 12.0, res.Pending[0].Days)
	assert.Equal(t, "12", res.Pending[0].DaysText)
	assert.Equal(t, 3.0, res.Pending[1].Days)
	assert.Equal(t, "3", res.Pending[1].DaysText)
	// нечисловое значение показывается как есть
	assert.Equal(t, 9.0, res.Pending[2].Days)
	assert.Equal(t, "n/a", res.Pending[2].DaysText)
	assert.Equal(t, 2.5, res.Pending[3].Days)
	assert.Equal(t, "2.5", res.Pending[3].DaysText)
}

func TestClassifyStage_SchemaMismatch(t *testing.T) {
	narrow := sheet.NewTable(SheetReport, []string{"A", "B", "C"}, []any{"x", "SN-001", "y"})

	_, err := ClassifyStage(narrow, mustLayout(t, StageOnCallFollowup))

	var parseErr *apperrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Reason, "report/v1")
}

func TestDaysFrom(t *testing.T) {
	assert.Equal(t, 5.0, DaysFrom(sheet.Cell{Value: 5.0}))
	assert.Equal(t, 5.9, DaysFrom(sheet.Cell{Value: 5.9}))
	assert.Equal(t, 3.0, DaysFrom(sheet.Cell{Value: "3 days"}))
	assert.Equal(t, 3.0, DaysFrom(sheet.Cell{Value: "3.7"}))
	assert.Equal(t, 0.0, DaysFrom(sheet.Cell{Value: "soon"}))
	assert.Equal(t, 0.0, DaysFrom(sheet.Cell{}))
}

func TestPendingAcrossStages(t *testing.T) {
	onCall := mustLayout(t, StageOnCallFollowup)
	quote := mustLayout(t, StageUpdateQuotation)
	order := mustLayout(t, StageOrderStatus)

	table := reportTable(
		map[int]any{ColEnquiryNo: "SN-001", onCall.Planned: "x", onCall.Delay: 2, quote.Planned: "y"},
		map[int]any{ColEnquiryNo: "SN-002", order.Planned: "x", onCall.Delay: 10, order.Delay: 99},
		map[int]any{ColEnquiryNo: "SN-003", onCall.Planned: "x", onCall.Actual: "done"},
	)

	tasks, err := PendingAcrossStages(table)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, "SN-002", tasks[0].EnquiryNo)
	assert.Equal(t, 10.0, tasks[0].Days)
	assert.Equal(t, "task-1-Order Status", tasks[0].ID)

	// одинаковые дни - порядок строк и этапов сохраняется
	assert.Equal(t, "task-0-On Call Followup", tasks[1].ID)
	assert.Equal(t, "task-0-Update Quotation", tasks[2].ID)
	assert.Equal(t, "Low", tasks[2].Priority)
}

func TestStageBreakdown(t *testing.T) {
	onCall := mustLayout(t, StageOnCallFollowup)
	shot := mustLayout(t, StageScreenshotUpdate)
	table := reportTable(
		map[int]any{onCall.Planned: "x", shot.Planned: "y"},
		map[int]any{onCall.Planned: "x"},
	)

	got := StageBreakdown(table)
	assert.Equal(t, 2, got["onCallFollowup"])
	assert.Equal(t, 1, got["screenshotUpdate"])
	assert.Equal(t, 0, got["orderStatus"])
	assert.Len(t, got, 6)
}

func TestSumRevenue(t *testing.T) {
	cells := []sheet.Cell{{Value: "₹1,000"}, {Value: "abc"}, {Value: "2,500.50"}}
	assert.InDelta(t, 3500.50, SumRevenue(cells), 1e-9)

	cells = append(cells, sheet.Cell{Value: 499.5}, sheet.Cell{}, sheet.Cell{Value: "-100"})
	assert.InDelta(t, 3900.0, SumRevenue(cells), 1e-9)
}

func TestConversionRate(t *testing.T) {
	assert.Equal(t, 0, ConversionRate(5, 0))
	assert.Equal(t, 33, ConversionRate(1, 3))
	assert.Equal(t, 67, ConversionRate(2, 3))
	assert.Equal(t, 50, ConversionRate(1, 2))
}

func TestReasonHistogram(t *testing.T) {
	got := ReasonHistogram([]string{"Price", "Budget", " Price ", "Timeline", "Budget", "Price", "  "})

	require.Len(t, got, 3)
	assert.Equal(t, ReasonStat{Reason: "Price", Count: 3, Percentage: 50}, got[0])
	assert.Equal(t, ReasonStat{Reason: "Budget", Count: 2, Percentage: 33}, got[1])
	assert.Equal(t, ReasonStat{Reason: "Timeline", Count: 1, Percentage: 17}, got[2])

	tied := ReasonHistogram([]string{"B", "A"})
	assert.Equal(t, "B", tied[0].Reason)
	assert.Equal(t, "A", tied[1].Reason)

	// нормализации, кроме trim, нет
	assert.Len(t, ReasonHistogram([]string{"price", "Price"}), 2)
	assert.Empty(t, ReasonHistogram(nil))
}

func orderStatusTable() *sheet.Table {
	row := func(status, lost, hold any) []any {
		values := make([]any, 16)
		values[1] = "SN-001"
		values[ColOrderReceived] = status
		values[ColOrderLostReason] = lost
		values[ColOrderHoldReason] = hold
		return values
	}
	return sheet.NewTable(SheetOrderStatus, make([]string, 16),
		row("YES", nil, nil), // заголовок
		row("YES", nil, nil),
		row(" no ", "Price too high", nil),
		row("No", "Price too high", nil),
		row("NO", "Went with competitor", nil),
		row("hold", nil, "Budget freeze"),
		row("maybe", nil, nil),
	)
}

func TestBreakdownOrders(t *testing.T) {
	assert.Equal(t, OrderBreakdown{Received: 1, Lost: 3, Hold: 1}, BreakdownOrders(orderStatusTable()))
}

func TestCollectOrderReasons(t *testing.T) {
	got := CollectOrderReasons(orderStatusTable())

	require.Len(t, got.LostReasons, 2)
	assert.Equal(t, ReasonStat{Reason: "Price too high", Count: 2, Percentage: 67}, got.LostReasons[0])
	require.Len(t, got.HoldReasons, 1)
	assert.Equal(t, 100, got.HoldReasons[0].Percentage)
}

func TestCountTruthy(t *testing.T) {
	tbl := sheet.NewTable("x", []string{"A", "B"},
		[]any{nil, "SN-001"}, []any{nil, ""}, []any{nil, 0}, []any{nil, "SN-002"})
	assert.Equal(t, 2, CountTruthy(tbl, 1, 0))
	assert.Equal(t, 1, CountTruthy(tbl, 1, 1))
}

func TestSequence_MaxSuffix(t *testing.T) {
	assert.Equal(t, "SN-005", EnquirySerial.Next([]string{"SN-001", "SN-002", "SN-004"}))
	assert.Equal(t, "SN-005", EnquirySerial.Next([]string{"SN-004", "SN-001"}))
	assert.Equal(t, "SN-001", EnquirySerial.Next(nil))
	assert.Equal(t, "SN-001", EnquirySerial.Next([]string{" ", "garbage"}))
	assert.Equal(t, "SN-0101", EnquirySerial.Next([]string{"SN-0099", "SN-100"}))
	assert.Equal(t, "EQ-011", EnquirySerial.Next([]string{"SN-002", "EQ-010"}))
}

func TestSequence_LastEntry(t *testing.T) {
	assert.Equal(t, "IN-NBD-004", QuotationNumber.Next([]string{"IN-NBD-005", "IN-NBD-003"}))
	assert.Equal(t, "IN-NBD-001", QuotationNumber.Next(nil))
	assert.Equal(t, "IN-NBD-001", QuotationNumber.Next([]string{"IN-NBD-007", "draft"}))
	assert.Equal(t, "IN-NBD-1000", QuotationNumber.Next([]string{"IN-NBD-999"}))
}

func TestAdvance(t *testing.T) {
	got, ok := Advance("SN-009", 1)
	assert.True(t, ok)
	assert.Equal(t, "SN-010", got)

	_, ok = Advance("nope", 1)
	assert.False(t, ok)
}

func TestProjectHistorySheet(t *testing.T) {
	tbl := sheet.NewTable(SheetOnCallHistory, []string{"Timestamp", "Enquiry No", "", "Next Date"},
		[]any{sheet.Cell{Value: "Date(2024,0,5,10,0,0)", Formatted: "05/01/2024 10:00:00"}, " SN-001 ", 12, "Date(2024,1,1)"},
		[]any{nil, nil, nil, nil},
		[]any{"Date(2024,2,9)", "SN-002"},
	)

	got := ProjectHistorySheet(tbl, 9)

	assert.Equal(t, []string{"Timestamp", "Enquiry No", "Column C", "Next Date"}, got.Headers)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []string{"05/01/2024 10:00:00", "SN-001", "12", "2024-02-01"}, got.Rows[0])
	assert.Equal(t, []string{"2024-03-09", "SN-002", "", ""}, got.Rows[1])
}

func TestCollectDropdownOptions(t *testing.T) {
	labels := make([]string, 20)
	row := func(salesType, state string) []any {
		values := make([]any, 20)
		values[ColOptSalesType] = salesType
		values[ColOptEnquiryState] = state
		return values
	}
	tbl := sheet.NewTable(SheetDropdown, labels,
		row("Sales Type", "State"),
		row("renewal", "Delhi"),
		row("new_sale", " Delhi "),
		row("renewal", ""),
	)

	got, err := CollectDropdownOptions(tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"new_sale", "renewal"}, got["salesType"])
	assert.Equal(t, []string{"Delhi"}, got["enquiryState"])
	assert.Empty(t, got["industryType"])
}

func TestFormatRupees(t *testing.T) {
	assert.Equal(t, "₹1,000", FormatRupees("1000"))
	assert.Equal(t, "₹1,234,567.5", FormatRupees("1234567.5"))
	assert.Equal(t, "₹999", FormatRupees("999"))
	assert.Equal(t, "TBD", FormatRupees("TBD"))
	assert.Equal(t, "", FormatRupees(""))
}

func TestSchema_LabelLookupLastMatchWins(t *testing.T) {
	s := &Schema{Name: "t", Version: 1, MinColumns: 3, Fields: map[string]Field{
		"delay":  ByLabel("delay", KindNumber),
		"status": ByLabel("status", KindText),
		"when":   At(0, KindDate),
	}}
	tbl := sheet.NewTable("x", []string{"Date", "Delay 1", "Delay Days"}, []any{"Date(2024,0,1)", 1, "4"})

	m, err := s.Bind(tbl)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Index("delay"))
	assert.Equal(t, -1, m.Index("status"))

	rec := m.Project(tbl.Rows[0])
	assert.Equal(t, 4.0, rec.Float("delay"))
	assert.Equal(t, "", rec.String("status"))
	assert.Equal(t, "2024-01-01", rec.String("when"))
	assert.Equal(t, []string{"delay", "status", "when"}, rec.Names())
}

func TestLookupUsers(t *testing.T) {
	row := func(name, role, perms, hash string) []any {
		values := make([]any, ColUserPassword+1)
		values[ColUserName], values[ColUserRole] = name, role
		values[ColUserPermissions], values[ColUserPassword] = perms, hash
		return values
	}
	tbl := sheet.NewTable(SheetDropdown, make([]string, ColUserPassword+1),
		row("Username", "Role", "Permissions", "Password"),
		row(" Alice ", "Admin", "all", ""),
		row("", "user", "dashboard", ""),
		row("bob", "", "dashboard,orderStatus", "$2a$10$x"),
	)

	users, err := LookupUsers(tbl)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, LookupUser{RowIndex: 1, Username: "Alice", Role: "admin", Permissions: "all"}, users[0])
	assert.Equal(t, 3, users[1].RowIndex)
	assert.Equal(t, "$2a$10$x", users[1].PasswordHash)

	u, ok := FindUser(users, "  ALICE")
	assert.True(t, ok)
	assert.Equal(t, "Alice", u.Username)

	_, ok = FindUser(users, "carol")
	assert.False(t, ok)
}

func TestLookupUsers_NarrowSheet(t *testing.T) {
	_, err := LookupUsers(sheet.NewTable(SheetDropdown, make([]string, 5)))
	var parseErr *apperrors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}
