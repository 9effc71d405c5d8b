package pipeline

// Листы таблицы.
const (
	SheetReport         = "REPORT"
	SheetDropdown       = "DROPDOWN"
	SheetMakeQuotation  = "Make Quotation"
	SheetOrderStatus    = "Order Status"
	SheetOnCallHistory  = "On Call Folloup and Technical Requiement"
	SheetQuotationLog   = "Quotation Update"
	SheetValidationLog  = "Quotation Validation"
	SheetScreenshotLog  = "Screenshot Update"
	SheetFollowupLog    = "Followup Step"
	SheetOrderStatusLog = SheetOrderStatus
)

// Колонки REPORT, общие для всех этапов.
const (
	ColEnquiryNo        = 1  // B
	ColCompanyName      = 6  // G
	ColContactPerson    = 7  // H
	ColApproximateValue = 14 // O
	ColPriority         = 19 // T
	ColQuotationNote    = 31 // AF
	ColQuotationNumber  = 32 // AG
	ColOrderPendingDays = 65 // BN
)

type Stage string

const (
	StageOnCallFollowup      Stage = "on-call-followup"
	StageUpdateQuotation     Stage = "update-quotation"
	StageQuotationValidation Stage = "quotation-validation"
	StageScreenshotUpdate    Stage = "screenshot-update"
	StageFollowupSteps       Stage = "followup-steps"
	StageOrderStatus         Stage = "order-status"
)

// StageLayout - колонки этапа в REPORT и лист его истории.
// Каждый этап занимает блок из 8 колонок: planned, actual, ..., delay (+5), ..., status (+7).
type StageLayout struct {
	Stage   Stage
	Title   string
	Flag    string
	Planned int
	Actual  int
	Delay   int
	Status  int
	// PendingDays >= 0: отдельная колонка "дней в ожидании", delay - запасной вариант.
	PendingDays int
	// KeepBlankEnquiry: строка без номера заявки не отбрасывается, а получает "Row-N".
	KeepBlankEnquiry bool
	HistorySheet     string
	HistoryWidth     int
}

func (l StageLayout) FormLink() string {
	return "/forms/" + string(l.Stage)
}

func block(stage Stage, title, flag string, planned int, historySheet string, historyWidth int) StageLayout {
	return StageLayout{
		Stage:        stage,
		Title:        title,
		Flag:         flag,
		Planned:      planned,
		Actual:       planned + 1,
		Delay:        planned + 5,
		Status:       planned + 7,
		PendingDays:  -1,
		HistorySheet: historySheet,
		HistoryWidth: historyWidth,
	}
}

var stageLayouts = func() []StageLayout {
	onCall := block(StageOnCallFollowup, "On Call Followup", "onCallFollowup", 21, SheetOnCallHistory, 9)
	onCall.KeepBlankEnquiry = true

	order := block(StageOrderStatus, "Order Status", "orderStatus", 61, SheetOrderStatusLog, 16)
	order.PendingDays = ColOrderPendingDays

	return []StageLayout{
		onCall,
		block(StageUpdateQuotation, "Update Quotation", "updateQuotation", 29, SheetQuotationLog, 9),
		block(StageQuotationValidation, "Quotation Validation", "quotationValidation", 37, SheetValidationLog, 11),
		block(StageScreenshotUpdate, "Screenshot Update", "screenshotUpdate", 45, SheetScreenshotLog, 4),
		block(StageFollowupSteps, "Followup Steps", "followupSteps", 53, SheetFollowupLog, 8),
		order,
	}
}()

// Stages возвращает этапы в порядке воронки.
func Stages() []StageLayout {
	out := make([]StageLayout, len(stageLayouts))
	copy(out, stageLayouts)
	return out
}

func LayoutOf(stage Stage) (StageLayout, bool) {
	for _, l := range stageLayouts {
		if l.Stage == stage {
			return l, true
		}
	}
	return StageLayout{}, false
}

// ReportSchema - раскладка листа REPORT. Последняя обязательная колонка -
// actual последнего этапа; delay, status и pending days могут отсутствовать.
var ReportSchema = func() *Schema {
	fields := map[string]Field{
		"enquiryNo":        At(ColEnquiryNo, KindText),
		"companyName":      At(ColCompanyName, KindText),
		"contactPerson":    At(ColContactPerson, KindText),
		"approximateValue": At(ColApproximateValue, KindText),
		"priority":         At(ColPriority, KindText),
		"quotationNote":    At(ColQuotationNote, KindText),
		"quotationNumber":  At(ColQuotationNumber, KindText),
	}
	minCols := 0
	for _, l := range stageLayouts {
		if l.Actual+1 > minCols {
			minCols = l.Actual + 1
		}
	}
	return &Schema{Name: "report", Version: 1, Sheet: SheetReport, MinColumns: minCols, Fields: fields}
}()

// Колонки листа "Order Status".
const (
	ColOrderReceived   = 3
	ColOrderLostReason = 11
	ColOrderHoldReason = 13
)

var OrderStatusSchema = &Schema{
	Name: "order-status", Version: 1, Sheet: SheetOrderStatus, MinColumns: ColOrderHoldReason + 1,
	Fields: map[string]Field{
		"enquiryNo":  At(1, KindText),
		"received":   At(ColOrderReceived, KindText),
		"lostReason": At(ColOrderLostReason, KindText),
		"holdReason": At(ColOrderHoldReason, KindText),
	},
}

var MakeQuotationSchema = &Schema{
	Name: "make-quotation", Version: 1, Sheet: SheetMakeQuotation, MinColumns: 2,
	Fields: map[string]Field{
		"quotationNo": At(1, KindText),
	},
}

// Колонки DROPDOWN: списки выбора и справочник пользователей.
const (
	ColOptSalesType        = 10
	ColOptEnquiryState     = 11
	ColOptSalesCoordinator = 12
	ColOptIndustryType     = 13
	ColOptEnquirySource    = 14

	ColUserName        = 16
	ColUserRole        = 17
	ColUserPermissions = 18
	ColUserPassword    = 19
)

var DropdownOptionsSchema = &Schema{
	Name: "dropdown-options", Version: 1, Sheet: SheetDropdown, MinColumns: ColOptEnquirySource + 1,
	Fields: map[string]Field{
		"salesType":        At(ColOptSalesType, KindText),
		"enquiryState":     At(ColOptEnquiryState, KindText),
		"salesCoordinator": At(ColOptSalesCoordinator, KindText),
		"industryType":     At(ColOptIndustryType, KindText),
		"enquirySource":    At(ColOptEnquirySource, KindText),
	},
}

var UserLookupSchema = &Schema{
	Name: "user-lookup", Version: 1, Sheet: SheetDropdown, MinColumns: ColUserPermissions + 1,
	Fields: map[string]Field{
		"username":     At(ColUserName, KindText),
		"role":         At(ColUserRole, KindText),
		"permissions":  At(ColUserPermissions, KindText),
		"passwordHash": At(ColUserPassword, KindText),
	},
}
