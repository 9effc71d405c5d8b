// Package seeders наполняет мок-провайдер демонстрационной книгой, чтобы
// сервер можно было запустить без доступа к Google Sheets.
package seeders

import (
	"go.uber.org/zap"

	"nbd-crr/internal/integrations/mock"
	"nbd-crr/internal/pipeline"
	"nbd-crr/internal/sheet"
)

const reportWidth = pipeline.ColOrderPendingDays + 1

// SeedWorkbook кладёт в провайдер все листы, которые читает приложение.
func SeedWorkbook(p *mock.MockProvider, logger *zap.Logger) {
	logger.Info("▶️  Наполнение демонстрационной книги")

	seedReport(p)
	seedDropdown(p)
	seedMakeQuotation(p)
	seedOrderStatus(p)
	seedHistories(p)

	logger.Info("✅ Демонстрационная книга готова")
}

type demoEnquiry struct {
	no, company, contact, value, priority string
	// stage - этап, на котором строка ждёт действия
	stage pipeline.Stage
}

var demoEnquiries = []demoEnquiry{
	{"SN-001", "Acme Industries", "Rahul Mehta", "₹1,20,000", "High", pipeline.StageOnCallFollowup},
	{"SN-002", "Globex Pvt Ltd", "Anita Rao", "₹45,000", "Medium", pipeline.StageUpdateQuotation},
	{"SN-003", "Initech", "Vikram Shah", "₹3,00,000", "Low", pipeline.StageQuotationValidation},
	{"SN-004", "Umbrella Labs", "Priya Nair", "₹80,000", "High", pipeline.StageScreenshotUpdate},
	{"SN-005", "Wayne Traders", "Kiran Iyer", "₹60,000", "Medium", pipeline.StageFollowupSteps},
	{"SN-006", "Stark Components", "Arjun Das", "₹2,10,000", "Medium", pipeline.StageOrderStatus},
}

func seedReport(p *mock.MockProvider) {
	labels := make([]string, reportWidth)
	labels[0] = "Timestamp"
	labels[pipeline.ColEnquiryNo] = "Enquiry No"
	labels[pipeline.ColCompanyName] = "Company Name"
	labels[pipeline.ColContactPerson] = "Contact Person"
	labels[pipeline.ColApproximateValue] = "Approximate Value"
	labels[pipeline.ColPriority] = "Priority"

	rows := make([][]any, 0, len(demoEnquiries))
	for _, e := range demoEnquiries {
		row := make([]any, reportWidth)
		row[0] = "Date(2024,0,2,10,30,0)"
		row[pipeline.ColEnquiryNo] = e.no
		row[pipeline.ColCompanyName] = e.company
		row[pipeline.ColContactPerson] = e.contact
		row[pipeline.ColApproximateValue] = e.value
		row[pipeline.ColPriority] = e.priority

		// этапы до текущего закрыты, текущий ждёт
		for _, l := range pipeline.Stages() {
			row[l.Planned] = "Date(2024,0,3)"
			row[l.Delay] = float64(2)
			if l.Stage == e.stage {
				break
			}
			row[l.Actual] = "Date(2024,0,4)"
		}
		rows = append(rows, row)
	}
	p.SetTable(sheet.NewTable(pipeline.SheetReport, labels, rows...))
}

func seedDropdown(p *mock.MockProvider) {
	width := pipeline.ColUserPassword + 1
	header := make([]any, width)
	header[pipeline.ColOptSalesType] = "Sales Type"
	header[pipeline.ColOptEnquiryState] = "State"
	header[pipeline.ColOptSalesCoordinator] = "Sales Coordinator"
	header[pipeline.ColOptIndustryType] = "Industry"
	header[pipeline.ColOptEnquirySource] = "Source"
	header[pipeline.ColUserName] = "Username"
	header[pipeline.ColUserRole] = "Role"
	header[pipeline.ColUserPermissions] = "Permissions"
	header[pipeline.ColUserPassword] = "Password Hash"

	options := [][5]string{
		{"new_sale", "Maharashtra", "Neha Kulkarni", "manufacturing", "website"},
		{"renewal", "Gujarat", "Sanjay Patil", "technology", "referral"},
		{"upsell", "Karnataka", "", "healthcare", "exhibition"},
	}
	// пароль у демо-пользователей общий (AUTH_SHARED_USER_PASSWORD_HASH)
	users := [][3]string{
		{"demo.admin", "admin", "all"},
		{"demo.sales", "user", "dashboard,newEnquiry,onCallFollowup,makeQuotation,updateQuotation"},
		{"demo.ops", "user", "dashboard,quotationValidation,screenshotUpdate,followupSteps,orderStatus"},
	}

	rows := [][]any{header}
	for i := 0; i < len(options) || i < len(users); i++ {
		row := make([]any, width)
		if i < len(options) {
			for j, v := range options[i] {
				row[pipeline.ColOptSalesType+j] = v
			}
		}
		if i < len(users) {
			row[pipeline.ColUserName] = users[i][0]
			row[pipeline.ColUserRole] = users[i][1]
			row[pipeline.ColUserPermissions] = users[i][2]
		}
		rows = append(rows, row)
	}
	p.SetTable(sheet.NewTable(pipeline.SheetDropdown, make([]string, width), rows...))
}

func seedMakeQuotation(p *mock.MockProvider) {
	p.SetTable(sheet.NewTable(pipeline.SheetMakeQuotation, []string{"Timestamp", "Quotation No", "Company"},
		[]any{"Date(2024,0,5,12,0,0)", "IN-NBD-001", "Acme Industries"},
		[]any{"Date(2024,0,6,12,0,0)", "IN-NBD-002", "Globex Pvt Ltd"},
	))
}

func seedOrderStatus(p *mock.MockProvider) {
	width := pipeline.ColOrderHoldReason + 3
	row := func(values map[int]any) []any {
		out := make([]any, width)
		for i, v := range values {
			out[i] = v
		}
		return out
	}
	p.SetTable(sheet.NewTable(pipeline.SheetOrderStatus, make([]string, width),
		row(map[int]any{0: "Timestamp", 1: "Enquiry No", pipeline.ColOrderReceived: "Is Order Received"}),
		row(map[int]any{0: "Date(2024,0,8,9,0,0)", 1: "SN-001", pipeline.ColOrderReceived: "YES"}),
		row(map[int]any{0: "Date(2024,0,9,9,0,0)", 1: "SN-002", pipeline.ColOrderReceived: "NO", pipeline.ColOrderLostReason: "Price too high"}),
		row(map[int]any{0: "Date(2024,0,9,9,0,0)", 1: "SN-003", pipeline.ColOrderReceived: "HOLD", pipeline.ColOrderHoldReason: "Budget freeze"}),
	))
}

// seedHistories: у каждого этапа по одной строке истории. Лист Order Status
// общий с дашбордом и уже заполнен.
func seedHistories(p *mock.MockProvider) {
	for _, l := range pipeline.Stages() {
		if l.HistorySheet == pipeline.SheetOrderStatus {
			continue
		}
		labels := make([]string, l.HistoryWidth)
		labels[0], labels[1] = "Timestamp", "Enquiry No"
		row := make([]any, l.HistoryWidth)
		row[0], row[1] = "Date(2024,0,4,11,15,0)", "SN-001"
		p.SetTable(sheet.NewTable(l.HistorySheet, labels, row))
	}
}
