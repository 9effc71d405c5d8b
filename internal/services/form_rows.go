package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"nbd-crr/config"
	"nbd-crr/internal/dto"
	"nbd-crr/internal/pipeline"
	"nbd-crr/pkg/utils"
)

// Формы. Значения совпадают с сегментом пути POST /api/forms/:form.
const (
	FormNewEnquiry          = "new-enquiry"
	FormOnCallFollowup      = "on-call-followup"
	FormUpdateQuotation     = "update-quotation"
	FormQuotationValidation = "quotation-validation"
	FormScreenshotUpdate    = "screenshot-update"
	FormFollowupSteps       = "followup-steps"
	FormOrderStatus         = "order-status"
	FormMakeQuotation       = "make-quotation"
	FormUser                = "user"
)

// FormRow - строка формы до отправки. Build получает зарезервированный
// номер (пустой, если Sequence не задан) и время отправки.
type FormRow struct {
	Form           string
	SheetName      string
	EnquiryNo      string
	IdempotencyKey string
	Sequence       string
	Files          []FileInput
	MultiFile      bool
	Build          func(serial string, now time.Time) []string
}

// FileInput - вложение формы и его вид из config.UploadContexts.
type FileInput struct {
	Kind  string
	Field string
	File  *dto.AttachmentDTO
}

func newEnquiryRow(p dto.NewEnquiryDTO) FormRow {
	return FormRow{
		Form:           FormNewEnquiry,
		SheetName:      pipeline.SheetReport,
		IdempotencyKey: p.IdempotencyKey,
		Sequence:       SequenceEnquiry,
		Build: func(serial string, now time.Time) []string {
			return []string{
				utils.FormatUSDate(now),
				serial,
				p.ReceivedBy,
				p.SalesCoordinator,
				p.EnquiryForState,
				p.EnquiryType,
				p.CompanyName,
				p.ContactPerson,
				p.ContactPhone,
				p.ContactEmail,
				p.ProjectName,
				p.RequirementProductDate,
				p.RequirementProductName,
				p.RequirementProductQty,
				p.ApproximateValue,
				p.SalesSource,
				p.SalesType,
				p.IndustryType,
				p.EnquirySource,
				p.Priority,
				p.AdditionalNotes,
			}
		},
	}
}

func onCallFollowupRow(p dto.OnCallFollowupDTO) FormRow {
	return FormRow{
		Form:           FormOnCallFollowup,
		SheetName:      pipeline.SheetOnCallHistory,
		EnquiryNo:      p.EnquiryNo,
		IdempotencyKey: p.IdempotencyKey,
		Build: func(_ string, now time.Time) []string {
			return []string{
				utils.FormatUSDate(now),
				p.EnquiryNo,
				p.CompanyName,
				p.Reason,
				p.TechnicalRequirement,
				p.DiscussionStatus,
				p.DiscussionRemark,
				p.ResponsiblePerson,
				p.NextDate,
			}
		},
	}
}

func updateQuotationRow(p dto.UpdateQuotationDTO) FormRow {
	return FormRow{
		Form:           FormUpdateQuotation,
		SheetName:      pipeline.SheetQuotationLog,
		EnquiryNo:      p.EnquiryNo,
		IdempotencyKey: p.IdempotencyKey,
		Files:          []FileInput{{Kind: config.UploadQuotationFile, Field: "quotationFile", File: p.QuotationFile}},
		Build: func(_ string, now time.Time) []string {
			return []string{
				utils.FormatDMY(now),
				p.EnquiryNo,
				p.QuotationNumber,
				p.SendQuotationNo,
				p.QuotationSharedBy,
				p.ValueWithoutTax,
				p.ValueWithTax,
				p.Remarks,
			}
		},
	}
}

func checked(ok bool, label string) string {
	if ok {
		return label
	}
	return ""
}

func quotationValidationRow(p dto.QuotationValidationDTO) FormRow {
	return FormRow{
		Form:           FormQuotationValidation,
		SheetName:      pipeline.SheetValidationLog,
		EnquiryNo:      p.EnquiryNo,
		IdempotencyKey: p.IdempotencyKey,
		Build: func(_ string, now time.Time) []string {
			return []string{
				utils.FormatDMY(now),
				p.EnquiryNo,
				p.QuotationNumber,
				p.ValidatorName,
				p.SendStatus,
				p.ValidationRemark,
				checked(p.FAQVideo, "FAQ Video"),
				checked(p.ProductVideo, "Product Video"),
				checked(p.OfferVideo, "Offer Video"),
				checked(p.ProductCatalogue, "Product Catalogue"),
				checked(p.ProductImage, "Product Image"),
			}
		},
	}
}

func screenshotUpdateRow(p dto.ScreenshotUpdateDTO) FormRow {
	return FormRow{
		Form:           FormScreenshotUpdate,
		SheetName:      pipeline.SheetScreenshotLog,
		EnquiryNo:      p.EnquiryNo,
		IdempotencyKey: p.IdempotencyKey,
		Files:          []FileInput{{Kind: config.UploadScreenshot, Field: "screenshot", File: p.Screenshot}},
		Build: func(_ string, now time.Time) []string {
			return []string{utils.FormatDMY(now), p.EnquiryNo, p.QuotationNumber}
		},
	}
}

// Коды из выпадающих списков формы шагов и их подписи в листе.
var (
	followupPersons = map[string]string{
		"rahul": "Rahul Sharma",
		"priya": "Priya Patel",
		"amit":  "Amit Singh",
		"neha":  "Neha Gupta",
	}
	followupStatuses = map[string]string{
		"pending":     "Pending",
		"in_progress": "In Progress",
		"completed":   "Completed",
		"delayed":     "Delayed",
		"cancelled":   "Cancelled",
	}
	followupStages = map[string]string{
		"initial_contact":  "Initial Contact",
		"needs_assessment": "Needs Assessment",
		"proposal_sent":    "Proposal Sent",
		"negotiation":      "Negotiation",
		"closing":          "Closing",
	}
)

// label: неизвестный код уходит в лист как есть.
func label(m map[string]string, code string) string {
	if v, ok := m[code]; ok {
		return v
	}
	return code
}

func followupStepsRow(p dto.FollowupStepsDTO) FormRow {
	return FormRow{
		Form:           FormFollowupSteps,
		SheetName:      pipeline.SheetFollowupLog,
		EnquiryNo:      p.EnquiryNo,
		IdempotencyKey: p.IdempotencyKey,
		Build: func(_ string, now time.Time) []string {
			return []string{
				utils.FormatDMY(now),
				p.EnquiryNo,
				p.QuotationNumber,
				label(followupPersons, p.ResponsiblePerson),
				label(followupStatuses, p.Status),
				label(followupStages, p.FollowupStage),
				utils.ReformatISODate(p.NextFollowupPlanDate),
				p.Remarks,
			}
		},
	}
}

func orderStatusRow(p dto.OrderStatusDTO) FormRow {
	yes, no, hold := p.OrderReceivedStatus == "YES", p.OrderReceivedStatus == "NO", p.OrderReceivedStatus == "HOLD"

	// Файлы уходят, только если подходят к выбранному статусу.
	var files []FileInput
	if yes {
		files = append(files,
			FileInput{Kind: config.UploadOrderVideo, Field: "orderVideo", File: p.OrderVideo},
			FileInput{Kind: config.UploadAcceptanceFile, Field: "acceptanceFile", File: p.AcceptanceFile},
		)
	}
	if no {
		files = append(files, FileInput{Kind: config.UploadOrderLostVideo, Field: "orderLostVideo", File: p.OrderLostVideo})
	}

	when := func(ok bool, v string) string {
		if ok {
			return v
		}
		return ""
	}

	return FormRow{
		Form:           FormOrderStatus,
		SheetName:      pipeline.SheetOrderStatusLog,
		EnquiryNo:      p.EnquiryNo,
		IdempotencyKey: p.IdempotencyKey,
		Files:          files,
		MultiFile:      true,
		Build: func(_ string, now time.Time) []string {
			return []string{
				utils.FormatDMY(now),
				p.EnquiryNo,
				p.QuotationNumber,
				p.OrderReceivedStatus,
				when(yes, p.AcceptanceVia),
				when(yes, p.PaymentMode),
				when(yes, p.PaymentTerms),
				"", // H: ссылка на видео заказа
				"", // I: ссылка на файл подтверждения
				when(yes, p.AcceptanceRemark),
				"", // K: ссылка на видео проигрыша
				when(no, p.OrderLostReason),
				when(no, p.OrderLostRemark),
				when(hold, p.HoldReasonCategory),
				when(hold, utils.ReformatISODate(p.HoldingDate)),
				when(hold, p.HoldRemark),
			}
		},
	}
}

// QuotationTotals: amount = qty*rate, налоги от суммы позиций.
func QuotationTotals(p dto.MakeQuotationDTO) dto.QuotationTotalsDTO {
	var subtotal float64
	for _, item := range p.Items {
		subtotal += item.Qty * item.Rate
	}
	cgst := subtotal * p.CGSTRate / 100
	sgst := subtotal * p.SGSTRate / 100
	return dto.QuotationTotalsDTO{
		Subtotal:   round2(subtotal),
		CGSTAmount: round2(cgst),
		SGSTAmount: round2(sgst),
		Total:      round2(subtotal + cgst + sgst),
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func makeQuotationRow(p dto.MakeQuotationDTO, totals dto.QuotationTotalsDTO) FormRow {
	return FormRow{
		Form:           FormMakeQuotation,
		SheetName:      pipeline.SheetMakeQuotation,
		IdempotencyKey: p.IdempotencyKey,
		Sequence:       SequenceQuotation,
		Build: func(serial string, now time.Time) []string {
			date := strings.TrimSpace(p.Date)
			if date == "" {
				date = utils.FormatDMY(now)
			}
			return []string{
				utils.FormatDMYTime(now),
				serial,
				date,
				p.PreparedBy,
				p.ConsignorName,
				p.ConsignorAddress,
				p.ConsignorMobile,
				p.ConsignorGSTIN,
				p.ConsignorStateCode,
				p.ConsigneeName,
				p.ConsigneeAddress,
				p.ConsigneeState,
				p.ConsigneeContactName,
				p.ConsigneeContactNo,
				p.ConsigneeGSTIN,
				p.ConsigneeStateCode,
				p.MSMENumber,
				fmt.Sprintf("%.2f", totals.Total),
				p.PDFURL,
				p.AccountNo,
				p.BankName,
				p.BankAddress,
				p.IFSCCode,
				p.Email,
				p.Website,
				p.PAN,
			}
		},
	}
}

// userRow - строка справочника: колонки 0-15 пустые, дальше имя, роль,
// права и хэш пароля.
func userRow(p dto.CreateUserDTO, passwordHash string) FormRow {
	return FormRow{
		Form:           FormUser,
		SheetName:      pipeline.SheetDropdown,
		IdempotencyKey: p.IdempotencyKey,
		Build: func(string, time.Time) []string {
			cells := make([]string, pipeline.ColUserPassword+1)
			cells[pipeline.ColUserName] = strings.TrimSpace(p.Username)
			cells[pipeline.ColUserRole] = p.Role
			cells[pipeline.ColUserPermissions] = strings.Join(p.Permissions, ",")
			cells[pipeline.ColUserPassword] = passwordHash
			return cells
		},
	}
}
