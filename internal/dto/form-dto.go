package dto

// SubmitMeta есть в каждой форме. Пустой ключ сервер сгенерирует сам,
// но тогда повторная отправка не распознается.
type SubmitMeta struct {
	IdempotencyKey string `json:"idempotencyKey,omitempty" validate:"omitempty,max=100"`
}

// AttachmentDTO - файл из формы в виде data URI (как readAsDataURL).
type AttachmentDTO struct {
	FileName string `json:"fileName" validate:"required,max=255"`
	DataURI  string `json:"dataUri" validate:"required"`
}

type NewEnquiryDTO struct {
	SubmitMeta
	ReceivedBy             string `json:"receivedBy" validate:"required"`
	SalesCoordinator       string `json:"salesCoordinator" validate:"required"`
	EnquiryForState        string `json:"enquiryForState" validate:"required"`
	EnquiryType            string `json:"enquiryType" validate:"required"`
	CompanyName            string `json:"companyName" validate:"required"`
	ContactPerson          string `json:"contactPerson" validate:"required"`
	ContactPhone           string `json:"contactPhone" validate:"required"`
	ContactEmail           string `json:"contactEmail" validate:"required,email"`
	ProjectName            string `json:"projectName"`
	RequirementProductDate string `json:"requirementProductDate"`
	RequirementProductName string `json:"requirementProductName"`
	RequirementProductQty  string `json:"requirementProductQty"`
	ApproximateValue       string `json:"approximateValue"`
	SalesSource            string `json:"salesSource" validate:"required"`
	SalesType              string `json:"salesType" validate:"required"`
	IndustryType           string `json:"industryType" validate:"required"`
	EnquirySource          string `json:"enquirySource" validate:"required"`
	Priority               string `json:"priority" validate:"required,priority"`
	AdditionalNotes        string `json:"additionalNotes"`
}

type OnCallFollowupDTO struct {
	SubmitMeta
	EnquiryNo            string `json:"enquiryNo" validate:"required,enquiry_no"`
	CompanyName          string `json:"companyName" validate:"required"`
	Reason               string `json:"reason" validate:"required"`
	TechnicalRequirement string `json:"technicalRequirement"`
	DiscussionStatus     string `json:"discussionStatus" validate:"required"`
	DiscussionRemark     string `json:"discussionRemark"`
	ResponsiblePerson    string `json:"responsiblePerson" validate:"required"`
	NextDate             string `json:"nextDate" validate:"required"`
}

type UpdateQuotationDTO struct {
	SubmitMeta
	EnquiryNo         string         `json:"enquiryNo" validate:"required,enquiry_no"`
	QuotationNumber   string         `json:"quotationNumber" validate:"required"`
	SendQuotationNo   string         `json:"sendQuotationNo" validate:"required"`
	QuotationSharedBy string         `json:"quotationSharedBy" validate:"required"`
	ValueWithoutTax   string         `json:"valueWithoutTax" validate:"required"`
	ValueWithTax      string         `json:"valueWithTax" validate:"required"`
	Remarks           string         `json:"remarks"`
	QuotationFile     *AttachmentDTO `json:"quotationFile,omitempty"`
}

type QuotationValidationDTO struct {
	SubmitMeta
	EnquiryNo        string `json:"enquiryNo" validate:"omitempty,enquiry_no"`
	QuotationNumber  string `json:"quotationNumber" validate:"required"`
	ValidatorName    string `json:"quotationValidatorName" validate:"required"`
	SendStatus       string `json:"quotationSendStatus" validate:"required"`
	ValidationRemark string `json:"validationRemark"`
	FAQVideo         bool   `json:"faqVideo"`
	ProductVideo     bool   `json:"productVideo"`
	OfferVideo       bool   `json:"offerVideo"`
	ProductCatalogue bool   `json:"productCatalogue"`
	ProductImage     bool   `json:"productImage"`
}

type ScreenshotUpdateDTO struct {
	SubmitMeta
	EnquiryNo       string         `json:"enquiryNo" validate:"required,enquiry_no"`
	QuotationNumber string         `json:"quotationNumber" validate:"required"`
	Screenshot      *AttachmentDTO `json:"screenshot,omitempty"`
}

type FollowupStepsDTO struct {
	SubmitMeta
	EnquiryNo            string `json:"enquiryNo" validate:"required,enquiry_no"`
	QuotationNumber      string `json:"quotationNumber" validate:"required"`
	ResponsiblePerson    string `json:"responsiblePerson" validate:"required"`
	Status               string `json:"quoFUStatus" validate:"required"`
	FollowupStage        string `json:"followupStage" validate:"required"`
	NextFollowupPlanDate string `json:"nextFollowupPlanDate" validate:"required"`
	Remarks              string `json:"remarks"`
}

// OrderStatusDTO: обязательность полей зависит от статуса, поэтому
// required_if вместо required.
type OrderStatusDTO struct {
	SubmitMeta
	EnquiryNo           string `json:"enquiryNo" validate:"required,enquiry_no"`
	QuotationNumber     string `json:"quotationNumber" validate:"required"`
	OrderReceivedStatus string `json:"orderReceivedStatus" validate:"required,order_received_status"`

	AcceptanceVia    string `json:"acceptanceVia" validate:"required_if=OrderReceivedStatus YES"`
	PaymentMode      string `json:"paymentMode" validate:"required_if=OrderReceivedStatus YES"`
	PaymentTerms     string `json:"paymentTerms" validate:"required_if=OrderReceivedStatus YES"`
	AcceptanceRemark string `json:"acceptanceRemark" validate:"required_if=OrderReceivedStatus YES"`

	OrderLostReason string `json:"orderLostReason" validate:"required_if=OrderReceivedStatus NO"`
	OrderLostRemark string `json:"orderLostRemark" validate:"required_if=OrderReceivedStatus NO"`

	HoldReasonCategory string `json:"holdReasonCategory" validate:"required_if=OrderReceivedStatus HOLD"`
	HoldingDate        string `json:"holdingDate" validate:"required_if=OrderReceivedStatus HOLD"`
	HoldRemark         string `json:"holdRemark" validate:"required_if=OrderReceivedStatus HOLD"`

	OrderVideo     *AttachmentDTO `json:"orderVideo,omitempty"`
	AcceptanceFile *AttachmentDTO `json:"acceptanceFile,omitempty"`
	OrderLostVideo *AttachmentDTO `json:"orderLostVideo,omitempty"`
}

type QuotationItemDTO struct {
	Code  string  `json:"code"`
	Name  string  `json:"name" validate:"required"`
	GST   float64 `json:"gst" validate:"gte=0"`
	Qty   float64 `json:"qty" validate:"gt=0"`
	Units string  `json:"units"`
	Rate  float64 `json:"rate" validate:"gte=0"`
}

type MakeQuotationDTO struct {
	SubmitMeta
	Date       string `json:"date"`
	PreparedBy string `json:"preparedBy"`

	ConsignorName      string `json:"consignorName"`
	ConsignorAddress   string `json:"consignorAddress"`
	ConsignorMobile    string `json:"consignorMobile"`
	ConsignorGSTIN     string `json:"consignorGSTIN"`
	ConsignorStateCode string `json:"consignorStateCode"`

	ConsigneeName        string `json:"consigneeName" validate:"required"`
	ConsigneeAddress     string `json:"consigneeAddress"`
	ConsigneeState       string `json:"consigneeState"`
	ConsigneeContactName string `json:"consigneeContactName"`
	ConsigneeContactNo   string `json:"consigneeContactNo"`
	ConsigneeGSTIN       string `json:"consigneeGSTIN"`
	ConsigneeStateCode   string `json:"consigneeStateCode"`
	MSMENumber           string `json:"msmeNumber"`

	Items    []QuotationItemDTO `json:"items" validate:"required,min=1,dive"`
	CGSTRate float64            `json:"cgstRate" validate:"gte=0"`
	SGSTRate float64            `json:"sgstRate" validate:"gte=0"`
	PDFURL   string             `json:"pdfUrl"`

	AccountNo   string `json:"accountNo"`
	BankName    string `json:"bankName"`
	BankAddress string `json:"bankAddress"`
	IFSCCode    string `json:"ifscCode"`
	Email       string `json:"email" validate:"omitempty,email"`
	Website     string `json:"website"`
	PAN         string `json:"pan"`
}

// QuotationTotalsDTO - расчёт по позициям, отдаётся вместе с номером.
type QuotationTotalsDTO struct {
	Subtotal   float64 `json:"subtotal"`
	CGSTAmount float64 `json:"cgstAmount"`
	SGSTAmount float64 `json:"sgstAmount"`
	Total      float64 `json:"total"`
}

// SubmitResultDTO - ответ на отправку любой формы.
type SubmitResultDTO struct {
	SubmissionID   string              `json:"submissionId"`
	IdempotencyKey string              `json:"idempotencyKey"`
	SheetName      string              `json:"sheetName"`
	Outcome        string              `json:"outcome"`
	Duplicate      bool                `json:"duplicate"`
	Serial         string              `json:"serial,omitempty"`
	Totals         *QuotationTotalsDTO `json:"totals,omitempty"`
}
