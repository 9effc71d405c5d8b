package entities

import (
	"encoding/json"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionPending     SubmissionStatus = "pending"
	SubmissionConfirmed   SubmissionStatus = "confirmed"
	SubmissionUnconfirmed SubmissionStatus = "unconfirmed"
	SubmissionFailed      SubmissionStatus = "failed"
)

// Submission - запись журнала отправок формы в таблицу.
type Submission struct {
	ID             uuid.UUID        `json:"id"`
	IdempotencyKey string           `json:"idempotencyKey"`
	Form           string           `json:"form"`
	SheetName      string           `json:"sheetName"`
	EnquiryNo      null.String      `json:"enquiryNo"`
	SubmittedBy    string           `json:"submittedBy"`
	RowData        json.RawMessage  `json:"rowData"`
	FileCount      int              `json:"fileCount"`
	Status         SubmissionStatus `json:"status"`
	Error          null.String      `json:"error"`
	CreatedAt      time.Time        `json:"createdAt"`
	CompletedAt    null.Time        `json:"completedAt"`
}
