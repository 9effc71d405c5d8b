package events

import (
	"time"

	"github.com/google/uuid"
)

const SubmissionSentName = "submission.sent"

// SubmissionSentEvent - строка формы ушла в скрипт таблицы.
type SubmissionSentEvent struct {
	ID        uuid.UUID
	Form      string
	SheetName string
	EnquiryNo string
	Actor     string
	Outcome   string
	SentAt    time.Time
}

func (e SubmissionSentEvent) Name() string {
	return SubmissionSentName
}
