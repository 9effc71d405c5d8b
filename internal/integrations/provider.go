package integrations

import (
	"context"

	"nbd-crr/internal/sheet"
)

// TableProvider - источник листов таблицы.
type TableProvider interface {
	Name() string
	FetchTable(ctx context.Context, sheetName string) (*sheet.Table, error)
}

// InsertRequest - одна строка для дописывания в лист.
type InsertRequest struct {
	SheetName      string
	RowData        []string
	IdempotencyKey string
	Files          []Attachment
	// MultiFile включает режим hasFiles/fileCount/fileName{i}.
	MultiFile bool
}

// Attachment уже закодирован в base64 data URI.
type Attachment struct {
	Name        string
	MimeType    string
	DataURI     string
	ColumnIndex int
}

type WriteOutcome string

const (
	// OutcomeConfirmed - скрипт вернул {"status":"success"}.
	OutcomeConfirmed WriteOutcome = "confirmed"
	// OutcomeUnconfirmed - ответ получен, но подтверждения в нём нет.
	OutcomeUnconfirmed WriteOutcome = "unconfirmed"
)

// RowWriter - конечная точка записи строк.
type RowWriter interface {
	Insert(ctx context.Context, req InsertRequest) (WriteOutcome, error)
}
