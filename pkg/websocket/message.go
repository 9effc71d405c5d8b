package websocket

import "time"

// Envelope - конверт сообщения. Type говорит фронтенду, что делать.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// SheetChangedPayload - в лист дописана строка, открытые таблицы стоит перечитать.
type SheetChangedPayload struct {
	EventID     string   `json:"eventId"`
	Form        string   `json:"form"`
	SheetName   string   `json:"sheetName"`
	EnquiryNo   string   `json:"enquiryNo,omitempty"`
	Actor       string   `json:"actor"`
	Outcome     string   `json:"outcome"`
	Invalidates []string `json:"invalidates"`
}
