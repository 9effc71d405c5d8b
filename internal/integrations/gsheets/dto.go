package gsheets

import "encoding/json"

// queryResponse - то, что лежит внутри конверта эндпоинта запросов.
type queryResponse struct {
	Version string     `json:"version"`
	Status  string     `json:"status"`
	Errors  []apiError `json:"errors"`
	Table   tableDTO   `json:"table"`
}

type apiError struct {
	Reason          string `json:"reason"`
	Message         string `json:"message"`
	DetailedMessage string `json:"detailed_message"`
}

type tableDTO struct {
	Cols []columnDTO `json:"cols"`
	Rows []rowDTO    `json:"rows"`
}

type columnDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

type rowDTO struct {
	C []*cellDTO `json:"c"`
}

// cellDTO: сама ячейка может прийти как null.
type cellDTO struct {
	V json.RawMessage `json:"v"`
	F *string         `json:"f"`
}
