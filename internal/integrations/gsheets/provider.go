package gsheets

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"nbd-crr/internal/integrations"
	"nbd-crr/internal/sheet"
	apperrors "nbd-crr/pkg/errors"
)

const ProviderName = "gviz"

// Provider читает листы через публичный эндпоинт запросов таблицы.
type Provider struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string
	logger        *zap.Logger
}

func New(baseURL, spreadsheetID string, timeout time.Duration, logger *zap.Logger) *Provider {
	return &Provider{
		httpClient:    &http.Client{Timeout: timeout},
		baseURL:       strings.TrimRight(baseURL, "/"),
		spreadsheetID: spreadsheetID,
		logger:        logger.Named("gviz_provider"),
	}
}

var _ integrations.TableProvider = (*Provider)(nil)

func (p *Provider) Name() string {
	return ProviderName
}

// FetchTable: fetch -> конверт -> JSON -> таблица.
func (p *Provider) FetchTable(ctx context.Context, sheetName string) (*sheet.Table, error) {
	raw, err := p.fetchRaw(ctx, sheetName)
	if err != nil {
		p.logger.Warn("Не удалось получить лист", zap.String("sheet", sheetName), zap.Error(err))
		return nil, err
	}

	payload, ok := ExtractEnvelope(raw)
	if !ok {
		p.logger.Warn("В ответе не найден JSON-конверт", zap.String("sheet", sheetName), zap.Int("bytes", len(raw)))
		return nil, &apperrors.ParseError{Sheet: sheetName, Reason: "JSON-конверт не найден"}
	}

	var resp queryResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, &apperrors.ParseError{Sheet: sheetName, Reason: "некорректный JSON", Err: err}
	}
	if resp.Status == "error" {
		reason := "эндпоинт вернул status=error"
		if len(resp.Errors) > 0 {
			reason = resp.Errors[0].Message
		}
		return nil, &apperrors.ParseError{Sheet: sheetName, Reason: reason}
	}

	table, err := mapTable(sheetName, resp.Table)
	if err != nil {
		return nil, &apperrors.ParseError{Sheet: sheetName, Reason: "ячейка не разобрана", Err: err}
	}

	p.logger.Debug("Лист получен",
		zap.String("sheet", sheetName),
		zap.Int("columns", len(table.Columns)),
		zap.Int("rows", len(table.Rows)),
	)
	return table, nil
}
