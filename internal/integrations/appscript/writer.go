package appscript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"nbd-crr/internal/integrations"
)

// maxAckBytes - больше этого тело ответа не читается: подтверждение короткое.
const maxAckBytes = 64 << 10

// Writer дописывает строки в листы через веб-скрипт таблицы.
type Writer struct {
	httpClient *http.Client
	scriptURL  string
	logger     *zap.Logger
}

func New(scriptURL string, timeout time.Duration, logger *zap.Logger) *Writer {
	return &Writer{
		httpClient: &http.Client{Timeout: timeout},
		scriptURL:  scriptURL,
		logger:     logger.Named("appscript_writer"),
	}
}

var _ integrations.RowWriter = (*Writer)(nil)

type ackResponse struct {
	Status string `json:"status"`
}

// Insert отправляет multipart-форму. Любой HTTP-ответ означает, что запись
// отправлена; подтверждённой она считается только при {"status":"success"}.
// Если основной запрос не дошёл, делается одна попытка urlencoded-формой.
func (w *Writer) Insert(ctx context.Context, req integrations.InsertRequest) (integrations.WriteOutcome, error) {
	fields, err := buildFields(req)
	if err != nil {
		return "", err
	}
	log := w.logger.With(
		zap.String("sheet", req.SheetName),
		zap.String("idempotency_key", req.IdempotencyKey),
		zap.Int("files", len(req.Files)),
	)

	outcome, err := w.postMultipart(ctx, fields)
	if err == nil {
		log.Info("Строка отправлена", zap.String("outcome", string(outcome)))
		return outcome, nil
	}
	if ctx.Err() != nil {
		return "", fmt.Errorf("отправка прервана: %w", ctx.Err())
	}
	log.Warn("Основная отправка не прошла, пробуем urlencoded", zap.Error(err))

	outcome, fallbackErr := w.postURLEncoded(ctx, fields)
	if fallbackErr != nil {
		log.Error("Строка не отправлена", zap.NamedError("primary", err), zap.NamedError("fallback", fallbackErr))
		return "", fmt.Errorf("скрипт недоступен: %w", fallbackErr)
	}
	log.Info("Строка отправлена запасным путём", zap.String("outcome", string(outcome)))
	return outcome, nil
}

func (w *Writer) postMultipart(ctx context.Context, fields []field) (integrations.WriteOutcome, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range fields {
		if err := mw.WriteField(f.key, f.value); err != nil {
			return "", fmt.Errorf("ошибка сборки multipart: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("ошибка сборки multipart: %w", err)
	}
	return w.post(ctx, &body, mw.FormDataContentType())
}

func (w *Writer) postURLEncoded(ctx context.Context, fields []field) (integrations.WriteOutcome, error) {
	values := url.Values{}
	for _, f := range fields {
		values.Add(f.key, f.value)
	}
	return w.post(ctx, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func (w *Writer) post(ctx context.Context, body io.Reader, contentType string) (integrations.WriteOutcome, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.scriptURL, body)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := w.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		w.logger.Warn("Скрипт ответил не-2xx", zap.Int("status", resp.StatusCode))
		return integrations.OutcomeUnconfirmed, nil
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxAckBytes))
	if err != nil {
		return integrations.OutcomeUnconfirmed, nil
	}
	return parseAck(raw), nil
}

func parseAck(raw []byte) integrations.WriteOutcome {
	var ack ackResponse
	if err := json.Unmarshal(bytes.TrimSpace(raw), &ack); err != nil {
		return integrations.OutcomeUnconfirmed
	}
	if strings.EqualFold(ack.Status, "success") {
		return integrations.OutcomeConfirmed
	}
	return integrations.OutcomeUnconfirmed
}
