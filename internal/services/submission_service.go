package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nbd-crr/config"
	"nbd-crr/internal/dto"
	"nbd-crr/internal/entities"
	"nbd-crr/internal/events"
	"nbd-crr/internal/integrations"
	"nbd-crr/internal/repositories"
	apperrors "nbd-crr/pkg/errors"
	"nbd-crr/pkg/eventbus"
	"nbd-crr/pkg/utils"
	"nbd-crr/pkg/validation"
)

// Сколько помнить ключ идемпотентности после отправки.
const submissionKeyTTL = 24 * time.Hour

const submissionInFlight = "pending"

type SubmissionServiceInterface interface {
	SubmitNewEnquiry(ctx context.Context, payload dto.NewEnquiryDTO) (*dto.SubmitResultDTO, error)
	SubmitOnCallFollowup(ctx context.Context, payload dto.OnCallFollowupDTO) (*dto.SubmitResultDTO, error)
	SubmitUpdateQuotation(ctx context.Context, payload dto.UpdateQuotationDTO) (*dto.SubmitResultDTO, error)
	SubmitQuotationValidation(ctx context.Context, payload dto.QuotationValidationDTO) (*dto.SubmitResultDTO, error)
	SubmitScreenshotUpdate(ctx context.Context, payload dto.ScreenshotUpdateDTO) (*dto.SubmitResultDTO, error)
	SubmitFollowupSteps(ctx context.Context, payload dto.FollowupStepsDTO) (*dto.SubmitResultDTO, error)
	SubmitOrderStatus(ctx context.Context, payload dto.OrderStatusDTO) (*dto.SubmitResultDTO, error)
	SubmitMakeQuotation(ctx context.Context, payload dto.MakeQuotationDTO) (*dto.SubmitResultDTO, error)
	// Submit отправляет уже собранную строку.
	Submit(ctx context.Context, row FormRow) (*dto.SubmitResultDTO, error)
	Recent(ctx context.Context, form string, limit uint64) ([]entities.Submission, error)
}

// Validator - то же, что echo.Validator.
type Validator interface {
	Validate(i interface{}) error
}

type SubmissionService struct {
	writer    integrations.RowWriter
	journal   repositories.SubmissionRepositoryInterface
	cache     repositories.CacheRepositoryInterface
	sequences SequenceServiceInterface
	validator Validator
	bus       *eventbus.Bus
	logger    *zap.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

func NewSubmissionService(
	writer integrations.RowWriter,
	journal repositories.SubmissionRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	sequences SequenceServiceInterface,
	validator Validator,
	bus *eventbus.Bus,
	logger *zap.Logger,
) SubmissionServiceInterface {
	return &SubmissionService{
		writer:    writer,
		journal:   journal,
		cache:     cache,
		sequences: sequences,
		validator: validator,
		bus:       bus,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.New,
	}
}

func (s *SubmissionService) SubmitNewEnquiry(ctx context.Context, payload dto.NewEnquiryDTO) (*dto.SubmitResultDTO, error) {
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}
	return s.Submit(ctx, newEnquiryRow(payload))
}

func (s *SubmissionService) SubmitOnCallFollowup(ctx context.Context, payload dto.OnCallFollowupDTO) (*dto.SubmitResultDTO, error) {
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}
	return s.Submit(ctx, onCallFollowupRow(payload))
}

func (s *SubmissionService) SubmitUpdateQuotation(ctx context.Context, payload dto.UpdateQuotationDTO) (*dto.SubmitResultDTO, error) {
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}
	return s.Submit(ctx, updateQuotationRow(payload))
}

func (s *SubmissionService) SubmitQuotationValidation(ctx context.Context, payload dto.QuotationValidationDTO) (*dto.SubmitResultDTO, error) {
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}
	return s.Submit(ctx, quotationValidationRow(payload))
}

func (s *SubmissionService) SubmitScreenshotUpdate(ctx context.Context, payload dto.ScreenshotUpdateDTO) (*dto.SubmitResultDTO, error) {
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}
	return s.Submit(ctx, screenshotUpdateRow(payload))
}

func (s *SubmissionService) SubmitFollowupSteps(ctx context.Context, payload dto.FollowupStepsDTO) (*dto.SubmitResultDTO, error) {
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}
	return s.Submit(ctx, followupStepsRow(payload))
}

func (s *SubmissionService) SubmitOrderStatus(ctx context.Context, payload dto.OrderStatusDTO) (*dto.SubmitResultDTO, error) {
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}
	return s.Submit(ctx, orderStatusRow(payload))
}

func (s *SubmissionService) SubmitMakeQuotation(ctx context.Context, payload dto.MakeQuotationDTO) (*dto.SubmitResultDTO, error) {
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}
	totals := QuotationTotals(payload)
	res, err := s.Submit(ctx, makeQuotationRow(payload, totals))
	if err != nil {
		return nil, err
	}
	res.Totals = &totals
	return res, nil
}

// encodeFiles проверяет вложения по содержимому и перекодирует их с
// настоящим MIME-типом. Ошибки собираются как ошибки полей формы.
func encodeFiles(inputs []FileInput) ([]integrations.Attachment, error) {
	var out []integrations.Attachment
	fields := map[string]string{}

	for _, in := range inputs {
		if in.File == nil {
			continue
		}
		data, err := validation.DecodeDataURI(in.File.DataURI)
		if err != nil {
			fields[in.Field] = err.Error()
			continue
		}
		mime, err := validation.ValidateAttachment(in.Kind, data)
		if err != nil {
			fields[in.Field] = err.Error()
			continue
		}
		out = append(out, integrations.Attachment{
			Name:        in.File.FileName,
			MimeType:    mime,
			DataURI:     validation.EncodeDataURI(mime, data),
			ColumnIndex: config.UploadContexts[in.Kind].ColumnIndex,
		})
	}

	if len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}
	return out, nil
}

func idempotencyKey(key string) string {
	return "submission:" + key
}

// claimKey занимает ключ идемпотентности. Если ключ уже занят и по нему
// известен итог, возвращается этот итог.
func (s *SubmissionService) claimKey(ctx context.Context, key string) (*dto.SubmitResultDTO, error) {
	ok, err := s.cache.SetNX(ctx, idempotencyKey(key), submissionInFlight, submissionKeyTTL)
	if err != nil {
		s.logger.Warn("SubmissionService: кеш недоступен, отправка без защиты от повтора",
			zap.String("idempotency_key", key), zap.Error(err))
		return nil, nil
	}
	if ok {
		return nil, nil
	}

	outcome, err := s.cache.Get(ctx, idempotencyKey(key))
	if err != nil || outcome == submissionInFlight {
		return nil, apperrors.ErrDuplicateSubmit
	}

	res := &dto.SubmitResultDTO{IdempotencyKey: key, Outcome: outcome, Duplicate: true}
	if prev, err := s.journal.FindByIdempotencyKey(ctx, key); err == nil {
		res.SubmissionID = prev.ID.String()
		res.SheetName = prev.SheetName
		res.Serial = prev.EnquiryNo.String
	}
	return res, nil
}

func (s *SubmissionService) Submit(ctx context.Context, row FormRow) (*dto.SubmitResultDTO, error) {
	key := row.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}
	logger := s.logger.With(
		zap.String("form", row.Form),
		zap.String("sheet", row.SheetName),
		zap.String("idempotency_key", key),
		zap.String("user", utils.ActorName(ctx)),
	)

	files, err := encodeFiles(row.Files)
	if err != nil {
		return nil, err
	}

	prev, err := s.claimKey(ctx, key)
	if err != nil {
		logger.Warn("Повторная отправка, пока первая ещё идёт")
		return nil, err
	}
	if prev != nil {
		logger.Info("Повторная отправка, отдаём прежний итог", zap.String("outcome", prev.Outcome))
		return prev, nil
	}
	release := func() { _ = s.cache.Del(ctx, idempotencyKey(key)) }

	var serial string
	if row.Sequence != "" {
		if serial, err = s.sequences.Reserve(ctx, row.Sequence); err != nil {
			release()
			return nil, err
		}
	}

	enquiryNo := row.EnquiryNo
	if row.Sequence == SequenceEnquiry {
		enquiryNo = serial
	}

	now := s.now()
	cells := row.Build(serial, now)
	rowJSON, _ := json.Marshal(cells)

	submission := &entities.Submission{
		ID:             s.newID(),
		IdempotencyKey: key,
		Form:           row.Form,
		SheetName:      row.SheetName,
		EnquiryNo:      null.NewString(enquiryNo, enquiryNo != ""),
		SubmittedBy:    utils.ActorName(ctx),
		RowData:        rowJSON,
		FileCount:      len(files),
		Status:         entities.SubmissionPending,
	}
	if err := s.journal.Create(ctx, submission); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicateSubmit) {
			logger.Error("Журнал отправок недоступен, пишем без него", zap.Error(err))
		} else {
			prev, err := s.journal.FindByIdempotencyKey(ctx, key)
			switch {
			case err == nil && prev.Status == entities.SubmissionFailed:
				// прошлая попытка не дошла до листа, пишем под её записью
				submission.ID = prev.ID
			case err == nil && prev.Status != entities.SubmissionPending:
				s.sequences.Release(ctx, serial)
				logger.Info("Ключ уже в журнале, отдаём прежний итог", zap.String("outcome", string(prev.Status)))
				return s.journalOutcome(ctx, key, prev), nil
			default:
				s.sequences.Release(ctx, serial)
				release()
				logger.Warn("Ключ уже в журнале, отправка ещё не завершена")
				return nil, apperrors.ErrDuplicateSubmit
			}
		}
	}

	outcome, err := s.writer.Insert(ctx, integrations.InsertRequest{
		SheetName:      row.SheetName,
		RowData:        cells,
		IdempotencyKey: key,
		Files:          files,
		MultiFile:      row.MultiFile,
	})
	if err != nil {
		logger.Error("Строка не отправлена", zap.Error(err))
		s.complete(ctx, submission.ID, entities.SubmissionFailed, null.StringFrom(err.Error()))
		s.sequences.Release(ctx, serial)
		release()
		return nil, &apperrors.NetworkError{Sheet: row.SheetName, Err: err}
	}

	status, errText := entities.SubmissionConfirmed, null.String{}
	if outcome == integrations.OutcomeUnconfirmed {
		status, errText = entities.SubmissionUnconfirmed, null.StringFrom(apperrors.ErrWriteUnconfirmed.Error())
	}
	s.complete(ctx, submission.ID, status, errText)
	if err := s.cache.Set(ctx, idempotencyKey(key), string(outcome), submissionKeyTTL); err != nil {
		logger.Warn("Не удалось запомнить итог отправки", zap.Error(err))
	}

	logger.Info("Строка отправлена", zap.String("outcome", string(outcome)), zap.Int("files", len(files)))

	s.bus.Publish(ctx, events.SubmissionSentEvent{
		ID:        submission.ID,
		Form:      row.Form,
		SheetName: row.SheetName,
		EnquiryNo: enquiryNo,
		Actor:     submission.SubmittedBy,
		Outcome:   string(outcome),
		SentAt:    now,
	})

	return &dto.SubmitResultDTO{
		SubmissionID:   submission.ID.String(),
		IdempotencyKey: key,
		SheetName:      row.SheetName,
		Outcome:        string(outcome),
		Serial:         serial,
	}, nil
}

// journalOutcome - итог из журнала, когда кеш ключ уже забыл. Итог
// возвращается в кеш, чтобы следующие повторы не ходили в базу.
func (s *SubmissionService) journalOutcome(ctx context.Context, key string, prev *entities.Submission) *dto.SubmitResultDTO {
	outcome := integrations.OutcomeConfirmed
	if prev.Status == entities.SubmissionUnconfirmed {
		outcome = integrations.OutcomeUnconfirmed
	}
	if err := s.cache.Set(ctx, idempotencyKey(key), string(outcome), submissionKeyTTL); err != nil {
		s.logger.Warn("SubmissionService: итог не сохранён в кеш", zap.String("idempotency_key", key), zap.Error(err))
	}
	return &dto.SubmitResultDTO{
		SubmissionID:   prev.ID.String(),
		IdempotencyKey: key,
		SheetName:      prev.SheetName,
		Outcome:        string(outcome),
		Serial:         prev.EnquiryNo.String,
		Duplicate:      true,
	}
}

func (s *SubmissionService) complete(ctx context.Context, id uuid.UUID, status entities.SubmissionStatus, errText null.String) {
	if err := s.journal.Complete(ctx, id, status, errText); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Error("SubmissionService: итог не записан в журнал", zap.String("submission_id", id.String()), zap.Error(err))
	}
}

func (s *SubmissionService) Recent(ctx context.Context, form string, limit uint64) ([]entities.Submission, error) {
	switch {
	case limit == 0:
		limit = 50
	case limit > 200:
		limit = 200
	}
	list, err := s.journal.ListRecent(ctx, form, limit)
	if err != nil {
		return nil, fmt.Errorf("журнал отправок недоступен: %w", err)
	}
	return list, nil
}
