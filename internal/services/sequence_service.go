package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nbd-crr/internal/pipeline"
	"nbd-crr/internal/repositories"
	"nbd-crr/pkg/config"
	apperrors "nbd-crr/pkg/errors"
)

const (
	SequenceEnquiry   = "enquiry"
	SequenceQuotation = "quotation"
)

type sequenceSource struct {
	spec   pipeline.SequenceSpec
	sheet  string
	column int
}

var sequenceSources = map[string]sequenceSource{
	SequenceEnquiry:   {spec: pipeline.EnquirySerial, sheet: pipeline.SheetReport, column: pipeline.ColEnquiryNo},
	SequenceQuotation: {spec: pipeline.QuotationNumber, sheet: pipeline.SheetMakeQuotation, column: 1},
}

type SequenceServiceInterface interface {
	// Preview - следующий номер по листу, без резерва.
	Preview(ctx context.Context, kind string) (string, error)
	// Reserve выдаёт номер и держит его в кеше, пока строка не дойдёт до листа.
	Reserve(ctx context.Context, kind string) (string, error)
	// Release снимает резерв, если строка с номером до листа не дошла.
	Release(ctx context.Context, value string)
}

type SequenceService struct {
	sheets repositories.SheetRepositoryInterface
	cache  repositories.CacheRepositoryInterface
	cfg    config.SequenceConfig
	logger *zap.Logger
}

func NewSequenceService(
	sheets repositories.SheetRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cfg config.SequenceConfig,
	logger *zap.Logger,
) SequenceServiceInterface {
	return &SequenceService{sheets: sheets, cache: cache, cfg: cfg, logger: logger}
}

func (s *SequenceService) source(kind string) (sequenceSource, error) {
	src, ok := sequenceSources[kind]
	if !ok {
		return src, fmt.Errorf("неизвестная последовательность '%s': %w", kind, apperrors.ErrNotFound)
	}
	return src, nil
}

func (s *SequenceService) Preview(ctx context.Context, kind string) (string, error) {
	src, err := s.source(kind)
	if err != nil {
		return "", err
	}
	return src.spec.Next(s.existing(ctx, src)), nil
}

// existing - непустые номера колонки. Недоступный лист даёт пустой список,
// и нумерация начинается с первого номера.
func (s *SequenceService) existing(ctx context.Context, src sequenceSource) []string {
	t := fetchOrEmpty(ctx, s.sheets, src.sheet, s.logger)
	var values []string
	for _, c := range pipeline.Column(t, src.column, 0) {
		if c.Truthy() {
			values = append(values, c.Text())
		}
	}
	return values
}

func (s *SequenceService) Reserve(ctx context.Context, kind string) (string, error) {
	src, err := s.source(kind)
	if err != nil {
		return "", err
	}

	value := src.spec.Next(s.existing(ctx, src))
	attempts := s.cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		ok, err := s.cache.SetNX(ctx, reservationKey(value), kind, s.cfg.ReservationTTL)
		if err != nil {
			return "", fmt.Errorf("не удалось зарезервировать номер %s: %w", value, err)
		}
		if ok {
			return value, nil
		}

		s.logger.Debug("SequenceService: номер уже занят, берём следующий", zap.String("value", value))
		next, ok := pipeline.Advance(value, 1)
		if !ok {
			break
		}
		value = next
	}

	s.logger.Error("SequenceService: номер не зарезервирован", zap.String("kind", kind), zap.Int("attempts", attempts))
	return "", apperrors.ErrSequenceExhausted
}

func (s *SequenceService) Release(ctx context.Context, value string) {
	if value == "" {
		return
	}
	if err := s.cache.Del(ctx, reservationKey(value)); err != nil {
		s.logger.Warn("SequenceService: резерв не снят", zap.String("value", value), zap.Error(err))
	}
}

func reservationKey(value string) string {
	return "sequence:" + value
}
