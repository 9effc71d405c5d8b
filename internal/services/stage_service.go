package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nbd-crr/internal/dto"
	"nbd-crr/internal/pipeline"
	"nbd-crr/internal/repositories"
	apperrors "nbd-crr/pkg/errors"
)

type StageServiceInterface interface {
	Pending(ctx context.Context, stage pipeline.Stage) (*dto.StageViewDTO, error)
	History(ctx context.Context, stage pipeline.Stage) (*dto.StageHistoryDTO, error)
	Layout(stage pipeline.Stage) (pipeline.StageLayout, error)
}

type StageService struct {
	sheets repositories.SheetRepositoryInterface
	logger *zap.Logger
}

func NewStageService(sheets repositories.SheetRepositoryInterface, logger *zap.Logger) StageServiceInterface {
	return &StageService{sheets: sheets, logger: logger}
}

func (s *StageService) Layout(stage pipeline.Stage) (pipeline.StageLayout, error) {
	layout, ok := pipeline.LayoutOf(stage)
	if !ok {
		return layout, fmt.Errorf("этап '%s': %w", stage, apperrors.ErrNotFound)
	}
	return layout, nil
}

// Pending - открытые строки этапа из REPORT.
func (s *StageService) Pending(ctx context.Context, stage pipeline.Stage) (*dto.StageViewDTO, error) {
	layout, err := s.Layout(stage)
	if err != nil {
		return nil, err
	}

	t, err := s.sheets.Fetch(ctx, pipeline.SheetReport)
	if err != nil {
		return nil, err
	}
	res, err := pipeline.ClassifyStage(t, layout)
	if err != nil {
		s.logger.Error("StageService: REPORT не совпал со схемой", zap.String("stage", string(stage)), zap.Error(err))
		return nil, err
	}

	s.logger.Debug("StageService: этап классифицирован",
		zap.String("stage", string(stage)),
		zap.Int("scanned", res.Scanned),
		zap.Int("pending", len(res.Pending)),
		zap.Int("dropped", res.Dropped),
	)
	return &dto.StageViewDTO{Stage: stage, Title: layout.Title, Pending: res.Pending, Count: len(res.Pending)}, nil
}

// History - первые колонки листа истории этапа.
func (s *StageService) History(ctx context.Context, stage pipeline.Stage) (*dto.StageHistoryDTO, error) {
	layout, err := s.Layout(stage)
	if err != nil {
		return nil, err
	}

	t, err := s.sheets.Fetch(ctx, layout.HistorySheet)
	if err != nil {
		return nil, err
	}
	return &dto.StageHistoryDTO{
		Stage: stage,
		Title: layout.Title,
		Table: pipeline.ProjectHistorySheet(t, layout.HistoryWidth),
	}, nil
}
