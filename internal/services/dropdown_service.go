package services

import (
	"context"

	"go.uber.org/zap"

	"nbd-crr/internal/pipeline"
	"nbd-crr/internal/repositories"
)

type DropdownServiceInterface interface {
	Options(ctx context.Context) map[string][]string
}

type DropdownService struct {
	sheets repositories.SheetRepositoryInterface
	logger *zap.Logger
}

func NewDropdownService(sheets repositories.SheetRepositoryInterface, logger *zap.Logger) DropdownServiceInterface {
	return &DropdownService{sheets: sheets, logger: logger}
}

// Options никогда не падает: при любой ошибке отдаются значения по умолчанию.
func (s *DropdownService) Options(ctx context.Context) map[string][]string {
	t, err := s.sheets.Fetch(ctx, pipeline.SheetDropdown)
	if err != nil {
		s.logger.Warn("DropdownService: DROPDOWN недоступен, списки по умолчанию", zap.Error(err))
		return pipeline.DefaultDropdownOptions()
	}
	opts, err := pipeline.CollectDropdownOptions(t)
	if err != nil {
		s.logger.Warn("DropdownService: DROPDOWN не совпал со схемой, списки по умолчанию", zap.Error(err))
		return pipeline.DefaultDropdownOptions()
	}
	return opts
}
