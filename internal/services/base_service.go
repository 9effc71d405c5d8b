package services

import (
	"context"

	"go.uber.org/zap"

	"nbd-crr/internal/repositories"
	"nbd-crr/internal/sheet"
)

// fetchOrEmpty нужен там, где отсутствие листа означает "пока нет данных".
func fetchOrEmpty(ctx context.Context, sheets repositories.SheetRepositoryInterface, name string, logger *zap.Logger) *sheet.Table {
	t, err := sheets.Fetch(ctx, name)
	if err != nil {
		logger.Warn("лист недоступен, считаем его пустым", zap.String("sheet", name), zap.Error(err))
		return &sheet.Table{Sheet: name}
	}
	return t
}
