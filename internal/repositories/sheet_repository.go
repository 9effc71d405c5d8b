package repositories

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"nbd-crr/internal/integrations"
	"nbd-crr/internal/sheet"
)

// SheetRepositoryInterface - чтение листов через активный провайдер.
// Таблицы отдаются только для чтения: один результат может получить
// несколько вызывающих.
type SheetRepositoryInterface interface {
	Fetch(ctx context.Context, sheetName string) (*sheet.Table, error)
}

type sheetRepository struct {
	registry integrations.RegistryInterface
	group    singleflight.Group
	logger   *zap.Logger
}

func NewSheetRepository(registry integrations.RegistryInterface, logger *zap.Logger) SheetRepositoryInterface {
	return &sheetRepository{registry: registry, logger: logger}
}

// Fetch склеивает одновременные чтения одного листа в один запрос.
func (r *sheetRepository) Fetch(ctx context.Context, sheetName string) (*sheet.Table, error) {
	provider, err := r.registry.GetActive()
	if err != nil {
		return nil, fmt.Errorf("источник листов недоступен: %w", err)
	}

	v, err, shared := r.group.Do(provider.Name()+"|"+sheetName, func() (interface{}, error) {
		return provider.FetchTable(ctx, sheetName)
	})
	if err != nil {
		r.logger.Warn("SheetRepository: ошибка чтения листа",
			zap.String("sheet", sheetName),
			zap.String("provider", provider.Name()),
			zap.Error(err),
		)
		return nil, err
	}
	if shared {
		r.logger.Debug("SheetRepository: чтение листа разделено", zap.String("sheet", sheetName))
	}
	return v.(*sheet.Table), nil
}
