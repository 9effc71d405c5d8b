package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"nbd-crr/internal/dto"
	"nbd-crr/internal/pipeline"
	"nbd-crr/internal/repositories"
)

type DashboardServiceInterface interface {
	GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error)
}

type DashboardService struct {
	sheets repositories.SheetRepositoryInterface
	logger *zap.Logger
}

func NewDashboardService(sheets repositories.SheetRepositoryInterface, logger *zap.Logger) DashboardServiceInterface {
	return &DashboardService{sheets: sheets, logger: logger}
}

// GetStats считает восемь показателей параллельно. Упавшая ветка отдаёт
// нули и не мешает остальным; ошибкой всего запроса это не становится.
func (s *DashboardService) GetStats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	stats := &dto.DashboardStatsDTO{
		StageBreakdown: pipeline.EmptyStageBreakdown(),
		PendingList:    []pipeline.PendingTask{},
		LostReasons:    []pipeline.ReasonStat{},
		HoldReasons:    []pipeline.ReasonStat{},
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	addTask := func(name string, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(); err != nil {
				s.logger.Warn("DashboardService: показатель не посчитан, отдаём нули",
					zap.String("branch", name), zap.Error(err))
				mu.Lock()
				stats.Failed = append(stats.Failed, name)
				mu.Unlock()
			}
		}()
	}

	// Каждая ветка пишет только в свои поля stats.
	addTask("totalEnquiries", func() error {
		t, err := s.sheets.Fetch(ctx, pipeline.SheetReport)
		if err != nil {
			return err
		}
		stats.TotalEnquiries = pipeline.CountTruthy(t, pipeline.ColEnquiryNo, 0)
		return nil
	})
	addTask("totalQuotations", func() error {
		t, err := s.sheets.Fetch(ctx, pipeline.SheetMakeQuotation)
		if err != nil {
			return err
		}
		stats.TotalQuotations = pipeline.CountTruthy(t, 1, 0)
		return nil
	})
	addTask("revenue", func() error {
		t, err := s.sheets.Fetch(ctx, pipeline.SheetReport)
		if err != nil {
			return err
		}
		stats.Revenue = pipeline.SumRevenue(pipeline.Column(t, pipeline.ColApproximateValue, 0))
		return nil
	})
	addTask("totalOrders", func() error {
		t, err := s.sheets.Fetch(ctx, pipeline.SheetOrderStatus)
		if err != nil {
			return err
		}
		stats.TotalOrders = pipeline.CountTruthy(t, pipeline.ColOrderReceived, 1)
		return nil
	})
	addTask("stageBreakdown", func() error {
		t, err := s.sheets.Fetch(ctx, pipeline.SheetReport)
		if err != nil {
			return err
		}
		stats.StageBreakdown = pipeline.StageBreakdown(t)
		return nil
	})
	addTask("orderStatus", func() error {
		t, err := s.sheets.Fetch(ctx, pipeline.SheetOrderStatus)
		if err != nil {
			return err
		}
		stats.OrderStatus = pipeline.BreakdownOrders(t)
		return nil
	})
	addTask("pendingTasks", func() error {
		t, err := s.sheets.Fetch(ctx, pipeline.SheetReport)
		if err != nil {
			return err
		}
		tasks, err := pipeline.PendingAcrossStages(t)
		if err != nil {
			return err
		}
		stats.PendingList = tasks
		return nil
	})
	addTask("orderReasons", func() error {
		t, err := s.sheets.Fetch(ctx, pipeline.SheetOrderStatus)
		if err != nil {
			return err
		}
		reasons := pipeline.CollectOrderReasons(t)
		stats.LostReasons, stats.HoldReasons = reasons.LostReasons, reasons.HoldReasons
		return nil
	})

	wg.Wait()

	stats.PendingTasks = len(stats.PendingList)
	stats.ConversionRate = pipeline.ConversionRate(stats.TotalOrders, stats.TotalEnquiries)
	return stats, nil
}
