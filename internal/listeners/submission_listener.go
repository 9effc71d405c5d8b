package listeners

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"nbd-crr/internal/events"
	"nbd-crr/internal/pipeline"
	"nbd-crr/internal/services"
	"nbd-crr/pkg/eventbus"
	"nbd-crr/pkg/websocket"
)

// SubmissionListener сообщает открытым вкладкам, что лист изменился.
type SubmissionListener struct {
	wsNotificationService services.WebSocketNotificationServiceInterface
	logger                *zap.Logger
}

func NewSubmissionListener(ws services.WebSocketNotificationServiceInterface, logger *zap.Logger) *SubmissionListener {
	return &SubmissionListener{wsNotificationService: ws, logger: logger}
}

func (l *SubmissionListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.SubmissionSentName, l.handleSubmissionSent)
	l.logger.Info("SubmissionListener подписан на событие", zap.String("event", events.SubmissionSentName))
}

func (l *SubmissionListener) handleSubmissionSent(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.SubmissionSentEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события %T", event)
	}

	payload := websocket.SheetChangedPayload{
		EventID:     e.ID.String(),
		Form:        e.Form,
		SheetName:   e.SheetName,
		EnquiryNo:   e.EnquiryNo,
		Actor:       e.Actor,
		Outcome:     e.Outcome,
		Invalidates: invalidatedViews(e.SheetName),
	}
	return l.wsNotificationService.Broadcast(payload, services.MessageSheetChanged)
}

// invalidatedViews - какие экраны перечитывают данные после записи в лист.
// Любая запись может сдвинуть даты этапов в REPORT, поэтому дашборд
// обновляется всегда.
func invalidatedViews(sheetName string) []string {
	views := []string{"dashboard"}
	for _, l := range pipeline.Stages() {
		if l.HistorySheet == sheetName || sheetName == pipeline.SheetReport {
			views = append(views, "stage:"+string(l.Stage))
		}
	}
	switch sheetName {
	case pipeline.SheetReport, pipeline.SheetMakeQuotation:
		views = append(views, "sequences")
	case pipeline.SheetDropdown:
		views = append(views, "dropdowns", "users")
	}
	return views
}
