package services

import (
	"go.uber.org/zap"

	"nbd-crr/pkg/websocket"
)

const MessageSheetChanged = "sheet.changed"

type WebSocketNotificationServiceInterface interface {
	Broadcast(payload interface{}, messageType string) error
	SendNotification(userName string, payload interface{}, messageType string) error
}

type WebSocketNotificationService struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewWebSocketNotificationService(hub *websocket.Hub, logger *zap.Logger) WebSocketNotificationServiceInterface {
	return &WebSocketNotificationService{hub: hub, logger: logger}
}

func (s *WebSocketNotificationService) Broadcast(payload interface{}, messageType string) error {
	s.logger.Debug("WebSocket: рассылка", zap.String("type", messageType), zap.Int("clients", s.hub.Connected()))
	return s.hub.Broadcast(payload, messageType)
}

func (s *WebSocketNotificationService) SendNotification(userName string, payload interface{}, messageType string) error {
	return s.hub.SendMessageToUser(userName, payload, messageType)
}
