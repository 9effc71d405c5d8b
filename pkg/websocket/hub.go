package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub управляет всеми клиентами и рассылкой сообщений
type Hub struct {
	clients     map[*Client]bool
	userClients map[string][]*Client
	Register    chan *Client
	Unregister  chan *Client
	mu          sync.Mutex
	logger      *zap.Logger
	now         func() time.Time
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[string][]*Client),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		logger:      logger,
		now:         time.Now,
	}
}

// Run обслуживает регистрацию клиентов до отмены ctx.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				h.dropLocked(client)
			}
			h.mu.Unlock()
			return
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.userClients[client.UserName] = append(h.userClients[client.UserName], client)
			h.mu.Unlock()
			h.logger.Info("WebSocket: клиент зарегистрирован", zap.String("user", client.UserName))
		case client := <-h.Unregister:
			h.mu.Lock()
			h.dropLocked(client)
			h.mu.Unlock()
		}
	}
}

// dropLocked вызывается под mu.
func (h *Hub) dropLocked(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)

	clients := h.userClients[client.UserName]
	for i, c := range clients {
		if c == client {
			h.userClients[client.UserName] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.UserName]) == 0 {
		delete(h.userClients, client.UserName)
	}
	h.logger.Info("WebSocket: клиент отсоединен", zap.String("user", client.UserName))
}

func (h *Hub) encode(payload interface{}, messageType string) ([]byte, error) {
	return json.Marshal(Envelope{Type: messageType, Payload: payload, Timestamp: h.now().UTC()})
}

// deliverLocked не блокируется: клиент с переполненной очередью отключается.
func (h *Hub) deliverLocked(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.logger.Warn("WebSocket: очередь клиента переполнена", zap.String("user", client.UserName))
		h.dropLocked(client)
	}
}

// Broadcast рассылает сообщение всем подключённым клиентам.
func (h *Hub) Broadcast(payload interface{}, messageType string) error {
	message, err := h.encode(payload, messageType)
	if err != nil {
		h.logger.Error("Ошибка сериализации сообщения для WebSocket", zap.Error(err))
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.deliverLocked(client, message)
	}
	return nil
}

// SendMessageToUser отправляет сообщение во все вкладки пользователя.
func (h *Hub) SendMessageToUser(userName string, payload interface{}, messageType string) error {
	message, err := h.encode(payload, messageType)
	if err != nil {
		h.logger.Error("Ошибка сериализации сообщения для WebSocket", zap.Error(err))
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	clients := append([]*Client(nil), h.userClients[userName]...)
	if len(clients) == 0 {
		h.logger.Debug("WebSocket: нет активных соединений", zap.String("user", userName))
		return nil
	}
	for _, client := range clients {
		h.deliverLocked(client, message)
	}
	return nil
}

// Connected - число открытых соединений.
func (h *Hub) Connected() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
