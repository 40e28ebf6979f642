// websocket/manager.go
package websocket

import (
	"context"
	"encoding/json"

	"github.com/LilVoxy/ai_talent_pulse/database"
	"github.com/LilVoxy/ai_talent_pulse/metrics"
	"github.com/LilVoxy/ai_talent_pulse/utils"
)

// NewManager создает новый менеджер WebSocket-соединений
func NewManager(provider DashboardProvider, logger *utils.Logger) *Manager {
	return &Manager{
		Broadcast:  make(chan []byte, broadcastBufferSize),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[string]*Client),
		provider:   provider,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Run запускает работу менеджера до отмены контекста
func (manager *Manager) Run(ctx context.Context) {
	defer close(manager.done)

	for {
		select {
		case <-ctx.Done():
			for id, client := range manager.Clients {
				delete(manager.Clients, id)
				client.Socket.Close()
			}
			manager.setClientCount()
			manager.logger.Info("Менеджер WebSocket остановлен")
			return

		case client := <-manager.Register:
			manager.Clients[client.ID] = client
			manager.setClientCount()
			manager.logger.Info("👤 Клиент %s подключился", client.ID)

		case client := <-manager.Unregister:
			if _, ok := manager.Clients[client.ID]; ok {
				delete(manager.Clients, client.ID)
				close(client.Send)
				manager.setClientCount()
				manager.logger.Info("👤 Клиент %s отключился", client.ID)
			}

		case message := <-manager.Broadcast:
			manager.broadcast(message)
		}
	}
}

// ClientCount возвращает число подключенных клиентов
func (manager *Manager) ClientCount() int {
	return int(manager.clientCount.Load())
}

func (manager *Manager) setClientCount() {
	manager.clientCount.Store(int64(len(manager.Clients)))
	metrics.SetWebsocketClients(len(manager.Clients))
}

// broadcast отправляет сообщение всем подключенным клиентам.
// Медленный клиент с заполненным буфером пропускает сообщение.
func (manager *Manager) broadcast(message []byte) {
	for _, client := range manager.Clients {
		select {
		case client.Send <- message:
		default:
			manager.logger.Warn("Буфер клиента %s заполнен, сообщение пропущено", client.ID)
		}
	}
}

// NotifySnapshot рассылает клиентам сведения о сохраненном снимке
func (manager *Manager) NotifySnapshot(snapshot database.Snapshot) {
	data, err := json.Marshal(Message{Type: TypeSnapshot, Data: snapshot})
	if err != nil {
		manager.logger.Error("Ошибка кодирования уведомления о снимке: %v", err)
		return
	}

	select {
	case manager.Broadcast <- data:
	case <-manager.done:
	default:
		manager.logger.Warn("Очередь рассылки заполнена, уведомление о снимке %s пропущено", snapshot.ID)
	}
}
