// websocket/connection_handler.go
package websocket

import (
	"net/http"

	"github.com/google/uuid"
)

// HandleConnections обрабатывает WebSocket-соединения
func (manager *Manager) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		manager.logger.Error("Ошибка при установке WebSocket-соединения: %v", err)
		return
	}

	client := &Client{
		ID:      uuid.NewString(),
		Socket:  conn,
		Send:    make(chan []byte, sendBufferSize),
		manager: manager,
	}

	// Регистрируем клиента в менеджере
	select {
	case manager.Register <- client:
	case <-manager.done:
		conn.Close()
		return
	}

	manager.logger.Debug("✅ Клиент %s подключился с адреса %s", client.ID, r.RemoteAddr)

	// Запускаем горутины для чтения и отправки сообщений
	go client.readPump()
	go client.writePump()
}
