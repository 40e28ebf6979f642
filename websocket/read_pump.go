// websocket/read_pump.go
package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// readPump обрабатывает чтение сообщений от клиента
func (c *Client) readPump() {
	manager := c.manager
	defer func() {
		// Отправляем сигнал отключения
		select {
		case manager.Unregister <- c:
		case <-manager.done:
		}

		c.Socket.Close()
		manager.logger.Debug("Завершение readPump для клиента %s", c.ID)
	}()

	// Устанавливаем параметры подключения
	c.Socket.SetReadLimit(maxMessageSize)
	c.Socket.SetReadDeadline(time.Now().Add(pongWait))
	c.Socket.SetPongHandler(func(string) error {
		c.Socket.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Сразу отправляем дашборд с фильтрами по умолчанию
	c.sendDashboard(nil)

	for {
		_, data, err := c.Socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				manager.logger.Error("Ошибка чтения от клиента %s: %v", c.ID, err)
			}
			break
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(fmt.Errorf("ошибка декодирования сообщения: %w", err))
			continue
		}

		switch msg.Type {
		case TypePing:
			c.send(Message{Type: TypePong})
		case TypeFilter:
			c.sendDashboard(msg.Params)
		default:
			c.sendError(fmt.Errorf("неизвестный тип сообщения: %q", msg.Type))
		}
	}
}

// sendDashboard накладывает параметры клиента на фильтры по умолчанию и отправляет результат
func (c *Client) sendDashboard(rawParams json.RawMessage) {
	params := c.manager.provider.Defaults()
	if len(rawParams) > 0 {
		if err := json.Unmarshal(rawParams, &params); err != nil {
			c.sendError(fmt.Errorf("неверные параметры фильтра: %w", err))
			return
		}
	}

	view, err := c.manager.provider.Dashboard(params)
	if err != nil {
		c.sendError(err)
		return
	}
	c.send(Message{Type: TypeResult, Data: view})
}

func (c *Client) sendError(err error) {
	c.send(Message{Type: TypeError, Error: err.Error()})
}

// send ставит сообщение в очередь клиента; при заполненном буфере сообщение пропускается
func (c *Client) send(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.manager.logger.Error("Ошибка кодирования сообщения для клиента %s: %v", c.ID, err)
		return
	}

	select {
	case c.Send <- data:
	default:
		c.manager.logger.Warn("Буфер клиента %s заполнен, ответ пропущен", c.ID)
	}
}
