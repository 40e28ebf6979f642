// websocket/types.go
package websocket

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/LilVoxy/ai_talent_pulse/dashboard"
	"github.com/LilVoxy/ai_talent_pulse/pipeline"
	"github.com/LilVoxy/ai_talent_pulse/utils"
)

// Типы сообщений
const (
	TypeFilter   = "filter"
	TypeResult   = "result"
	TypePing     = "ping"
	TypePong     = "pong"
	TypeError    = "error"
	TypeSnapshot = "snapshot"
)

// Message - исходящее сообщение сервера
type Message struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// inboundMessage - сообщение клиента. Params накладываются на фильтры по умолчанию,
// поэтому отсутствующие поля сохраняют значения по умолчанию.
type inboundMessage struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
}

// DashboardProvider считает представление дашборда для параметров фильтра
type DashboardProvider interface {
	Dashboard(params pipeline.FilterParams) (*dashboard.View, error)
	Defaults() pipeline.FilterParams
}

// Клиент WebSocket
type Client struct {
	ID      string
	Socket  *websocket.Conn
	Send    chan []byte
	manager *Manager
}

// Менеджер WebSocket-соединений
type Manager struct {
	Clients    map[string]*Client
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client

	provider    DashboardProvider
	logger      *utils.Logger
	done        chan struct{}
	clientCount atomic.Int64
}

// Конфигурация WebSocket-соединения
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Дашборд может открываться с любого источника
	},
}
