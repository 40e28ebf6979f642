// routes/api_routes.go
package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/LilVoxy/ai_talent_pulse/dashboard"
	"github.com/LilVoxy/ai_talent_pulse/utils"
	"github.com/LilVoxy/ai_talent_pulse/websocket"
)

// SetupRoutes настраивает все маршруты API и WebSocket.
// wsManager может быть nil - тогда WebSocket не регистрируется.
func SetupRoutes(router *mux.Router, service *dashboard.Service, wsManager *websocket.Manager, allowedOrigin, staticDir string, logger *utils.Logger) {
	// Применяем CORS middleware
	router.Use(CORSMiddleware(allowedOrigin))

	// WebSocket соединения
	if wsManager != nil {
		router.HandleFunc("/ws", wsManager.HandleConnections)
	}

	// API дашборда
	router.HandleFunc("/api/options", GetOptionsHandler(service)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/dashboard", GetDashboardHandler(service, logger)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/observations", GetObservationsHandler(service, logger)).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/forecast", GetForecastHandler(service, logger)).Methods("GET", "OPTIONS")

	// Метрики
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Статические файлы
	if staticDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))
	}
}
