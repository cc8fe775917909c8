package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Envelope - обертка успешного ответа API: {"success": true, "data": ...}
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

func SendSuccessTo(w http.ResponseWriter, data interface{}, statusCode int, logger *zap.SugaredLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(Envelope{Success: true, Data: data}); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

// WriteJSON пишет тело как есть, без обертки Envelope
func WriteJSON(w http.ResponseWriter, body interface{}, statusCode int, logger *zap.SugaredLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}
