package helpers

import (
	"encoding/json"
	"net/http"
)

// Response: общий конверт всех JSON-ответов API.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Response{Success: true, Message: message, Data: data})
}

func Error(w http.ResponseWriter, status int, message, errMsg string) {
	write(w, status, Response{Success: false, Message: message, Error: errMsg})
}

// ErrorData: ошибка с дополнительными данными (например, допустимые значения поля).
func ErrorData(w http.ResponseWriter, status int, message string, data interface{}) {
	write(w, status, Response{Success: false, Message: message, Data: data})
}

func write(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		return
	}
}
