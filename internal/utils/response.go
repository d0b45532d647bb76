package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		GetLogger().Warn("failed to encode response body", zap.Error(err))
	}
}
