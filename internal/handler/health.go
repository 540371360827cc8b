package handler

import (
	"net/http"

	"github.com/mbharti12/goal-tracker/internal/service"
)

type HealthHandler struct {
	ollama *service.OllamaClient
}

func NewHealthHandler(ollama *service.OllamaClient) *HealthHandler {
	return &HealthHandler{
		ollama: ollama,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) LlmHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.ollama.Health())
}
