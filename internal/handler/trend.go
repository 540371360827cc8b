package handler

import (
	"net/http"

	"github.com/mbharti12/goal-tracker/internal/service"
)

type TrendHandler struct {
	trendService *service.TrendService
}

func NewTrendHandler(trendService *service.TrendService) *TrendHandler {
	return &TrendHandler{
		trendService: trendService,
	}
}

func (h *TrendHandler) GoalTrend(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goal_id")
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	bucket := r.URL.Query().Get("bucket")

	trend, err := h.trendService.GoalTrend(goalID, start, end, bucket)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, trend)
}

func (h *TrendHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var input service.TrendCompareInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, invalidBody())
		return
	}

	comparison, err := h.trendService.Compare(input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comparison)
}
