package handler

import (
	"net/http"

	"github.com/mbharti12/goal-tracker/internal/service"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) Query(w http.ResponseWriter, r *http.Request) {
	var input service.ReviewQueryInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, invalidBody())
		return
	}

	result, err := h.reviewService.Query(input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ReviewHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var input service.ReviewFilterInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, invalidBody())
		return
	}

	result, err := h.reviewService.Filter(input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
