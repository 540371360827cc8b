package handler

import (
	"net/http"

	"github.com/mbharti12/goal-tracker/internal/service"
)

type ConditionHandler struct {
	conditionService *service.ConditionService
}

func NewConditionHandler(conditionService *service.ConditionService) *ConditionHandler {
	return &ConditionHandler{
		conditionService: conditionService,
	}
}

func (h *ConditionHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := queryBool(r, "include_inactive", false)

	conditions, err := h.conditionService.Conditions(includeInactive)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conditions)
}

func (h *ConditionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.ConditionCreateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, invalidBody())
		return
	}

	condition, err := h.conditionService.Create(input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, condition)
}

func (h *ConditionHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	conditionID := r.PathValue("condition_id")

	condition, err := h.conditionService.SetActive(conditionID, false)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, condition)
}

func (h *ConditionHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	conditionID := r.PathValue("condition_id")

	condition, err := h.conditionService.SetActive(conditionID, true)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, condition)
}
