package handler

import (
	"net/http"

	"github.com/mbharti12/goal-tracker/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.Goals()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.GoalCreateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, invalidBody())
		return
	}

	goal, err := h.goalService.Create(input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goal_id")

	var input service.GoalUpdateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, invalidBody())
		return
	}

	goal, err := h.goalService.Update(goalID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("goal_id")

	goal, err := h.goalService.Delete(goalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}
