package handler

import (
	"net/http"
	"time"

	"github.com/mbharti12/goal-tracker/internal/service"
)

type AdminHandler struct {
	reminderService *service.ReminderService
}

func NewAdminHandler(reminderService *service.ReminderService) *AdminHandler {
	return &AdminHandler{
		reminderService: reminderService,
	}
}

// RunReminders triggers an immediate reminder run, bypassing the cadence
// and enabled checks.
func (h *AdminHandler) RunReminders(w http.ResponseWriter, r *http.Request) {
	result, err := h.reminderService.Run(time.Now().UTC(), true)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
