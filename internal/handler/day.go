package handler

import (
	"net/http"

	"github.com/mbharti12/goal-tracker/internal/service"
)

type DayHandler struct {
	dayService *service.DayService
}

func NewDayHandler(dayService *service.DayService) *DayHandler {
	return &DayHandler{
		dayService: dayService,
	}
}

func (h *DayHandler) Day(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")

	day, err := h.dayService.Day(date)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, day)
}

func (h *DayHandler) TagImpacts(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")

	impacts, err := h.dayService.TagImpacts(date)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, impacts)
}

func (h *DayHandler) UpsertNote(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")

	var input service.DayNoteInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, invalidBody())
		return
	}

	entry, err := h.dayService.UpsertNote(date, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *DayHandler) UpsertConditions(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")

	var input service.DayConditionsInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, invalidBody())
		return
	}

	conditions, err := h.dayService.UpsertConditions(date, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conditions)
}

func (h *DayHandler) UpsertRatings(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")

	var input service.DayRatingsInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, invalidBody())
		return
	}

	ratings, err := h.dayService.UpsertRatings(date, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ratings)
}

func (h *DayHandler) CreateTagEvent(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")

	var input service.TagEventInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, invalidBody())
		return
	}

	event, err := h.dayService.CreateTagEvent(date, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

func (h *DayHandler) DeleteTagEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("event_id")

	err := h.dayService.DeleteTagEvent(eventID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *DayHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	days, err := h.dayService.Calendar(start, end)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, days)
}

func (h *DayHandler) CalendarSummary(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	summary, err := h.dayService.CalendarSummary(start, end)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
