package handler

import (
	"net/http"

	"github.com/mbharti12/goal-tracker/internal/service"
)

type TagHandler struct {
	tagService *service.TagService
}

func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
	}
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	includeInactive := queryBool(r, "include_inactive", false)

	tags, err := h.tagService.Tags(includeInactive)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.TagCreateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, invalidBody())
		return
	}

	tag, err := h.tagService.Create(input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tag)
}

func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	tagID := r.PathValue("tag_id")

	var input service.TagUpdateInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, invalidBody())
		return
	}

	tag, err := h.tagService.Rename(tagID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tag)
}

func (h *TagHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	tagID := r.PathValue("tag_id")

	tag, err := h.tagService.SetActive(tagID, false)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tag)
}

func (h *TagHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	tagID := r.PathValue("tag_id")

	tag, err := h.tagService.SetActive(tagID, true)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tag)
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tagID := r.PathValue("tag_id")

	tag, err := h.tagService.Delete(tagID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tag)
}
