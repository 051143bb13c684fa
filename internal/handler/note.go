package handler

import (
	"net/http"

	"musespark-backend/internal/model"
	"musespark-backend/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GenerateNote(c *gin.Context) {
	h.respond(c, h.app.GenerateNote(c.Request.Context()))
}

func (h *Handler) SaveNote(c *gin.Context) {
	saved, err := h.app.SaveNote(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *Handler) DiscardNote(c *gin.Context) {
	h.respond(c, h.app.DiscardNote(c.Request.Context()))
}

func (h *Handler) BackToList(c *gin.Context) {
	h.respond(c, h.app.BackToList(c.Request.Context()))
}

func (h *Handler) ApplyVisualStructure(c *gin.Context) {
	h.respond(c, h.app.ApplyVisualStructure(c.Request.Context()))
}

func (h *Handler) ViewNoteTool(c *gin.Context) {
	var req model.NoteToolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.ViewNoteTool(c.Request.Context(), req.Kind))
}

func (h *Handler) UpdateSavedNote(c *gin.Context) {
	var note model.InspirationNote
	if err := c.ShouldBindJSON(&note); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.UpdateSavedNote(c.Request.Context(), note))
}

func (h *Handler) OpenSaved(c *gin.Context) {
	h.respond(c, h.app.OpenSaved(c.Request.Context(), c.Param("saved_id")))
}

func (h *Handler) DeleteSaved(c *gin.Context) {
	h.respond(c, h.app.DeleteSaved(c.Request.Context(), c.Param("saved_id"), confirmed(c)))
}

// ExportMarkdown renders one saved inspiration as a markdown brief.
func (h *Handler) ExportMarkdown(c *gin.Context) {
	snap, err := h.app.Snapshot(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	item, ok := snap.Inspiration(c.Param("saved_id"))
	if !ok {
		fail(c, service.ErrSavedNotFound)
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(item.Note.Markdown()))
}
