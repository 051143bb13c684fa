package handler

import (
	"musespark-backend/internal/model"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ChangeLanguage(c *gin.Context) {
	var req model.LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.ChangeLanguage(c.Request.Context(), req.Language))
}

func (h *Handler) GoHome(c *gin.Context) {
	h.respond(c, h.app.GoHome(c.Request.Context()))
}

func (h *Handler) ShowInspirations(c *gin.Context) {
	h.respond(c, h.app.ShowInspirations(c.Request.Context()))
}

func (h *Handler) SetSidebar(c *gin.Context) {
	var req model.SwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.SetSidebar(c.Request.Context(), *req.On))
}

func (h *Handler) TogglePanel(c *gin.Context) {
	var req model.PanelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.TogglePanel(c.Request.Context(), req.Panel))
}

func (h *Handler) SetFullScreen(c *gin.Context) {
	var req model.SwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.SetFullScreen(c.Request.Context(), *req.On))
}

func (h *Handler) DismissNotice(c *gin.Context) {
	h.respond(c, h.app.DismissNotice(c.Request.Context()))
}

func (h *Handler) OpenViewer(c *gin.Context) {
	var req model.OpenViewerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.OpenViewer(c.Request.Context(), req.SavedID, req.Kind))
}

func (h *Handler) CloseViewer(c *gin.Context) {
	h.respond(c, h.app.CloseViewer(c.Request.Context()))
}

func (h *Handler) UpdateViewerMemo(c *gin.Context) {
	var req model.MemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.UpdateViewerMemo(c.Request.Context(), req.Memo))
}
