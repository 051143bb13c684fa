package handler

import (
	"net/http"

	"musespark-backend/internal/model"
	"musespark-backend/internal/service"

	"github.com/gin-gonic/gin"
)

func target(c *gin.Context) service.MapTarget {
	return service.MapTarget(c.Param("target"))
}

func (h *Handler) SetCanvasOrigin(c *gin.Context) {
	var req model.PointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.SetCanvasOrigin(c.Request.Context(), target(c), req.X, req.Y))
}

func (h *Handler) BeginDrag(c *gin.Context) {
	var req model.BeginDragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.BeginDrag(c.Request.Context(), target(c), req.NodeID))
}

func (h *Handler) ContinueDrag(c *gin.Context) {
	var req model.PointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.ContinueDrag(c.Request.Context(), target(c), req.X, req.Y))
}

func (h *Handler) EndDrag(c *gin.Context) {
	h.respond(c, h.app.EndDrag(c.Request.Context(), target(c)))
}

// AddNode answers with the created node, or 204 when the map is read-only.
func (h *Handler) AddNode(c *gin.Context) {
	node, ok, err := h.app.AddNode(c.Request.Context(), target(c))
	if err != nil {
		fail(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, node)
}

func (h *Handler) RenameNode(c *gin.Context) {
	var req model.RenameNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.RenameNode(c.Request.Context(), target(c), c.Param("node_id"), req.Label))
}

func (h *Handler) SetSuggestQuery(c *gin.Context) {
	var req model.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.SetSuggestQuery(c.Request.Context(), target(c), req.Query))
}

func (h *Handler) SuggestNode(c *gin.Context) {
	var req model.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.SuggestNode(c.Request.Context(), target(c), req.Query))
}
