package handler

import (
	"net/http"

	"musespark-backend/internal/model"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateSession(c *gin.Context) {
	var req model.CreateSessionRequest
	// An empty body starts a blank chat.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	session, err := h.app.CreateSession(c.Request.Context(), req.Prompt, req.Attachment)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *Handler) SelectSession(c *gin.Context) {
	h.respond(c, h.app.SelectSession(c.Request.Context(), c.Param("session_id")))
}

// SendMessage accepts the message and returns right away; the reply shows
// up in a later snapshot.
func (h *Handler) SendMessage(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	sessionID := c.Param("session_id")
	if sessionID == "active" {
		sessionID = ""
	}
	h.respond(c, h.app.SendMessage(c.Request.Context(), sessionID, req.Text, req.Attachment))
}

func (h *Handler) UpdateSession(c *gin.Context) {
	var patch model.SessionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.UpdateSession(c.Request.Context(), c.Param("session_id"), patch))
}

func (h *Handler) DeleteSession(c *gin.Context) {
	h.respond(c, h.app.DeleteSession(c.Request.Context(), c.Param("session_id"), confirmed(c)))
}

func (h *Handler) UpdateMemo(c *gin.Context) {
	var req model.MemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c, h.app.UpdateMemo(c.Request.Context(), req.Memo))
}
