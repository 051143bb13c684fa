package handler

import (
	"context"
	"errors"
	"net/http"

	"musespark-backend/internal/service"
	"musespark-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handler exposes the app's operations as JSON endpoints. Every mutation
// answers with the snapshot committed after it.
type Handler struct {
	app *service.App
}

func NewHandler(app *service.App) *Handler {
	return &Handler{app: app}
}

// Register mounts every route on api.
func (h *Handler) Register(api *gin.RouterGroup) {
	api.GET("/state", h.GetState)
	api.GET("/events", h.StreamEvents)
	api.PUT("/language", h.ChangeLanguage)

	sessions := api.Group("/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.POST("/:session_id/select", h.SelectSession)
		sessions.POST("/:session_id/messages", h.SendMessage)
		sessions.PATCH("/:session_id", h.UpdateSession)
		sessions.DELETE("/:session_id", h.DeleteSession)
	}
	api.PUT("/memo", h.UpdateMemo)

	note := api.Group("/note")
	{
		note.POST("/generate", h.GenerateNote)
		note.POST("/save", h.SaveNote)
		note.POST("/discard", h.DiscardNote)
		note.POST("/back", h.BackToList)
		note.POST("/apply-structure", h.ApplyVisualStructure)
		note.POST("/tool", h.ViewNoteTool)
		note.PUT("", h.UpdateSavedNote)
	}

	inspirations := api.Group("/inspirations")
	{
		inspirations.POST("/:saved_id/open", h.OpenSaved)
		inspirations.GET("/:saved_id/markdown", h.ExportMarkdown)
		inspirations.DELETE("/:saved_id", h.DeleteSaved)
	}

	view := api.Group("/view")
	{
		view.POST("/home", h.GoHome)
		view.POST("/inspirations", h.ShowInspirations)
		view.PUT("/sidebar", h.SetSidebar)
		view.POST("/panel", h.TogglePanel)
		view.PUT("/fullscreen", h.SetFullScreen)
		view.DELETE("/notice", h.DismissNotice)
	}

	viewer := api.Group("/viewer")
	{
		viewer.POST("", h.OpenViewer)
		viewer.DELETE("", h.CloseViewer)
		viewer.PUT("/memo", h.UpdateViewerMemo)
	}

	mm := api.Group("/mindmap/:target")
	{
		mm.PUT("/origin", h.SetCanvasOrigin)
		mm.POST("/drag/begin", h.BeginDrag)
		mm.POST("/drag/move", h.ContinueDrag)
		mm.POST("/drag/end", h.EndDrag)
		mm.POST("/nodes", h.AddNode)
		mm.PUT("/nodes/:node_id", h.RenameNode)
		mm.PUT("/query", h.SetSuggestQuery)
		mm.POST("/suggest", h.SuggestNode)
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSavedNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPrecondition):
		return http.StatusConflict
	case errors.Is(err, service.ErrDeclined):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	} else {
		logger.Debugf("%s %s rejected: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// respond writes the current snapshot, or the error that prevented the
// operation.
func (h *Handler) respond(c *gin.Context, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	snap, err := h.app.Snapshot(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// confirmed reads the ?confirm=true flag destructive routes require.
func confirmed(c *gin.Context) bool {
	return c.Query("confirm") == "true"
}
