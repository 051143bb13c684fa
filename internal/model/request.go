package model

type CreateSessionRequest struct {
	Prompt     string      `json:"prompt"`
	Attachment *Attachment `json:"attachment"`
}

type SendMessageRequest struct {
	Text       string      `json:"text"`
	Attachment *Attachment `json:"attachment"`
}

type MemoRequest struct {
	Memo string `json:"memo"`
}

type LanguageRequest struct {
	Language Language `json:"language" binding:"required"`
}

type PanelRequest struct {
	Panel ToolPanel `json:"panel" binding:"required"`
}

// SwitchRequest turns an overlay (sidebar, full screen) on or off.
type SwitchRequest struct {
	On *bool `json:"on" binding:"required"`
}

type OpenViewerRequest struct {
	SavedID string     `json:"savedId" binding:"required"`
	Kind    ViewerKind `json:"kind" binding:"required"`
}

type NoteToolRequest struct {
	Kind ViewerKind `json:"kind" binding:"required"`
}

// PointRequest carries a canvas origin or a pointer position in screen
// coordinates.
type PointRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type BeginDragRequest struct {
	NodeID string `json:"nodeId" binding:"required"`
}

type RenameNodeRequest struct {
	Label string `json:"label"`
}

type SuggestRequest struct {
	Query string `json:"query"`
}
