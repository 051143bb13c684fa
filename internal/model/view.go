package model

// View is one of the four top-level screens.
type View string

const (
	ViewNone         View = ""
	ViewHome         View = "home"
	ViewChat         View = "chat"
	ViewNoteReview   View = "note_review"
	ViewInspirations View = "my_inspirations"
)

func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewChat, ViewNoteReview, ViewInspirations:
		return true
	}
	return false
}

// Phase is the state of the note generation workflow.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseGenerating  Phase = "generating"
	PhaseReviewing   Phase = "reviewing"
	PhaseTranslating Phase = "translating"
)

// ToolPanel is the side panel shown next to the chat.
type ToolPanel string

const (
	PanelNone    ToolPanel = ""
	PanelMindMap ToolPanel = "mindMap"
	PanelMemo    ToolPanel = "memo"
)

func (p ToolPanel) Valid() bool {
	switch p {
	case PanelNone, PanelMindMap, PanelMemo:
		return true
	}
	return false
}

// ViewerKind selects which snapshot of a saved inspiration is open in the
// viewer overlay.
type ViewerKind string

const (
	ViewerNone    ViewerKind = ""
	ViewerMindMap ViewerKind = "mindMap"
	ViewerMemo    ViewerKind = "memo"
)

func (k ViewerKind) Valid() bool {
	switch k {
	case ViewerMindMap, ViewerMemo:
		return true
	}
	return false
}
