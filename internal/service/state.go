package service

import (
	"musespark-backend/internal/mindmap"
	"musespark-backend/internal/model"
)

type outgoing struct {
	text       string
	attachment *model.Attachment
}

type viewer struct {
	kind    model.ViewerKind
	savedID string
	engine  *mindmap.Engine
}

// state is owned by the App loop. Collections are replaced, never mutated
// in place, so a snapshot can share them safely.
type state struct {
	sessions []model.ChatSession
	saved    []model.SavedInspiration

	activeID    string
	view        model.View
	lang        model.Language
	sidebarOpen bool

	phase         model.Phase
	pendingNote   *model.InspirationNote
	activeSavedID string
	// workflowSeq invalidates continuations of superseded generate or
	// translate calls.
	workflowSeq uint64

	responding map[string]bool
	queues     map[string][]outgoing

	panel      model.ToolPanel
	fullScreen bool
	sessionMap *mindmap.Engine
	viewer     *viewer

	notice string

	inflight int
	revision uint64

	dirtySessions bool
	dirtySaved    bool
	dirtyView     bool
}

func newState(lang model.Language) *state {
	return &state{
		sessions:   []model.ChatSession{},
		saved:      []model.SavedInspiration{},
		view:       model.ViewHome,
		lang:       lang,
		phase:      model.PhaseIdle,
		responding: make(map[string]bool),
		queues:     make(map[string][]outgoing),
	}
}

func (st *state) touch() { st.dirtyView = true }

func (st *state) session(id string) (model.ChatSession, int, bool) {
	for i, s := range st.sessions {
		if s.ID == id {
			return s, i, true
		}
	}
	return model.ChatSession{}, -1, false
}

func (st *state) activeSession() (model.ChatSession, bool) {
	if st.activeID == "" {
		return model.ChatSession{}, false
	}
	s, _, ok := st.session(st.activeID)
	return s, ok
}

// replaceSession swaps in a new value for the session with the same id.
func (st *state) replaceSession(s model.ChatSession) bool {
	_, idx, ok := st.session(s.ID)
	if !ok {
		return false
	}
	next := make([]model.ChatSession, len(st.sessions))
	copy(next, st.sessions)
	next[idx] = s
	st.sessions = next
	st.dirtySessions = true
	return true
}

func (st *state) prependSession(s model.ChatSession) {
	next := make([]model.ChatSession, 0, len(st.sessions)+1)
	next = append(next, s)
	st.sessions = append(next, st.sessions...)
	st.dirtySessions = true
}

func (st *state) removeSession(id string) bool {
	_, idx, ok := st.session(id)
	if !ok {
		return false
	}
	next := make([]model.ChatSession, 0, len(st.sessions)-1)
	next = append(next, st.sessions[:idx]...)
	st.sessions = append(next, st.sessions[idx+1:]...)
	st.dirtySessions = true
	return true
}

func (st *state) savedItem(id string) (model.SavedInspiration, int, bool) {
	for i, s := range st.saved {
		if s.ID == id {
			return s, i, true
		}
	}
	return model.SavedInspiration{}, -1, false
}

func (st *state) replaceSaved(s model.SavedInspiration) bool {
	_, idx, ok := st.savedItem(s.ID)
	if !ok {
		return false
	}
	next := make([]model.SavedInspiration, len(st.saved))
	copy(next, st.saved)
	next[idx] = s
	st.saved = next
	st.dirtySaved = true
	return true
}

func (st *state) prependSaved(s model.SavedInspiration) {
	next := make([]model.SavedInspiration, 0, len(st.saved)+1)
	next = append(next, s)
	st.saved = append(next, st.saved...)
	st.dirtySaved = true
}

func (st *state) removeSaved(id string) bool {
	_, idx, ok := st.savedItem(id)
	if !ok {
		return false
	}
	next := make([]model.SavedInspiration, 0, len(st.saved)-1)
	next = append(next, st.saved[:idx]...)
	st.saved = append(next, st.saved[idx+1:]...)
	st.dirtySaved = true
	return true
}

func (st *state) savedMode() bool {
	return st.activeSavedID != ""
}

func (st *state) reviewing() bool {
	return st.phase == model.PhaseReviewing || st.phase == model.PhaseTranslating
}

// clearReview drops the pending note and any in-flight workflow call.
func (st *state) clearReview() {
	st.pendingNote = nil
	st.activeSavedID = ""
	st.phase = model.PhaseIdle
	st.workflowSeq++
	st.touch()
}

func (st *state) closeViewer() {
	if st.viewer != nil {
		st.viewer = nil
		st.touch()
	}
}

// renderedView is the screen a view layer should draw. note_review without
// a pending note draws nothing.
func (st *state) renderedView() model.View {
	if st.view == model.ViewNoteReview && st.pendingNote == nil {
		return model.ViewNone
	}
	return st.view
}
