package service

import (
	"musespark-backend/internal/mindmap"
	"musespark-backend/internal/model"
)

type ViewerState struct {
	Kind    model.ViewerKind `json:"kind"`
	SavedID string           `json:"savedId"`
	MindMap *mindmap.State   `json:"mindMap,omitempty"`
	Memo    *string          `json:"memo,omitempty"`
}

// Snapshot is an immutable picture of the app state after a commit.
type Snapshot struct {
	Revision uint64 `json:"revision"`

	View        model.View     `json:"view"`
	Language    model.Language `json:"language"`
	SidebarOpen bool           `json:"sidebarOpen"`

	Sessions        []model.ChatSession `json:"sessions"`
	ActiveSessionID string              `json:"activeSessionId,omitempty"`
	Responding      bool                `json:"responding"`
	QueuedMessages  int                 `json:"queuedMessages"`

	Phase         model.Phase             `json:"phase"`
	PendingNote   *model.InspirationNote  `json:"pendingNote,omitempty"`
	SavedMode     bool                    `json:"savedMode"`
	ActiveSavedID string                  `json:"activeSavedId,omitempty"`
	Inspirations  []model.SavedInspiration `json:"inspirations"`

	ToolPanel  model.ToolPanel `json:"toolPanel"`
	FullScreen bool            `json:"fullScreen"`
	MindMap    *mindmap.State  `json:"mindMap,omitempty"`
	Viewer     *ViewerState    `json:"viewer,omitempty"`

	Notice string `json:"notice,omitempty"`
}

// ActiveSession returns the selected session, if any.
func (s Snapshot) ActiveSession() (model.ChatSession, bool) {
	for _, sess := range s.Sessions {
		if sess.ID == s.ActiveSessionID {
			return sess, true
		}
	}
	return model.ChatSession{}, false
}

func (s Snapshot) Inspiration(id string) (model.SavedInspiration, bool) {
	for _, item := range s.Inspirations {
		if item.ID == id {
			return item, true
		}
	}
	return model.SavedInspiration{}, false
}

func (st *state) snapshot() Snapshot {
	snap := Snapshot{
		Revision:        st.revision,
		View:            st.renderedView(),
		Language:        st.lang,
		SidebarOpen:     st.sidebarOpen,
		Sessions:        st.sessions,
		ActiveSessionID: st.activeID,
		Responding:      st.responding[st.activeID],
		QueuedMessages:  len(st.queues[st.activeID]),
		Phase:           st.phase,
		SavedMode:       st.savedMode(),
		ActiveSavedID:   st.activeSavedID,
		Inspirations:    st.saved,
		ToolPanel:       st.panel,
		FullScreen:      st.fullScreen,
		Notice:          st.notice,
	}
	if st.pendingNote != nil {
		note := st.pendingNote.Clone()
		snap.PendingNote = &note
	}
	if st.sessionMap != nil {
		ms := st.sessionMap.State()
		snap.MindMap = &ms
	}
	if v := st.viewer; v != nil {
		vs := &ViewerState{Kind: v.kind, SavedID: v.savedID}
		switch v.kind {
		case model.ViewerMindMap:
			if v.engine != nil {
				ms := v.engine.State()
				vs.MindMap = &ms
			}
		case model.ViewerMemo:
			if item, _, ok := st.savedItem(v.savedID); ok && item.MemoSnapshot != nil {
				memo := *item.MemoSnapshot
				vs.Memo = &memo
			}
		}
		snap.Viewer = vs
	}
	return snap
}
