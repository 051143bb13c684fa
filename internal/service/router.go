package service

import (
	"context"
	"fmt"

	"musespark-backend/internal/mindmap"
	"musespark-backend/internal/model"
)

// GoHome leaves any review and shows the home screen.
func (a *App) GoHome(ctx context.Context) error {
	return a.do(ctx, func(st *state) error {
		st.clearReview()
		st.closeViewer()
		st.view = model.ViewHome
		return nil
	})
}

// ShowInspirations opens the saved-inspiration list.
func (a *App) ShowInspirations(ctx context.Context) error {
	return a.do(ctx, func(st *state) error {
		st.clearReview()
		st.closeViewer()
		st.view = model.ViewInspirations
		st.sidebarOpen = false
		return nil
	})
}

func (a *App) SetSidebar(ctx context.Context, open bool) error {
	return a.do(ctx, func(st *state) error {
		if st.sidebarOpen != open {
			st.sidebarOpen = open
			st.touch()
		}
		return nil
	})
}

// TogglePanel opens a chat tool panel, or closes it when it is already the
// open one. Panels are mutually exclusive.
func (a *App) TogglePanel(ctx context.Context, panel model.ToolPanel) error {
	if !panel.Valid() {
		return fmt.Errorf("%w: unknown panel %q", ErrPrecondition, panel)
	}
	return a.do(ctx, func(st *state) error {
		if st.view != model.ViewChat {
			return fmt.Errorf("%w: panels live in the chat view", ErrPrecondition)
		}
		if st.panel == panel {
			st.panel = model.PanelNone
		} else {
			st.panel = panel
		}
		st.fullScreen = false
		st.touch()
		return nil
	})
}

func (a *App) SetFullScreen(ctx context.Context, on bool) error {
	return a.do(ctx, func(st *state) error {
		if on && st.panel == model.PanelNone {
			return fmt.Errorf("%w: no panel open", ErrPrecondition)
		}
		st.fullScreen = on
		st.touch()
		return nil
	})
}

// OpenViewer shows a saved item's mind map or memo snapshot in the viewer
// overlay and makes that item the active saved id.
func (a *App) OpenViewer(ctx context.Context, savedID string, kind model.ViewerKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown viewer %q", ErrPrecondition, kind)
	}
	return a.do(ctx, func(st *state) error {
		if _, _, ok := st.savedItem(savedID); !ok {
			return fmt.Errorf("%w: %s", ErrSavedNotFound, savedID)
		}
		if st.activeSavedID != savedID {
			// Opening a snapshot of another item leaves the current review.
			st.clearReview()
			st.activeSavedID = savedID
			if st.view == model.ViewNoteReview {
				st.view = model.ViewInspirations
			}
		}
		a.openViewer(st, savedID, kind)
		return nil
	})
}

func (a *App) openViewer(st *state, savedID string, kind model.ViewerKind) {
	v := &viewer{kind: kind, savedID: savedID}
	if kind == model.ViewerMindMap {
		item, _, _ := st.savedItem(savedID)
		data := model.MindMapData{Nodes: []model.MindMapNode{}, Edges: []model.MindMapEdge{}}
		if item.MindMapSnapshot != nil {
			data = *item.MindMapSnapshot
		}
		v.engine = mindmap.New(data, false,
			mindmap.WithIDs(a.opts.NewID),
			mindmap.WithLabels(model.TextsFor(st.lang).NewIdea, a.opts.RootLabel),
			mindmap.OnChange(func(d model.MindMapData) {
				if cur, _, ok := st.savedItem(savedID); ok {
					cur.MindMapSnapshot = &d
					st.replaceSaved(cur)
				}
			}),
		)
	}
	st.viewer = v
	st.touch()
}

func (a *App) CloseViewer(ctx context.Context) error {
	return a.do(ctx, func(st *state) error {
		st.closeViewer()
		if !st.reviewing() && st.activeSavedID != "" {
			st.activeSavedID = ""
			st.touch()
		}
		return nil
	})
}

// UpdateViewerMemo rewrites the memo snapshot shown in the viewer.
func (a *App) UpdateViewerMemo(ctx context.Context, memo string) error {
	return a.do(ctx, func(st *state) error {
		v := st.viewer
		if v == nil || v.kind != model.ViewerMemo || st.activeSavedID == "" {
			return fmt.Errorf("%w: no editable memo open", ErrPrecondition)
		}
		item, _, ok := st.savedItem(v.savedID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrSavedNotFound, v.savedID)
		}
		item.MemoSnapshot = &memo
		st.replaceSaved(item)
		return nil
	})
}

// ViewNoteTool opens the mind map or memo belonging to the note under
// review: the saved snapshot in saved mode, the session panel otherwise.
func (a *App) ViewNoteTool(ctx context.Context, kind model.ViewerKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown tool %q", ErrPrecondition, kind)
	}
	return a.do(ctx, func(st *state) error {
		if !st.reviewing() {
			return fmt.Errorf("%w: no note under review", ErrPrecondition)
		}
		if st.savedMode() {
			a.openViewer(st, st.activeSavedID, kind)
			return nil
		}
		if _, ok := st.activeSession(); !ok {
			return fmt.Errorf("%w: no active session", ErrPrecondition)
		}

		st.clearReview()
		st.view = model.ViewChat
		st.fullScreen = false
		if kind == model.ViewerMindMap {
			st.panel = model.PanelMindMap
		} else {
			st.panel = model.PanelMemo
		}
		return nil
	})
}

func (a *App) DismissNotice(ctx context.Context) error {
	return a.do(ctx, func(st *state) error {
		if st.notice != "" {
			st.notice = ""
			st.touch()
		}
		return nil
	})
}
