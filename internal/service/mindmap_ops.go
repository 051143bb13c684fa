package service

import (
	"context"
	"fmt"

	"musespark-backend/internal/genai"
	"musespark-backend/internal/mindmap"
	"musespark-backend/internal/model"
)

// MapTarget picks which mind map an edit applies to.
type MapTarget string

const (
	// MapSession is the active session's scratch map.
	MapSession MapTarget = "session"
	// MapViewer is the saved snapshot open in the viewer.
	MapViewer MapTarget = "viewer"
)

func (t MapTarget) Valid() bool {
	return t == MapSession || t == MapViewer
}

func (st *state) engine(target MapTarget) (*mindmap.Engine, error) {
	switch target {
	case MapSession:
		if st.sessionMap != nil {
			return st.sessionMap, nil
		}
	case MapViewer:
		if st.viewer != nil && st.viewer.engine != nil {
			return st.viewer.engine, nil
		}
	default:
		return nil, fmt.Errorf("%w: unknown map target %q", ErrPrecondition, target)
	}
	return nil, fmt.Errorf("%w: no %s mind map open", ErrPrecondition, target)
}

// withEngine runs fn against the target engine. The view is marked dirty
// because drag and query state live outside the persisted graph.
func (a *App) withEngine(ctx context.Context, target MapTarget, fn func(*mindmap.Engine)) error {
	return a.do(ctx, func(st *state) error {
		e, err := st.engine(target)
		if err != nil {
			return err
		}
		fn(e)
		st.touch()
		return nil
	})
}

// SetCanvasOrigin records where the canvas sits on screen.
func (a *App) SetCanvasOrigin(ctx context.Context, target MapTarget, x, y float64) error {
	return a.withEngine(ctx, target, func(e *mindmap.Engine) { e.SetOrigin(x, y) })
}

func (a *App) BeginDrag(ctx context.Context, target MapTarget, nodeID string) error {
	return a.withEngine(ctx, target, func(e *mindmap.Engine) { e.BeginDrag(nodeID) })
}

func (a *App) ContinueDrag(ctx context.Context, target MapTarget, pointerX, pointerY float64) error {
	return a.withEngine(ctx, target, func(e *mindmap.Engine) { e.ContinueDrag(pointerX, pointerY) })
}

func (a *App) EndDrag(ctx context.Context, target MapTarget) error {
	return a.withEngine(ctx, target, func(e *mindmap.Engine) { e.EndDrag() })
}

// AddNode inserts a node into the target map. ok is false when the map is
// read-only.
func (a *App) AddNode(ctx context.Context, target MapTarget) (node model.MindMapNode, ok bool, err error) {
	err = a.withEngine(ctx, target, func(e *mindmap.Engine) { node, ok = e.AddNode() })
	return node, ok, err
}

func (a *App) RenameNode(ctx context.Context, target MapTarget, nodeID, label string) error {
	return a.withEngine(ctx, target, func(e *mindmap.Engine) { e.RenameNode(nodeID, label) })
}

func (a *App) SetSuggestQuery(ctx context.Context, target MapTarget, query string) error {
	return a.withEngine(ctx, target, func(e *mindmap.Engine) { e.SetQuery(query) })
}

// SuggestNode asks for a short phrase to add to the target map. A request
// already in flight or a blank query makes this a no-op.
func (a *App) SuggestNode(ctx context.Context, target MapTarget, query string) error {
	return a.do(ctx, func(st *state) error {
		e, err := st.engine(target)
		if err != nil {
			return err
		}
		req, ok := e.StartSuggest(query)
		if !ok {
			return nil
		}
		st.touch()

		lang := st.lang
		remote(a, st, genai.OpSuggest, func(ctx context.Context) string {
			return a.gen.SuggestNode(ctx, req.Labels, req.Query, lang)
		}, func(st *state, phrase string) {
			// The engine may have been replaced by a session switch or a
			// closed viewer; its result then has nowhere to go.
			cur, err := st.engine(target)
			if err != nil || cur != e {
				return
			}
			e.FinishSuggest(phrase)
			st.touch()
		})
		return nil
	})
}
