// Package mindmap implements the direct-manipulation editor for a
// MindMapData graph. An Engine is not safe for concurrent use; the app loop
// owns it.
package mindmap

import (
	"math/rand"
	"strings"
	"time"

	"musespark-backend/internal/model"

	"github.com/google/uuid"
)

// DefaultX, DefaultY is where the first node of an empty graph goes.
const (
	DefaultX = 250
	DefaultY = 250
)

// SuggestRequest is what the suggestion side-channel sends to the remote
// client.
type SuggestRequest struct {
	Labels string
	Query  string
}

// Segment is a drawable edge with both endpoints resolved.
type Segment struct {
	EdgeID string  `json:"edgeId"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

type Engine struct {
	data     model.MindMapData
	readOnly bool

	dragID           string
	originX, originY float64

	query      string
	suggestion string
	suggesting bool

	newLabel  string
	rootLabel string
	rng       *rand.Rand
	newID     func() string
	onChange  func(model.MindMapData)
}

type Option func(*Engine)

// WithLabels sets the labels used for added nodes and for a promoted root.
func WithLabels(newLabel, rootLabel string) Option {
	return func(e *Engine) {
		e.newLabel = newLabel
		e.rootLabel = rootLabel
	}
}

func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

func WithIDs(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// OnChange registers the commit callback invoked with every new graph.
func OnChange(fn func(model.MindMapData)) Option {
	return func(e *Engine) { e.onChange = fn }
}

func New(data model.MindMapData, readOnly bool, opts ...Option) *Engine {
	e := &Engine{
		data:      data.Clone(),
		readOnly:  readOnly,
		newLabel:  "New Idea",
		rootLabel: "Central Idea",
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		newID:     func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Data() model.MindMapData { return e.data.Clone() }
func (e *Engine) ReadOnly() bool          { return e.readOnly }
func (e *Engine) Dragging() string        { return e.dragID }
func (e *Engine) Query() string           { return e.query }
func (e *Engine) Suggestion() string      { return e.suggestion }
func (e *Engine) Suggesting() bool        { return e.suggesting }

// SetOrigin records the canvas's on-screen top-left corner.
func (e *Engine) SetOrigin(x, y float64) {
	e.originX, e.originY = x, y
}

func (e *Engine) SetQuery(q string) {
	e.query = q
}

// SetLabels changes the labels used by later AddNode calls.
func (e *Engine) SetLabels(newLabel, rootLabel string) {
	e.newLabel = newLabel
	e.rootLabel = rootLabel
}

func (e *Engine) commit(next model.MindMapData) {
	e.data = next
	if e.onChange != nil {
		e.onChange(next.Clone())
	}
}

// BeginDrag fills the single drag slot. Unknown ids are ignored.
func (e *Engine) BeginDrag(id string) bool {
	if e.readOnly {
		return false
	}
	if _, ok := e.data.Node(id); !ok {
		return false
	}
	e.dragID = id
	return true
}

// ContinueDrag moves the dragged node to the pointer in canvas space.
// Positions are not clamped.
func (e *Engine) ContinueDrag(pointerX, pointerY float64) bool {
	if e.readOnly || e.dragID == "" {
		return false
	}
	n, ok := e.data.Node(e.dragID)
	if !ok {
		e.dragID = ""
		return false
	}
	e.commit(model.ReplaceNode(e.data, model.WithPosition(n, pointerX-e.originX, pointerY-e.originY)))
	return true
}

func (e *Engine) EndDrag() {
	e.dragID = ""
}

// AddNode attaches a new child to the first node. On an empty graph the new
// node becomes the root and no edge is created.
func (e *Engine) AddNode() (model.MindMapNode, bool) {
	if e.readOnly {
		return model.MindMapNode{}, false
	}

	id := e.newID()
	next := e.data.Clone()

	if len(next.Nodes) == 0 {
		node := model.MindMapNode{ID: id, X: DefaultX, Y: DefaultY, Label: e.rootLabel, Type: model.NodeRoot}
		next.Nodes = append(next.Nodes, node)
		e.commit(next)
		return node, true
	}

	root := next.Nodes[0]
	node := model.MindMapNode{
		ID:    id,
		X:     root.X + e.rng.Float64()*100 - 50,
		Y:     root.Y + 100 + e.rng.Float64()*50,
		Label: e.newLabel,
		Type:  model.NodeChild,
	}
	next.Nodes = append(next.Nodes, node)
	next.Edges = append(next.Edges, model.MindMapEdge{ID: "e-" + id, Source: root.ID, Target: id})
	e.commit(next)
	return node, true
}

func (e *Engine) RenameNode(id, label string) bool {
	if e.readOnly {
		return false
	}
	n, ok := e.data.Node(id)
	if !ok {
		return false
	}
	e.commit(model.ReplaceNode(e.data, model.WithLabel(n, label)))
	return true
}

// StartSuggest opens the single suggestion slot. It reports false while a
// request is in flight or when the query is blank. The query input is
// cleared once the request is issued.
func (e *Engine) StartSuggest(query string) (SuggestRequest, bool) {
	if e.suggesting || strings.TrimSpace(query) == "" {
		return SuggestRequest{}, false
	}
	e.suggesting = true
	e.query = ""
	return SuggestRequest{
		Labels: strings.Join(e.data.Labels(), ", "),
		Query:  query,
	}, true
}

// FinishSuggest stores the phrase ("" on failure) and frees the slot.
func (e *Engine) FinishSuggest(phrase string) {
	e.suggestion = phrase
	e.suggesting = false
	e.query = ""
}

// Segments resolves every edge whose endpoints exist. Dangling edges are
// skipped.
func (e *Engine) Segments() []Segment {
	return Segments(e.data)
}

func Segments(d model.MindMapData) []Segment {
	pos := make(map[string]model.MindMapNode, len(d.Nodes))
	for _, n := range d.Nodes {
		pos[n.ID] = n
	}

	out := make([]Segment, 0, len(d.Edges))
	for _, edge := range d.Edges {
		src, ok := pos[edge.Source]
		if !ok {
			continue
		}
		dst, ok := pos[edge.Target]
		if !ok {
			continue
		}
		out = append(out, Segment{EdgeID: edge.ID, X1: src.X, Y1: src.Y, X2: dst.X, Y2: dst.Y})
	}
	return out
}

// State is the engine's view-facing state.
type State struct {
	Data       model.MindMapData `json:"data"`
	Segments   []Segment         `json:"segments"`
	ReadOnly   bool              `json:"readOnly"`
	Dragging   string            `json:"dragging,omitempty"`
	Query      string            `json:"query"`
	Suggestion string            `json:"suggestion"`
	Suggesting bool              `json:"suggesting"`
}

func (e *Engine) State() State {
	return State{
		Data:       e.Data(),
		Segments:   e.Segments(),
		ReadOnly:   e.readOnly,
		Dragging:   e.dragID,
		Query:      e.query,
		Suggestion: e.suggestion,
		Suggesting: e.suggesting,
	}
}
