package model

// NodeType marks the conventional root of a mind map.
type NodeType string

const (
	NodeRoot  NodeType = "root"
	NodeChild NodeType = "child"
)

type MindMapNode struct {
	ID    string   `json:"id"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Label string   `json:"label"`
	Type  NodeType `json:"type"`
}

type MindMapEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type MindMapData struct {
	Nodes []MindMapNode `json:"nodes"`
	Edges []MindMapEdge `json:"edges"`
}

func (d MindMapData) Clone() MindMapData {
	nodes := make([]MindMapNode, len(d.Nodes))
	copy(nodes, d.Nodes)
	edges := make([]MindMapEdge, len(d.Edges))
	copy(edges, d.Edges)
	return MindMapData{Nodes: nodes, Edges: edges}
}

// Node looks a node up by id.
func (d MindMapData) Node(id string) (MindMapNode, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return MindMapNode{}, false
}

// Labels lists node labels in node order.
func (d MindMapData) Labels() []string {
	labels := make([]string, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		labels = append(labels, n.Label)
	}
	return labels
}

func WithPosition(n MindMapNode, x, y float64) MindMapNode {
	n.X, n.Y = x, y
	return n
}

func WithLabel(n MindMapNode, label string) MindMapNode {
	n.Label = label
	return n
}

// ReplaceNode returns a copy of d where the node with n.ID is swapped for n.
// Unknown ids leave the copy unchanged.
func ReplaceNode(d MindMapData, n MindMapNode) MindMapData {
	out := d.Clone()
	for i := range out.Nodes {
		if out.Nodes[i].ID == n.ID {
			out.Nodes[i] = n
			break
		}
	}
	return out
}

// DefaultMindMap is the scratch map every new session starts with.
func DefaultMindMap(rootLabel string) MindMapData {
	return MindMapData{
		Nodes: []MindMapNode{{ID: "root", X: 250, Y: 250, Label: rootLabel, Type: NodeRoot}},
		Edges: []MindMapEdge{},
	}
}
