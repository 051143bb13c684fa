package mindmap

import (
	"fmt"
	"math"

	"musespark-backend/internal/model"
)

const (
	branchRadius = 180.0
	subRadius    = 120.0
	subSpread    = 0.35
)

// FromVisualStructure lays a note's structure out as a tree: the central
// node at the default point, branches evenly on a circle and each branch's
// subs fanned outward along the branch direction.
func FromVisualStructure(vs model.VisualStructure) model.MindMapData {
	root := model.MindMapNode{ID: "root", X: DefaultX, Y: DefaultY, Label: vs.CentralNode, Type: model.NodeRoot}
	data := model.MindMapData{
		Nodes: []model.MindMapNode{root},
		Edges: []model.MindMapEdge{},
	}

	n := len(vs.Branches)
	for i, b := range vs.Branches {
		angle := 2 * math.Pi * float64(i) / float64(n)
		bx := root.X + branchRadius*math.Cos(angle)
		by := root.Y + branchRadius*math.Sin(angle)
		branchID := fmt.Sprintf("branch-%d", i)

		data.Nodes = append(data.Nodes, model.MindMapNode{ID: branchID, X: round(bx), Y: round(by), Label: b.Main, Type: model.NodeChild})
		data.Edges = append(data.Edges, model.MindMapEdge{ID: "e-" + branchID, Source: root.ID, Target: branchID})

		m := len(b.Subs)
		for j, sub := range b.Subs {
			offset := 0.0
			if m > 1 {
				offset = subSpread * (float64(j)/float64(m-1)*2 - 1)
			}
			sx := bx + subRadius*math.Cos(angle+offset)
			sy := by + subRadius*math.Sin(angle+offset)
			subID := fmt.Sprintf("%s-%d", branchID, j)

			data.Nodes = append(data.Nodes, model.MindMapNode{ID: subID, X: round(sx), Y: round(sy), Label: sub, Type: model.NodeChild})
			data.Edges = append(data.Edges, model.MindMapEdge{ID: "e-" + subID, Source: branchID, Target: subID})
		}
	}
	return data
}

func round(v float64) float64 {
	return math.Round(v*10) / 10
}
