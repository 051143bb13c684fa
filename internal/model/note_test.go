package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspirationNoteClone_KeepsEmptyBranches(t *testing.T) {
	note := InspirationNote{
		ID:              "n1",
		Project:         ProjectSection{Summary: "Coffee Box"},
		VisualStructure: &VisualStructure{CentralNode: "Coffee Box", Branches: []Branch{}},
	}

	clone := note.Clone()
	require.NotNil(t, clone.VisualStructure)
	assert.NotNil(t, clone.VisualStructure.Branches)
	assert.Equal(t, note, clone)

	data, err := json.Marshal(clone.VisualStructure)
	require.NoError(t, err)
	assert.JSONEq(t, `{"centralNode":"Coffee Box","branches":[]}`, string(data))
}

func TestInspirationNoteClone_DoesNotAlias(t *testing.T) {
	note := InspirationNote{
		Project: ProjectSection{Tags: []string{"coffee"}},
		VisualStructure: &VisualStructure{
			CentralNode: "Coffee Box",
			Branches:    []Branch{{Main: "Sourcing", Subs: []string{"Farms"}}},
		},
	}

	clone := note.Clone()
	clone.Project.Tags[0] = "tea"
	clone.VisualStructure.Branches[0].Subs[0] = "Estates"

	assert.Equal(t, "coffee", note.Project.Tags[0])
	assert.Equal(t, "Farms", note.VisualStructure.Branches[0].Subs[0])
}
