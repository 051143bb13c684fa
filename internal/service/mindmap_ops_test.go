package service

import (
	"context"
	"testing"

	"musespark-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNode_KNodesOnSessionMap(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ctx := context.Background()
	_, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)

	const k = 5
	ids := map[string]bool{}
	for i := 0; i < k; i++ {
		node, ok, err := app.AddNode(ctx, MapSession)
		require.NoError(t, err)
		require.True(t, ok)
		ids[node.ID] = true
	}
	assert.Len(t, ids, k)

	session, _ := snapshot(t, app).ActiveSession()
	require.Len(t, session.MindMap.Nodes, 1+k)
	require.Len(t, session.MindMap.Edges, k)
	for _, e := range session.MindMap.Edges {
		assert.Equal(t, "root", e.Source)
		assert.True(t, ids[e.Target])
	}
}

func TestDrag_OnSessionMap(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ctx := context.Background()
	_, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)
	other, _, err := app.AddNode(ctx, MapSession)
	require.NoError(t, err)

	require.NoError(t, app.SetCanvasOrigin(ctx, MapSession, 100, 40))
	require.NoError(t, app.BeginDrag(ctx, MapSession, "root"))
	assert.Equal(t, "root", snapshot(t, app).MindMap.Dragging)
	require.NoError(t, app.ContinueDrag(ctx, MapSession, 400, 240))
	require.NoError(t, app.EndDrag(ctx, MapSession))
	require.NoError(t, app.EndDrag(ctx, MapSession))

	snap := snapshot(t, app)
	assert.Empty(t, snap.MindMap.Dragging)
	session, _ := snap.ActiveSession()
	root, _ := session.MindMap.Node("root")
	assert.Equal(t, 300.0, root.X)
	assert.Equal(t, 200.0, root.Y)
	moved, _ := session.MindMap.Node(other.ID)
	assert.Equal(t, other.X, moved.X)
	assert.Equal(t, other.Y, moved.Y)
}

func TestRenameNode_OnSessionMap(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ctx := context.Background()
	_, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)

	require.NoError(t, app.RenameNode(ctx, MapSession, "root", "Coffee"))
	session, _ := snapshot(t, app).ActiveSession()
	assert.Equal(t, "Coffee", session.MindMap.Nodes[0].Label)
}

func TestMapTarget_Unavailable(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ctx := context.Background()

	assert.ErrorIs(t, app.BeginDrag(ctx, MapSession, "root"), ErrPrecondition)
	assert.ErrorIs(t, app.EndDrag(ctx, MapViewer), ErrPrecondition)
	assert.ErrorIs(t, app.EndDrag(ctx, "canvas"), ErrPrecondition)
}

func TestSuggestNode_SingleFlight(t *testing.T) {
	gate := make(chan struct{})
	gen := &fakeGen{suggestGate: gate, phrase: "Cold brew"}
	app := newTestApp(t, gen, nil)
	ctx := context.Background()
	_, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)

	require.NoError(t, app.SetSuggestQuery(ctx, MapSession, "drinks"))
	assert.Equal(t, "drinks", snapshot(t, app).MindMap.Query)

	require.NoError(t, app.SuggestNode(ctx, MapSession, "drinks"))
	require.NoError(t, app.SuggestNode(ctx, MapSession, "more drinks"))
	snap := snapshot(t, app)
	assert.True(t, snap.MindMap.Suggesting)
	assert.Empty(t, snap.MindMap.Query)

	close(gate)
	idle(t, app)

	snap = snapshot(t, app)
	assert.False(t, snap.MindMap.Suggesting)
	assert.Equal(t, "Cold brew", snap.MindMap.Suggestion)
	require.Len(t, gen.suggestCalls, 1)
	assert.Equal(t, "Central Idea|drinks", gen.suggestCalls[0])
}

func TestSuggestNode_FailureAndBlankQuery(t *testing.T) {
	gen := &fakeGen{}
	app := newTestApp(t, gen, nil)
	ctx := context.Background()
	_, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)

	require.NoError(t, app.SuggestNode(ctx, MapSession, "  "))
	idle(t, app)
	assert.Empty(t, gen.suggestCalls)

	require.NoError(t, app.SuggestNode(ctx, MapSession, "drinks"))
	idle(t, app)
	snap := snapshot(t, app)
	assert.Empty(t, snap.MindMap.Suggestion)
	assert.False(t, snap.MindMap.Suggesting)
}

func TestSuggestNode_DroppedAfterSessionSwitch(t *testing.T) {
	gate := make(chan struct{})
	app := newTestApp(t, &fakeGen{suggestGate: gate, phrase: "Cold brew"}, nil)
	ctx := context.Background()

	first, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)
	_, err = app.CreateSession(ctx, "", nil)
	require.NoError(t, err)

	require.NoError(t, app.SuggestNode(ctx, MapSession, "drinks"))
	require.NoError(t, app.SelectSession(ctx, first.ID))
	close(gate)
	idle(t, app)

	snap := snapshot(t, app)
	assert.Empty(t, snap.MindMap.Suggestion)
	assert.False(t, snap.MindMap.Suggesting)
	assert.Equal(t, model.ViewChat, snap.View)
}
