package service

import (
	"context"
	"testing"

	"musespark-backend/internal/genai"
	"musespark-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession_DefaultTitlesAndOrder(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ctx := context.Background()

	first, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)
	second, err := app.CreateSession(ctx, "   ", nil)
	require.NoError(t, err)

	assert.Equal(t, "Start Chat 1", first.Title)
	assert.Equal(t, "Start Chat 2", second.Title)
	assert.Empty(t, second.Messages)
	require.NotNil(t, second.MindMap)
	assert.Len(t, second.MindMap.Nodes, 1)
	assert.Equal(t, model.NodeRoot, second.MindMap.Nodes[0].Type)

	snap := snapshot(t, app)
	require.Len(t, snap.Sessions, 2)
	assert.Equal(t, second.ID, snap.Sessions[0].ID)
	assert.Equal(t, second.ID, snap.ActiveSessionID)
	assert.Equal(t, model.ViewChat, snap.View)
	assert.False(t, snap.SidebarOpen)
}

func TestCreateSession_ScenarioTitleAndReply(t *testing.T) {
	gate := make(chan struct{})
	gen := &fakeGen{converseGate: gate}
	app := newTestApp(t, gen, nil)

	created, err := app.CreateSession(context.Background(), "Build a subscription box for artisanal coffee", nil)
	require.NoError(t, err)
	assert.Equal(t, "Build a subscription...", created.Title)

	snap := snapshot(t, app)
	session, ok := snap.ActiveSession()
	require.True(t, ok)
	require.Len(t, session.Messages, 1)
	assert.Equal(t, model.RoleUser, session.Messages[0].Role)
	assert.True(t, snap.Responding)

	close(gate)
	idle(t, app)

	snap = snapshot(t, app)
	session, _ = snap.ActiveSession()
	require.Len(t, session.Messages, 2)
	assert.Equal(t, model.RoleModel, session.Messages[1].Role)
	assert.Equal(t, "re: Build a subscription box for artisanal coffee", session.Messages[1].Content)
	assert.False(t, snap.Responding)

	require.Len(t, gen.converseCalls, 1)
	assert.Empty(t, gen.converseCalls[0].history)
}

func TestCreateSession_TitleRules(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ctx := context.Background()

	short, err := app.CreateSession(ctx, "  Tea club  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "Tea club", short.Title)

	exact, err := app.CreateSession(ctx, "Build a subscription", nil)
	require.NoError(t, err)
	assert.Equal(t, "Build a subscription", exact.Title)

	img, err := app.CreateSession(ctx, "", &model.Attachment{MimeType: "image/png", Data: "AAAA"})
	require.NoError(t, err)
	assert.Equal(t, "Image Chat", img.Title)
	require.Len(t, img.Messages, 1)
	assert.NotNil(t, img.Messages[0].Attachment)

	require.NoError(t, app.ChangeLanguage(ctx, model.LangZH))
	wide, err := app.CreateSession(ctx, "一二三四五六七八九十一二三四五六七八九十一二", nil)
	require.NoError(t, err)
	assert.Equal(t, "一二三四五六七八九十一二三四五六七八九十...", wide.Title)
	idle(t, app)
}

func TestSendMessage_LogIs2N(t *testing.T) {
	gen := &fakeGen{}
	app := newTestApp(t, gen, nil)
	ctx := context.Background()
	session, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)

	texts := []string{"one", "two", "three", "four"}
	for _, text := range texts {
		require.NoError(t, app.SendMessage(ctx, session.ID, text, nil))
	}
	idle(t, app)

	got, ok := snapshot(t, app).ActiveSession()
	require.True(t, ok)
	require.Len(t, got.Messages, 2*len(texts))
	for i, text := range texts {
		assert.Equal(t, model.RoleUser, got.Messages[2*i].Role)
		assert.Equal(t, text, got.Messages[2*i].Content)
		assert.Equal(t, model.RoleModel, got.Messages[2*i+1].Role)
		assert.Equal(t, "re: "+text, got.Messages[2*i+1].Content)
	}
	assert.Equal(t, "one", got.Title)
}

func TestSendMessage_QueuesWhileResponding(t *testing.T) {
	gate := make(chan struct{})
	gen := &fakeGen{converseGate: gate}
	app := newTestApp(t, gen, nil)
	ctx := context.Background()

	session, err := app.CreateSession(ctx, "first", nil)
	require.NoError(t, err)
	require.NoError(t, app.SendMessage(ctx, "", "second", nil))

	snap := snapshot(t, app)
	got, _ := snap.ActiveSession()
	assert.Len(t, got.Messages, 1)
	assert.Equal(t, 1, snap.QueuedMessages)

	close(gate)
	idle(t, app)

	got, _ = snapshot(t, app).ActiveSession()
	require.Len(t, got.Messages, 4)
	assert.Equal(t, "second", got.Messages[2].Content)

	require.Len(t, gen.converseCalls, 2)
	assert.Len(t, gen.converseCalls[1].history, 2)
	assert.Equal(t, session.ID, got.ID)
}

func TestSendMessage_FallbackOnFailure(t *testing.T) {
	app := newTestApp(t, &fakeGen{converseFail: true}, nil)
	_, err := app.CreateSession(context.Background(), "hello", nil)
	require.NoError(t, err)
	idle(t, app)

	got, _ := snapshot(t, app).ActiveSession()
	require.Len(t, got.Messages, 2)
	assert.Equal(t, genai.ChatFallback, got.Messages[1].Content)
}

func TestSendMessage_Preconditions(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ctx := context.Background()

	assert.ErrorIs(t, app.SendMessage(ctx, "", "hello", nil), ErrPrecondition)

	session, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)
	assert.ErrorIs(t, app.SendMessage(ctx, session.ID, "  ", nil), ErrPrecondition)
	assert.ErrorIs(t, app.SendMessage(ctx, "missing", "hi", nil), ErrSessionNotFound)

	got, _ := snapshot(t, app).ActiveSession()
	assert.Empty(t, got.Messages)
}

func TestDeleteSession_ActiveReturnsHome(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := app.CreateSession(ctx, "", nil)
		require.NoError(t, err)
	}
	require.NoError(t, app.TogglePanel(ctx, model.PanelMemo))

	active := snapshot(t, app).ActiveSessionID
	require.NoError(t, app.DeleteSession(ctx, active, true))

	snap := snapshot(t, app)
	assert.Empty(t, snap.ActiveSessionID)
	assert.Equal(t, model.ViewHome, snap.View)
	assert.Len(t, snap.Sessions, 2)
	assert.Equal(t, model.PanelNone, snap.ToolPanel)
	assert.Nil(t, snap.MindMap)
}

func TestDeleteSession_OtherKeepsSelection(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ctx := context.Background()

	older, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)
	newer, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)

	require.NoError(t, app.DeleteSession(ctx, older.ID, true))
	snap := snapshot(t, app)
	assert.Equal(t, newer.ID, snap.ActiveSessionID)
	assert.Equal(t, model.ViewChat, snap.View)
}

func TestDeleteSession_DeclinedOrMissing(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ctx := context.Background()
	session, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, app.DeleteSession(ctx, session.ID, false), ErrDeclined)
	assert.ErrorIs(t, app.DeleteSession(ctx, "missing", true), ErrSessionNotFound)
	assert.Len(t, snapshot(t, app).Sessions, 1)
}

func TestDeleteSession_PendingReplyDropped(t *testing.T) {
	gate := make(chan struct{})
	app := newTestApp(t, &fakeGen{converseGate: gate}, nil)
	ctx := context.Background()

	session, err := app.CreateSession(ctx, "hello", nil)
	require.NoError(t, err)
	require.NoError(t, app.DeleteSession(ctx, session.ID, true))

	close(gate)
	idle(t, app)
	assert.Empty(t, snapshot(t, app).Sessions)
}

func TestSelectSession(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ctx := context.Background()

	first, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)
	_, err = app.CreateSession(ctx, "", nil)
	require.NoError(t, err)
	require.NoError(t, app.SetSidebar(ctx, true))

	require.NoError(t, app.SelectSession(ctx, first.ID))
	snap := snapshot(t, app)
	assert.Equal(t, first.ID, snap.ActiveSessionID)
	assert.False(t, snap.SidebarOpen)
	require.NotNil(t, snap.MindMap)

	assert.ErrorIs(t, app.SelectSession(ctx, "missing"), ErrSessionNotFound)
}

func TestUpdateSession_MergesFields(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ctx := context.Background()
	session, err := app.CreateSession(ctx, "", nil)
	require.NoError(t, err)

	title := "Renamed"
	mm := model.MindMapData{
		Nodes: []model.MindMapNode{{ID: "a", Label: "A", Type: model.NodeRoot}},
		Edges: []model.MindMapEdge{},
	}
	require.NoError(t, app.UpdateSession(ctx, session.ID, model.SessionPatch{Title: &title, MindMap: &mm}))
	require.NoError(t, app.UpdateMemo(ctx, "remember the beans"))

	snap := snapshot(t, app)
	got, _ := snap.ActiveSession()
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, "remember the beans", got.Memo)
	assert.Equal(t, "A", got.MindMap.Nodes[0].Label)
	require.NotNil(t, snap.MindMap)
	assert.Equal(t, "A", snap.MindMap.Data.Nodes[0].Label)

	assert.ErrorIs(t, app.UpdateSession(ctx, "missing", model.SessionPatch{Title: &title}), ErrSessionNotFound)
}
