package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"musespark-backend/internal/model"
	"musespark-backend/internal/storage"
	"musespark-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Discard()
	os.Exit(m.Run())
}

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

var errRemote = errors.New("remote unavailable")

// fakeGen is a scripted generation client. Gates, when set, hold the call
// until they are closed or the app stops.
type fakeGen struct {
	mu sync.Mutex

	converseGate  chan struct{}
	converseFail  bool
	converseCalls []converseCall

	note         *model.InspirationNote
	synthGate    chan struct{}
	transcripts  []string

	translateGate chan struct{}
	translated    *model.InspirationNote
	translateErr  error

	suggestGate  chan struct{}
	phrase       string
	suggestCalls []string
}

type converseCall struct {
	history []model.Message
	current model.Message
	lang    model.Language
}

func wait(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeGen) Converse(ctx context.Context, history []model.Message, current model.Message, lang model.Language) (string, error) {
	f.mu.Lock()
	f.converseCalls = append(f.converseCalls, converseCall{history: history, current: current, lang: lang})
	gate, fail := f.converseGate, f.converseFail
	f.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return "", err
	}
	if fail {
		return "", errRemote
	}
	return "re: " + current.Content, nil
}

func (f *fakeGen) SynthesizeNote(ctx context.Context, transcript string, lang model.Language) (*model.InspirationNote, error) {
	f.mu.Lock()
	f.transcripts = append(f.transcripts, transcript)
	gate, note := f.synthGate, f.note
	f.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return nil, err
	}
	if note == nil {
		return nil, errRemote
	}
	out := note.Clone()
	return &out, nil
}

func (f *fakeGen) TranslateNote(ctx context.Context, note model.InspirationNote, lang model.Language) (*model.InspirationNote, error) {
	f.mu.Lock()
	gate, translated, err := f.translateGate, f.translated, f.translateErr
	f.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	out := translated.Clone()
	return &out, nil
}

func (f *fakeGen) SuggestNode(ctx context.Context, labels, query string, lang model.Language) (string, error) {
	f.mu.Lock()
	f.suggestCalls = append(f.suggestCalls, labels+"|"+query)
	gate, phrase := f.suggestGate, f.phrase
	f.mu.Unlock()

	if err := wait(ctx, gate); err != nil {
		return "", err
	}
	if phrase == "" {
		return "", errRemote
	}
	return phrase, nil
}

func sampleNote(summary string) *model.InspirationNote {
	return &model.InspirationNote{
		ID:        "note-1",
		CreatedAt: testNow,
		Project: model.ProjectSection{
			Summary:        summary,
			TargetAudience: "Home baristas",
			Tags:           []string{"coffee", "subscription"},
		},
		Business: model.BusinessSection{
			ValueProps:  []string{"Fresh roasts"},
			MVPFeatures: []string{"Monthly box"},
			Strategy:    "Direct to consumer",
		},
		Legal: model.LegalSection{Risks: []string{"Food safety"}, Disclaimer: "Not legal advice"},
		VisualStructure: &model.VisualStructure{
			CentralNode: "Coffee Box",
			Branches: []model.Branch{
				{Main: "Sourcing", Subs: []string{"Farms", "Roasters"}},
				{Main: "Delivery"},
			},
		},
	}
}

func newTestApp(t *testing.T, gen *fakeGen, store storage.Storage) *App {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStorage()
	}
	var n int64
	app := New(Options{
		Storage:   store,
		Generator: gen,
		Now:       func() time.Time { return testNow },
		NewID:     func() string { return fmt.Sprintf("id-%d", atomic.AddInt64(&n, 1)) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	go app.Run(ctx)
	t.Cleanup(cancel)
	return app
}

func snapshot(t *testing.T, app *App) Snapshot {
	t.Helper()
	snap, err := app.Snapshot(context.Background())
	require.NoError(t, err)
	return snap
}

func idle(t *testing.T, app *App) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, app.WaitIdle(ctx))
}

// startReview creates a session with one exchange and generates a note for
// it.
func startReview(t *testing.T, app *App) Snapshot {
	t.Helper()
	ctx := context.Background()
	_, err := app.CreateSession(ctx, "Build a subscription box for artisanal coffee", nil)
	require.NoError(t, err)
	idle(t, app)
	require.NoError(t, app.GenerateNote(ctx))
	idle(t, app)

	snap := snapshot(t, app)
	require.Equal(t, model.PhaseReviewing, snap.Phase)
	require.NotNil(t, snap.PendingNote)
	return snap
}

func TestSubscribe_ReceivesCommits(t *testing.T) {
	app := newTestApp(t, &fakeGen{}, nil)
	ch, cancel := app.Subscribe()
	defer cancel()

	_, err := app.CreateSession(context.Background(), "", nil)
	require.NoError(t, err)

	select {
	case snap := <-ch:
		assert.Len(t, snap.Sessions, 1)
		assert.Equal(t, model.ViewChat, snap.View)
		assert.NotZero(t, snap.Revision)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot published")
	}
}

func TestRun_StopClosesSubscribers(t *testing.T) {
	app := New(Options{Generator: &fakeGen{}})
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(stopped)
	}()

	ch, _ := app.Subscribe()
	cancel()
	<-stopped

	_, open := <-ch
	assert.False(t, open)
	assert.ErrorIs(t, app.GoHome(context.Background()), ErrStopped)
}

func TestPersistence_ReloadsCollections(t *testing.T) {
	store := storage.NewMemoryStorage()
	gen := &fakeGen{note: sampleNote("Coffee Box")}
	app := newTestApp(t, gen, store)
	startReview(t, app)
	_, err := app.SaveNote(context.Background())
	require.NoError(t, err)

	reloaded := newTestApp(t, gen, store)
	snap := snapshot(t, reloaded)
	require.Len(t, snap.Sessions, 1)
	assert.Len(t, snap.Sessions[0].Messages, 2)
	require.Len(t, snap.Inspirations, 1)
	assert.Equal(t, "Coffee Box", snap.Inspirations[0].Title)
	assert.Equal(t, model.ViewHome, snap.View)
}

func TestPersistence_CorruptBlobStartsEmpty(t *testing.T) {
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Write(storage.KeySessions, []byte("{not json")))
	require.NoError(t, store.Write(storage.KeyInspirations, []byte(`[{"id":"s1","title":"Kept"}]`)))

	app := newTestApp(t, &fakeGen{}, store)
	snap := snapshot(t, app)
	assert.Empty(t, snap.Sessions)
	require.Len(t, snap.Inspirations, 1)
	assert.Equal(t, "Kept", snap.Inspirations[0].Title)
}

func TestPersistence_MistypedBlobStartsEmpty(t *testing.T) {
	store := storage.NewMemoryStorage()
	original := []byte(`[{"id":"a","title":"ok","messages":[]},{"id":"b","title":5}]`)
	require.NoError(t, store.Write(storage.KeySessions, original))

	app := newTestApp(t, &fakeGen{}, store)
	assert.Empty(t, snapshot(t, app).Sessions)

	// The damaged blob is not rewritten until something actually changes.
	data, err := store.Read(storage.KeySessions)
	require.NoError(t, err)
	assert.Equal(t, original, data)
}

func TestLoadInspirations(t *testing.T) {
	store := storage.NewMemoryStorage()
	items, err := LoadInspirations(store)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, store.Write(storage.KeyInspirations, []byte("nope")))
	_, err = LoadInspirations(store)
	assert.ErrorIs(t, err, storage.ErrInvalidData)
}
