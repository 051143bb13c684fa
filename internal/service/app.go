package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"musespark-backend/internal/genai"
	"musespark-backend/internal/metrics"
	"musespark-backend/internal/model"
	"musespark-backend/internal/storage"
	"musespark-backend/pkg/logger"

	"github.com/google/uuid"
)

type Options struct {
	Storage   storage.Storage
	Generator genai.Generator
	Metrics   *metrics.Metrics

	TitleMaxLength int
	RootLabel      string
	Language       model.Language
	// RemoteTimeout bounds each remote generation call; zero means none.
	RemoteTimeout time.Duration

	Now   func() time.Time
	NewID func() string
}

type command struct {
	fn    func(*state) error
	reply chan error
}

// App serializes every state mutation through one goroutine. Remote calls
// run on their own goroutines and hand their results back as commands, so
// the state is only ever touched by Run.
type App struct {
	opts    Options
	store   storage.Storage
	gen     *genai.Safe
	metrics *metrics.Metrics

	cmds chan command
	done chan struct{}
	ctx  context.Context

	st *state

	subMu  sync.Mutex
	subs   map[int]chan Snapshot
	nextID int
}

func New(opts Options) *App {
	if opts.Storage == nil {
		opts.Storage = storage.NewMemoryStorage()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.TitleMaxLength <= 0 {
		opts.TitleMaxLength = 20
	}
	if opts.RootLabel == "" {
		opts.RootLabel = "Central Idea"
	}
	if !opts.Language.Valid() {
		opts.Language = model.LangEN
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}

	a := &App{
		opts:    opts,
		store:   opts.Storage,
		gen:     genai.NewSafe(opts.Generator),
		metrics: opts.Metrics,
		cmds:    make(chan command, 64),
		done:    make(chan struct{}),
		ctx:     context.Background(),
		subs:    make(map[int]chan Snapshot),
	}
	a.st = newState(opts.Language)
	a.load()
	return a
}

// Run drains the command queue until ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	a.ctx = ctx
	defer close(a.done)

	logger.Info("App loop started")
	for {
		select {
		case <-ctx.Done():
			a.subMu.Lock()
			for id, ch := range a.subs {
				close(ch)
				delete(a.subs, id)
			}
			a.subMu.Unlock()
			logger.Info("App loop stopped")
			return
		case cmd := <-a.cmds:
			err := cmd.fn(a.st)
			a.afterCommand()
			if cmd.reply != nil {
				cmd.reply <- err
			}
		}
	}
}

// do runs fn on the loop and waits for it.
func (a *App) do(ctx context.Context, fn func(*state) error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}
	select {
	case a.cmds <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	case <-a.done:
		return ErrStopped
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-a.done:
		return ErrStopped
	}
}

// enqueue re-enters the loop without waiting. Used by remote continuations.
func (a *App) enqueue(fn func(*state) error) {
	select {
	case a.cmds <- command{fn: fn}:
	case <-a.done:
	}
}

// remote runs call off the loop and feeds its result back through enqueue.
// The state tracks the number of calls still in flight.
func remote[T any](a *App, st *state, op string, call func(ctx context.Context) T, cont func(*state, T)) {
	st.inflight++
	go func() {
		ctx := a.ctx
		if a.opts.RemoteTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, a.opts.RemoteTimeout)
			defer cancel()
		}

		logger.Debugf("remote %s started", op)
		result := call(ctx)
		a.enqueue(func(st *state) error {
			st.inflight--
			cont(st, result)
			return nil
		})
	}()
}

func (a *App) afterCommand() {
	st := a.st
	if !st.dirtySessions && !st.dirtySaved && !st.dirtyView {
		return
	}
	if st.dirtySessions {
		a.persist(storage.KeySessions, st.sessions)
	}
	if st.dirtySaved {
		a.persist(storage.KeyInspirations, st.saved)
	}
	st.dirtySessions, st.dirtySaved, st.dirtyView = false, false, false
	st.revision++

	a.metrics.IncCommits()
	logger.Debugf("state committed, revision %d", st.revision)
	a.publish(st.snapshot())
}

// Snapshot returns the current state as seen by views.
func (a *App) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := a.do(ctx, func(st *state) error {
		snap = st.snapshot()
		return nil
	})
	return snap, err
}

// Subscribe streams a snapshot after every commit. Slow readers only ever
// see the latest one.
func (a *App) Subscribe() (<-chan Snapshot, func()) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	id := a.nextID
	a.nextID++
	ch := make(chan Snapshot, 1)
	a.subs[id] = ch

	return ch, func() {
		a.subMu.Lock()
		defer a.subMu.Unlock()
		if c, ok := a.subs[id]; ok {
			close(c)
			delete(a.subs, id)
		}
	}
}

func (a *App) publish(snap Snapshot) {
	a.subMu.Lock()
	defer a.subMu.Unlock()

	for _, ch := range a.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

// WaitIdle blocks until no remote call is in flight and every continuation
// has been applied.
func (a *App) WaitIdle(ctx context.Context) error {
	for {
		var n int
		if err := a.do(ctx, func(st *state) error {
			n = st.inflight
			return nil
		}); err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait idle: %w", ctx.Err())
		case <-time.After(2 * time.Millisecond):
		}
	}
}
