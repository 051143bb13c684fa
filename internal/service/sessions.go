package service

import (
	"context"
	"fmt"
	"strings"

	"musespark-backend/internal/genai"
	"musespark-backend/internal/mindmap"
	"musespark-backend/internal/model"
	"musespark-backend/pkg/logger"
)

// CreateSession starts a new chat and makes it active. A non-empty prompt
// or attachment is sent as the first message right away.
func (a *App) CreateSession(ctx context.Context, initialPrompt string, attachment *model.Attachment) (model.ChatSession, error) {
	var created model.ChatSession
	err := a.do(ctx, func(st *state) error {
		texts := model.TextsFor(st.lang)
		mm := model.DefaultMindMap(a.opts.RootLabel)
		session := model.ChatSession{
			ID:          a.opts.NewID(),
			Title:       fmt.Sprintf("%s %d", texts.StartChat, len(st.sessions)+1),
			Messages:    []model.Message{},
			MindMap:     &mm,
			Memo:        "",
			LastUpdated: a.opts.Now(),
		}
		st.prependSession(session)
		a.activate(st, session.ID)

		if strings.TrimSpace(initialPrompt) != "" || attachment != nil {
			a.startSend(st, session.ID, outgoing{text: initialPrompt, attachment: attachment})
		}

		created, _, _ = st.session(session.ID)
		logger.Infof("Session created: %s", session.ID)
		return nil
	})
	return created.Clone(), err
}

// activate selects a session and shows it in the chat view.
func (a *App) activate(st *state, id string) {
	st.activeID = id
	st.view = model.ViewChat
	st.clearReview()
	st.closeViewer()
	st.sidebarOpen = false
	a.bindSessionMap(st)
}

// SelectSession makes an existing session active.
func (a *App) SelectSession(ctx context.Context, id string) error {
	return a.do(ctx, func(st *state) error {
		if _, _, ok := st.session(id); !ok {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		a.activate(st, id)
		return nil
	})
}

// SendMessage appends a user message to the session and asks for a reply.
// While a reply is pending the message waits in the session's queue, so the
// log always alternates user and model turns.
func (a *App) SendMessage(ctx context.Context, sessionID, text string, attachment *model.Attachment) error {
	return a.do(ctx, func(st *state) error {
		if strings.TrimSpace(text) == "" && attachment == nil {
			return fmt.Errorf("%w: empty message", ErrPrecondition)
		}
		if st.activeID == "" {
			return fmt.Errorf("%w: no active session", ErrPrecondition)
		}
		if sessionID == "" {
			sessionID = st.activeID
		}
		if _, _, ok := st.session(sessionID); !ok {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
		}

		out := outgoing{text: text, attachment: attachment}
		if st.responding[sessionID] {
			st.queues[sessionID] = append(st.queues[sessionID], out)
			st.touch()
			logger.Debugf("Session %s busy, message queued (%d waiting)", sessionID, len(st.queues[sessionID]))
			return nil
		}
		a.startSend(st, sessionID, out)
		return nil
	})
}

func (a *App) startSend(st *state, sessionID string, out outgoing) {
	session, _, ok := st.session(sessionID)
	if !ok {
		return
	}

	msg := model.Message{
		ID:         a.opts.NewID(),
		Role:       model.RoleUser,
		Content:    out.text,
		Attachment: out.attachment,
		Timestamp:  a.opts.Now(),
	}
	history := session.Messages
	next := model.WithMessage(session, msg, a.opts.Now())
	if len(history) == 0 {
		next.Title = a.deriveTitle(st.lang, out.text)
	}
	st.replaceSession(next)
	st.responding[sessionID] = true
	st.touch()

	lang := st.lang
	remote(a, st, genai.OpConverse, func(ctx context.Context) string {
		return a.gen.Converse(ctx, history, msg, lang)
	}, func(st *state, reply string) {
		a.finishSend(st, sessionID, reply)
	})
}

func (a *App) finishSend(st *state, sessionID, reply string) {
	delete(st.responding, sessionID)
	st.touch()

	session, _, ok := st.session(sessionID)
	if !ok {
		delete(st.queues, sessionID)
		logger.Debugf("Reply for deleted session %s dropped", sessionID)
		return
	}

	st.replaceSession(model.WithMessage(session, model.Message{
		ID:        a.opts.NewID(),
		Role:      model.RoleModel,
		Content:   reply,
		Timestamp: a.opts.Now(),
	}, a.opts.Now()))

	if queue := st.queues[sessionID]; len(queue) > 0 {
		next := queue[0]
		if len(queue) == 1 {
			delete(st.queues, sessionID)
		} else {
			st.queues[sessionID] = queue[1:]
		}
		a.startSend(st, sessionID, next)
	}
}

// deriveTitle names a session after its first message.
func (a *App) deriveTitle(lang model.Language, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.TextsFor(lang).ImageChat
	}
	runes := []rune(text)
	if len(runes) <= a.opts.TitleMaxLength {
		return text
	}
	return string(runes[:a.opts.TitleMaxLength]) + "..."
}

// DeleteSession removes a session after confirmation. Deleting the active
// session returns to home.
func (a *App) DeleteSession(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrDeclined
	}
	return a.do(ctx, func(st *state) error {
		if !st.removeSession(id) {
			return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
		}
		delete(st.queues, id)

		if st.activeID == id {
			st.activeID = ""
			st.view = model.ViewHome
			st.clearReview()
			st.closeViewer()
			st.panel = model.PanelNone
			st.fullScreen = false
			st.sessionMap = nil
		}
		st.touch()
		logger.Infof("Session deleted: %s", id)
		return nil
	})
}

// UpdateSession merges patch into the session.
func (a *App) UpdateSession(ctx context.Context, id string, patch model.SessionPatch) error {
	return a.do(ctx, func(st *state) error {
		return a.updateSession(st, id, patch)
	})
}

func (a *App) updateSession(st *state, id string, patch model.SessionPatch) error {
	session, _, ok := st.session(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	st.replaceSession(model.WithPatch(session, patch, a.opts.Now()))
	if patch.MindMap != nil && id == st.activeID {
		a.bindSessionMap(st)
	}
	return nil
}

// UpdateMemo rewrites the active session's memo.
func (a *App) UpdateMemo(ctx context.Context, memo string) error {
	return a.do(ctx, func(st *state) error {
		if st.activeID == "" {
			return fmt.Errorf("%w: no active session", ErrPrecondition)
		}
		return a.updateSession(st, st.activeID, model.SessionPatch{Memo: &memo})
	})
}

// bindSessionMap points the session mind map engine at the active session.
func (a *App) bindSessionMap(st *state) {
	session, ok := st.activeSession()
	if !ok {
		st.sessionMap = nil
		return
	}
	data := model.MindMapData{}
	if session.MindMap != nil {
		data = *session.MindMap
	}

	id := session.ID
	texts := model.TextsFor(st.lang)
	st.sessionMap = mindmap.New(data, false,
		mindmap.WithIDs(a.opts.NewID),
		mindmap.WithLabels(texts.NewIdea, a.opts.RootLabel),
		mindmap.OnChange(func(d model.MindMapData) {
			if s, _, ok := st.session(id); ok {
				st.replaceSession(model.WithPatch(s, model.SessionPatch{MindMap: &d}, a.opts.Now()))
			}
		}),
	)
	st.touch()
}
