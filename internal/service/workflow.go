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

// NoticeGenerateFailed is shown when note synthesis yields nothing usable.
const NoticeGenerateFailed = "Could not generate plan. Please try again or add more details."

// Transcript flattens a message log into "role: content" lines.
func Transcript(messages []model.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}

// GenerateNote synthesizes a note from the active session and opens it for
// review once the remote call returns.
func (a *App) GenerateNote(ctx context.Context) error {
	return a.do(ctx, func(st *state) error {
		if st.view != model.ViewChat || st.phase != model.PhaseIdle {
			return fmt.Errorf("%w: generate needs an idle chat", ErrPrecondition)
		}
		session, ok := st.activeSession()
		if !ok {
			return fmt.Errorf("%w: no active session", ErrPrecondition)
		}

		st.phase = model.PhaseGenerating
		st.notice = ""
		st.workflowSeq++
		st.touch()

		seq := st.workflowSeq
		sessionID := session.ID
		transcript := Transcript(session.Messages)
		lang := st.lang
		remote(a, st, genai.OpSynthesize, func(ctx context.Context) *model.InspirationNote {
			return a.gen.SynthesizeNote(ctx, transcript, lang)
		}, func(st *state, note *model.InspirationNote) {
			if st.workflowSeq != seq || st.phase != model.PhaseGenerating {
				logger.Debugf("Stale note generation for session %s ignored", sessionID)
				return
			}
			st.phase = model.PhaseIdle
			st.touch()

			if _, _, ok := st.session(sessionID); !ok || st.activeID != sessionID {
				return
			}
			if note == nil {
				st.notice = NoticeGenerateFailed
				return
			}
			st.pendingNote = note
			st.activeSavedID = ""
			st.phase = model.PhaseReviewing
			st.view = model.ViewNoteReview
		})
		return nil
	})
}

// SaveNote files the pending note as a saved inspiration with deep copies of
// the session's mind map and memo.
func (a *App) SaveNote(ctx context.Context) (model.SavedInspiration, error) {
	var saved model.SavedInspiration
	err := a.do(ctx, func(st *state) error {
		if st.phase != model.PhaseReviewing || st.savedMode() || st.pendingNote == nil {
			return fmt.Errorf("%w: nothing to save", ErrPrecondition)
		}
		session, ok := st.activeSession()
		if !ok {
			return fmt.Errorf("%w: no active session", ErrPrecondition)
		}

		note := st.pendingNote.Clone()
		memo := session.Memo
		item := model.SavedInspiration{
			ID:           a.opts.NewID(),
			SessionID:    session.ID,
			Title:        note.Project.Summary,
			Date:         a.opts.Now().Format("2006-01-02"),
			Note:         note,
			MemoSnapshot: &memo,
		}
		if session.MindMap != nil {
			mm := session.MindMap.Clone()
			item.MindMapSnapshot = &mm
		}

		st.prependSaved(item)
		st.clearReview()
		st.view = model.ViewInspirations
		saved = item.Clone()
		logger.Infof("Inspiration saved: %s", item.ID)
		return nil
	})
	return saved, err
}

// OpenSaved loads a saved note for review in saved mode.
func (a *App) OpenSaved(ctx context.Context, id string) error {
	return a.do(ctx, func(st *state) error {
		if st.view != model.ViewInspirations {
			return fmt.Errorf("%w: open from the inspirations list", ErrPrecondition)
		}
		item, _, ok := st.savedItem(id)
		if !ok {
			return fmt.Errorf("%w: %s", ErrSavedNotFound, id)
		}

		st.clearReview()
		st.closeViewer()
		note := item.Note.Clone()
		st.pendingNote = &note
		st.activeSavedID = id
		st.phase = model.PhaseReviewing
		st.view = model.ViewNoteReview
		return nil
	})
}

// UpdateSavedNote replaces the note of the saved item under review.
func (a *App) UpdateSavedNote(ctx context.Context, note model.InspirationNote) error {
	return a.do(ctx, func(st *state) error {
		if !st.savedMode() || !st.reviewing() {
			return fmt.Errorf("%w: not reviewing a saved note", ErrPrecondition)
		}
		item, _, ok := st.savedItem(st.activeSavedID)
		if !ok {
			return fmt.Errorf("%w: %s", ErrSavedNotFound, st.activeSavedID)
		}

		st.replaceSaved(model.WithNote(item, note))
		pending := note.Clone()
		st.pendingNote = &pending
		// An edit supersedes any translation still in flight.
		st.phase = model.PhaseReviewing
		st.workflowSeq++
		st.touch()
		return nil
	})
}

// DeleteSaved removes a saved inspiration after confirmation.
func (a *App) DeleteSaved(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrDeclined
	}
	return a.do(ctx, func(st *state) error {
		if !st.removeSaved(id) {
			return fmt.Errorf("%w: %s", ErrSavedNotFound, id)
		}
		if st.viewer != nil && st.viewer.savedID == id {
			st.closeViewer()
		}
		if st.activeSavedID == id {
			if st.view == model.ViewNoteReview {
				st.view = model.ViewInspirations
			}
			st.clearReview()
		}
		st.touch()
		logger.Infof("Inspiration deleted: %s", id)
		return nil
	})
}

// ChangeLanguage switches the display language. A note under review is
// retranslated; on failure it stays in the previous language.
func (a *App) ChangeLanguage(ctx context.Context, lang model.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("%w: unsupported language %q", ErrPrecondition, lang)
	}
	return a.do(ctx, func(st *state) error {
		st.lang = lang
		st.touch()
		if st.sessionMap != nil {
			st.sessionMap.SetLabels(model.TextsFor(lang).NewIdea, a.opts.RootLabel)
		}

		if !st.reviewing() || st.pendingNote == nil {
			return nil
		}

		st.phase = model.PhaseTranslating
		st.workflowSeq++
		seq := st.workflowSeq
		source := st.pendingNote.Clone()
		remote(a, st, genai.OpTranslate, func(ctx context.Context) *model.InspirationNote {
			return a.gen.TranslateNote(ctx, source, lang)
		}, func(st *state, translated *model.InspirationNote) {
			if st.workflowSeq != seq || st.phase != model.PhaseTranslating || st.pendingNote == nil {
				return
			}
			if translated != nil {
				merged := model.MergeTranslation(*st.pendingNote, *translated)
				st.pendingNote = &merged
			} else {
				logger.Warnf("Translation to %s failed, keeping previous note", lang)
			}
			st.phase = model.PhaseReviewing
			st.touch()
		})
		return nil
	})
}

// DiscardNote drops an unsaved pending note and returns to the chat.
func (a *App) DiscardNote(ctx context.Context) error {
	return a.do(ctx, func(st *state) error {
		if !st.reviewing() || st.savedMode() {
			return fmt.Errorf("%w: no unsaved note under review", ErrPrecondition)
		}
		st.clearReview()
		if _, ok := st.activeSession(); ok {
			st.view = model.ViewChat
		} else {
			st.view = model.ViewHome
		}
		return nil
	})
}

// BackToList leaves saved-mode review for the inspirations list.
func (a *App) BackToList(ctx context.Context) error {
	return a.do(ctx, func(st *state) error {
		if !st.savedMode() || st.view != model.ViewNoteReview {
			return fmt.Errorf("%w: not reviewing a saved note", ErrPrecondition)
		}
		st.clearReview()
		st.view = model.ViewInspirations
		return nil
	})
}

// ApplyVisualStructure lays the pending note's structure out as a mind map,
// into the saved snapshot in saved mode or the active session otherwise.
func (a *App) ApplyVisualStructure(ctx context.Context) error {
	return a.do(ctx, func(st *state) error {
		if !st.reviewing() || st.pendingNote == nil || st.pendingNote.VisualStructure == nil {
			return fmt.Errorf("%w: no visual structure to apply", ErrPrecondition)
		}
		layout := mindmap.FromVisualStructure(*st.pendingNote.VisualStructure)

		if st.savedMode() {
			item, _, ok := st.savedItem(st.activeSavedID)
			if !ok {
				return fmt.Errorf("%w: %s", ErrSavedNotFound, st.activeSavedID)
			}
			item.MindMapSnapshot = &layout
			st.replaceSaved(item)
			return nil
		}
		if st.activeID == "" {
			return fmt.Errorf("%w: no active session", ErrPrecondition)
		}
		return a.updateSession(st, st.activeID, model.SessionPatch{MindMap: &layout})
	})
}
