package genai

import (
	"context"

	"musespark-backend/internal/model"
	"musespark-backend/pkg/logger"
)

// ChatFallback is the reply appended when the conversational call fails.
const ChatFallback = "I'm having trouble connecting. Please try again."

// Safe is the failure boundary around a Generator: callers only ever see a
// usable result or the documented sentinel (nil, "" or ChatFallback).
type Safe struct {
	gen Generator
}

func NewSafe(gen Generator) *Safe {
	return &Safe{gen: gen}
}

func (s *Safe) Converse(ctx context.Context, history []model.Message, current model.Message, lang model.Language) (reply string) {
	defer s.recoverTo(OpConverse, func() { reply = ChatFallback })

	reply, err := s.gen.Converse(ctx, history, current, lang)
	if err != nil {
		logger.Warnf("%s failed: %v", OpConverse, err)
		return ChatFallback
	}
	return reply
}

func (s *Safe) SynthesizeNote(ctx context.Context, transcript string, lang model.Language) (note *model.InspirationNote) {
	defer s.recoverTo(OpSynthesize, func() { note = nil })

	note, err := s.gen.SynthesizeNote(ctx, transcript, lang)
	if err != nil {
		logger.Warnf("%s failed: %v", OpSynthesize, err)
		return nil
	}
	return note
}

func (s *Safe) TranslateNote(ctx context.Context, note model.InspirationNote, lang model.Language) (out *model.InspirationNote) {
	defer s.recoverTo(OpTranslate, func() { out = nil })

	out, err := s.gen.TranslateNote(ctx, note, lang)
	if err != nil {
		logger.Warnf("%s failed: %v", OpTranslate, err)
		return nil
	}
	return out
}

func (s *Safe) SuggestNode(ctx context.Context, labels, query string, lang model.Language) (phrase string) {
	defer s.recoverTo(OpSuggest, func() { phrase = "" })

	phrase, err := s.gen.SuggestNode(ctx, labels, query, lang)
	if err != nil {
		logger.Warnf("%s failed: %v", OpSuggest, err)
		return ""
	}
	return phrase
}

func (s *Safe) recoverTo(op string, fallback func()) {
	if r := recover(); r != nil {
		logger.Errorf("%s panicked: %v", op, r)
		fallback()
	}
}
