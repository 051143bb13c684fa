package model

import "time"

type ChatSession struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Messages    []Message    `json:"messages"`
	MindMap     *MindMapData `json:"mindMap,omitempty"`
	Memo        string       `json:"memo"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

// SessionPatch is the partial update accepted by updateSession. Nil fields
// are left untouched.
type SessionPatch struct {
	Title   *string      `json:"title,omitempty"`
	MindMap *MindMapData `json:"mindMap,omitempty"`
	Memo    *string      `json:"memo,omitempty"`
}

// Clone returns a deep copy of s.
func (s ChatSession) Clone() ChatSession {
	msgs := make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		msgs[i] = m.Clone()
	}
	s.Messages = msgs
	if s.MindMap != nil {
		mm := s.MindMap.Clone()
		s.MindMap = &mm
	}
	return s
}

// WithMessage returns a copy of s with msg appended. The receiver's message
// slice is never written to.
func WithMessage(s ChatSession, msg Message, now time.Time) ChatSession {
	msgs := make([]Message, len(s.Messages), len(s.Messages)+1)
	copy(msgs, s.Messages)
	s.Messages = append(msgs, msg)
	s.LastUpdated = now
	return s
}

// WithPatch merges p into a copy of s and refreshes LastUpdated.
func WithPatch(s ChatSession, p SessionPatch, now time.Time) ChatSession {
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.MindMap != nil {
		mm := p.MindMap.Clone()
		s.MindMap = &mm
	}
	if p.Memo != nil {
		s.Memo = *p.Memo
	}
	s.LastUpdated = now
	return s
}
