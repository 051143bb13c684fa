package model

import (
	"fmt"
	"strings"
	"time"
)

type ProjectSection struct {
	Summary        string   `json:"summary" validate:"required"`
	TargetAudience string   `json:"targetAudience"`
	Scenarios      string   `json:"scenarios"`
	Tags           []string `json:"tags"`
	Details        string   `json:"details"`
}

type BusinessSection struct {
	ValueProps   []string `json:"valueProps"`
	Difficulties []string `json:"difficulties"`
	MVPFeatures  []string `json:"mvpFeatures"`
	Strategy     string   `json:"strategy"`
}

type LegalSection struct {
	Risks      []string `json:"risks"`
	Disclaimer string   `json:"disclaimer"`
}

type Branch struct {
	Main string   `json:"main" validate:"required"`
	Subs []string `json:"subs"`
}

type VisualStructure struct {
	CentralNode string   `json:"centralNode" validate:"required"`
	Branches    []Branch `json:"branches" validate:"dive"`
}

// InspirationNote is the structured brief synthesized from a conversation.
type InspirationNote struct {
	ID              string           `json:"id"`
	CreatedAt       time.Time        `json:"createdAt"`
	Project         ProjectSection   `json:"project"`
	Business        BusinessSection  `json:"business"`
	Legal           LegalSection     `json:"legal"`
	VisualStructure *VisualStructure `json:"visualStructure,omitempty"`
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func (n InspirationNote) Clone() InspirationNote {
	n.Project.Tags = cloneStrings(n.Project.Tags)
	n.Business.ValueProps = cloneStrings(n.Business.ValueProps)
	n.Business.Difficulties = cloneStrings(n.Business.Difficulties)
	n.Business.MVPFeatures = cloneStrings(n.Business.MVPFeatures)
	n.Legal.Risks = cloneStrings(n.Legal.Risks)
	if n.VisualStructure != nil {
		vs := VisualStructure{CentralNode: n.VisualStructure.CentralNode}
		if n.VisualStructure.Branches != nil {
			vs.Branches = make([]Branch, 0, len(n.VisualStructure.Branches))
		}
		for _, b := range n.VisualStructure.Branches {
			vs.Branches = append(vs.Branches, Branch{Main: b.Main, Subs: cloneStrings(b.Subs)})
		}
		n.VisualStructure = &vs
	}
	return n
}

// MergeTranslation overlays the textual sections of translated onto n and
// keeps n's identity fields.
func MergeTranslation(n, translated InspirationNote) InspirationNote {
	out := n.Clone()
	t := translated.Clone()
	out.Project = t.Project
	out.Business = t.Business
	out.Legal = t.Legal
	if t.VisualStructure != nil {
		out.VisualStructure = t.VisualStructure
	}
	return out
}

// Markdown renders the note as a readable brief.
func (n InspirationNote) Markdown() string {
	var b strings.Builder
	list := func(items []string) {
		for _, it := range items {
			fmt.Fprintf(&b, "- %s\n", it)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "# %s\n\n", n.Project.Summary)
	if len(n.Project.Tags) > 0 {
		fmt.Fprintf(&b, "_%s_\n\n", strings.Join(n.Project.Tags, " · "))
	}
	b.WriteString("## Project\n\n")
	fmt.Fprintf(&b, "**Target audience:** %s\n\n", n.Project.TargetAudience)
	fmt.Fprintf(&b, "**Scenarios:** %s\n\n", n.Project.Scenarios)
	fmt.Fprintf(&b, "%s\n\n", n.Project.Details)

	b.WriteString("## Business\n\n### Value propositions\n\n")
	list(n.Business.ValueProps)
	b.WriteString("### Difficulties\n\n")
	list(n.Business.Difficulties)
	b.WriteString("### MVP features\n\n")
	list(n.Business.MVPFeatures)
	fmt.Fprintf(&b, "**Strategy:** %s\n\n", n.Business.Strategy)

	b.WriteString("## Legal\n\n")
	list(n.Legal.Risks)
	fmt.Fprintf(&b, "> %s\n", n.Legal.Disclaimer)

	if vs := n.VisualStructure; vs != nil {
		fmt.Fprintf(&b, "\n## Structure: %s\n\n", vs.CentralNode)
		for _, br := range vs.Branches {
			fmt.Fprintf(&b, "- %s\n", br.Main)
			for _, s := range br.Subs {
				fmt.Fprintf(&b, "  - %s\n", s)
			}
		}
	}
	return b.String()
}

type SavedInspiration struct {
	ID              string          `json:"id"`
	SessionID       string          `json:"sessionId"`
	Title           string          `json:"title"`
	Date            string          `json:"date"`
	Note            InspirationNote `json:"note"`
	MindMapSnapshot *MindMapData    `json:"mindMapSnapshot,omitempty"`
	MemoSnapshot    *string         `json:"memoSnapshot,omitempty"`
}

func (s SavedInspiration) Clone() SavedInspiration {
	s.Note = s.Note.Clone()
	if s.MindMapSnapshot != nil {
		mm := s.MindMapSnapshot.Clone()
		s.MindMapSnapshot = &mm
	}
	if s.MemoSnapshot != nil {
		memo := *s.MemoSnapshot
		s.MemoSnapshot = &memo
	}
	return s
}

// WithNote replaces the note and keeps the title in step with its summary.
func WithNote(s SavedInspiration, note InspirationNote) SavedInspiration {
	s.Note = note.Clone()
	s.Title = note.Project.Summary
	return s
}
