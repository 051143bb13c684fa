package model

import "time"

// Role tags who authored a message.
type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModel, RoleSystem:
		return true
	}
	return false
}

// Attachment is a single inline image carried by a message.
type Attachment struct {
	MimeType string `json:"mimeType" binding:"required"`
	Data     string `json:"data" binding:"required"` // base64
}

// DataURI renders the attachment the way chat providers accept inline images.
func (a *Attachment) DataURI() string {
	return "data:" + a.MimeType + ";base64," + a.Data
}

type Message struct {
	ID         string      `json:"id"`
	Role       Role        `json:"role"`
	Content    string      `json:"content"`
	Attachment *Attachment `json:"attachment,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// Clone copies the attachment so the returned message shares nothing with m.
func (m Message) Clone() Message {
	if m.Attachment != nil {
		att := *m.Attachment
		m.Attachment = &att
	}
	return m
}
