package api

import (
	"fmt"
	"time"
)

// MessageType distinguishes text messages from file attachments.
type MessageType string

const (
	MessageText MessageType = "text"
	MessageFile MessageType = "file"
)

// FileRef points at a stored attachment. The signed URL comes from the
// platform's file storage and expires server-side.
type FileRef struct {
	FileName  string `json:"fileName"`
	SignedURL string `json:"signedUrl"`
	MimeType  string `json:"type"`
}

// Message is one entry in a conversation. Within a conversation, ids are
// assigned by the server and increase monotonically, which is what backward
// pagination keys off.
type Message struct {
	ID             int64       `json:"id"`
	ConversationID int64       `json:"conversationId"`
	FromAdminID    *int64      `json:"fromAdminId"` // nil means the member sent it
	Type           MessageType `json:"type"`
	Content        string      `json:"content,omitempty"`
	File           *FileRef    `json:"file,omitempty"`
	Date           time.Time   `json:"date"`
}

// FromAdmin reports whether a staff account authored the message.
func (m Message) FromAdmin() bool {
	return m.FromAdminID != nil
}

// Conversation is a single staff↔member thread. FirstMessageID is the lowest
// message id ever written to the thread and bounds backward pagination.
type Conversation struct {
	ID             int64    `json:"id"`
	MemberID       int64    `json:"userId"`
	MemberName     string   `json:"userName"`
	FirstMessageID int64    `json:"firstMessageId"`
	LastMessage    *Message `json:"lastMessage,omitempty"`
	Seen           bool     `json:"seen"`
}

// DisplayName returns the member's name, falling back to the numeric id for
// accounts that never completed their profile.
func (c Conversation) DisplayName() string {
	if c.MemberName != "" {
		return c.MemberName
	}
	return fmt.Sprintf("Member #%d", c.MemberID)
}

// ConversationPage is the response of the conversation list endpoint.
type ConversationPage struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
	HasMore       bool           `json:"hasMore"`
}

// SendResult is the response of the send endpoints. Conversation is non-nil
// only when the send addressed a bare member id and the backend created the
// thread as a side effect.
type SendResult struct {
	Message      Message       `json:"message"`
	Conversation *Conversation `json:"conversation,omitempty"`
}
