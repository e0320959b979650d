// Package errors provides structured error types for the FitDesk console.
// These errors provide context about what operation failed and where, and
// carry enough classification to turn any failure into a footer message.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindAuth
	KindNetwork
	KindConfig
	KindUpload
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindAuth:
		return "not authorized"
	case KindNetwork:
		return "network error"
	case KindConfig:
		return "configuration error"
	case KindUpload:
		return "upload error"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for FitDesk.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
	Code    string // Server-supplied error code, when available
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// WithCode attaches a server error code to a structured error. Codes come
// from the backend response body and map to friendlier messages in
// UserMessage.
func WithCode(err error, code string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Code = code
	}
	return err
}

// serverCodeMessages maps backend error codes to user-facing text. Codes not
// listed here fall back to the kind-based generic message.
var serverCodeMessages = map[string]string{
	"conversation_not_found": "This member has no conversation yet",
	"member_not_found":       "Member not found",
	"file_too_large":         "File is too large to send",
	"unsupported_file_type":  "This file type cannot be sent",
	"message_empty":          "Cannot send an empty message",
}

// UserMessage converts any error into text suitable for the footer flash.
// Network-boundary errors never reach the rendering layer raw; controllers
// pass them through here first.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Code != "" {
			if msg, ok := serverCodeMessages[e.Code]; ok {
				return msg
			}
		}
		switch e.Kind {
		case KindNotFound:
			return "Not found"
		case KindAuth:
			return "Session expired, check your token"
		case KindNetwork:
			return "Connection failed, try again"
		case KindUpload:
			return "File upload failed"
		case KindTimeout:
			return "The server took too long to respond"
		case KindConfig:
			return "Configuration problem: " + e.Err.Error()
		case KindInvalid:
			return e.Err.Error()
		}
	}
	return "Something went wrong, try again"
}

// Conversation errors
func ConversationNotFound(memberID int64) error {
	return E(Op("api.SendMessage"), KindNotFound, fmt.Sprintf("no conversation exists for member %d", memberID))
}

func ConversationFetchFailed(err error) error {
	return E(Op("api.ListConversations"), KindNetwork, "failed to fetch conversations", err)
}

// Message errors
func MessageFetchFailed(conversationID int64, err error) error {
	return E(Op("api.ListMessages"), KindNetwork, fmt.Sprintf("failed to fetch messages for conversation %d", conversationID), err)
}

func SendFailed(err error) error {
	return E(Op("api.SendMessage"), KindNetwork, "failed to send message", err)
}

func UploadFailed(fileName string, err error) error {
	return E(Op("api.SendFile"), KindUpload, fmt.Sprintf("failed to upload %s", fileName), err)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}
