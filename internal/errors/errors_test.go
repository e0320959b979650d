package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestE_ComposesFields(t *testing.T) {
	underlying := errors.New("connection refused")
	err := E(Op("api.ListConversations"), KindNetwork, "failed to fetch conversations", underlying)

	var e *Error
	if !errors.As(err, &e) {
		t.Fatal("E() did not return *Error")
	}
	if e.Op != "api.ListConversations" {
		t.Errorf("Op = %q, want %q", e.Op, "api.ListConversations")
	}
	if e.Kind != KindNetwork {
		t.Errorf("Kind = %v, want KindNetwork", e.Kind)
	}
	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to match the underlying error")
	}
	if !strings.Contains(err.Error(), "failed to fetch conversations") {
		t.Errorf("Error() = %q, missing context", err.Error())
	}
}

func TestE_NoUnderlyingError(t *testing.T) {
	err := E(Op("config.Validate"), KindInvalid, "page size must be positive")
	if err.Error() != "config.Validate: page size must be positive" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		want bool
	}{
		{"matching kind", ConversationNotFound(42), KindNotFound, true},
		{"non-matching kind", ConversationNotFound(42), KindNetwork, false},
		{"plain error", errors.New("boom"), KindNetwork, false},
		{"wrapped structured error", fmt.Errorf("outer: %w", SendFailed(errors.New("eof"))), KindNetwork, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.kind); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetKind(t *testing.T) {
	if got := GetKind(UploadFailed("plan.pdf", errors.New("413"))); got != KindUpload {
		t.Errorf("GetKind() = %v, want KindUpload", got)
	}
	if got := GetKind(errors.New("plain")); got != KindUnknown {
		t.Errorf("GetKind() = %v, want KindUnknown", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"network kind", SendFailed(errors.New("eof")), "Connection failed, try again"},
		{"not found kind", ConversationNotFound(7), "Not found"},
		{"upload kind", UploadFailed("a.png", errors.New("413")), "File upload failed"},
		{"plain error falls back", errors.New("boom"), "Something went wrong, try again"},
		{
			"server code overrides kind",
			WithCode(SendFailed(errors.New("422")), "message_empty"),
			"Cannot send an empty message",
		},
		{
			"unknown server code falls back to kind",
			WithCode(SendFailed(errors.New("500")), "mystery_code"),
			"Connection failed, try again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWithCode_PlainErrorUnchanged(t *testing.T) {
	plain := errors.New("boom")
	if got := WithCode(plain, "member_not_found"); got != plain {
		t.Errorf("WithCode() on plain error should return it unchanged")
	}
}
