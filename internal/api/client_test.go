package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fitdesk/fitdesk/internal/errors"
)

func TestListConversations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversations" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("search"); got != "mario" {
			t.Errorf("search = %q", got)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q", got)
		}
		json.NewEncoder(w).Encode(ConversationPage{
			Conversations: []Conversation{{ID: 1, MemberID: 42, FirstMessageID: 1}},
			Total:         31,
			HasMore:       true,
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	page, err := c.ListConversations(context.Background(), "mario", 2, 20)
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(page.Conversations) != 1 || page.Conversations[0].MemberID != 42 {
		t.Errorf("unexpected page: %+v", page)
	}
	if !page.HasMore {
		t.Error("HasMore = false, want true")
	}
}

func TestListMessages_BeforeID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversations/7/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("beforeId"); got != "50" {
			t.Errorf("beforeId = %q", got)
		}
		json.NewEncoder(w).Encode(map[string][]Message{
			"messages": {{ID: 49, ConversationID: 7, Type: MessageText, Content: "hi"}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	msgs, err := c.ListMessages(context.Background(), 7, 50, 30)
	if err != nil {
		t.Fatalf("ListMessages() error = %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != 49 {
		t.Errorf("unexpected messages: %+v", msgs)
	}
}

func TestSendText_ExistingConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversations/7/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["content"] != "Hello" {
			t.Errorf("content = %v", body["content"])
		}
		if _, hasUser := body["userId"]; hasUser {
			t.Error("userId should not be sent when conversationID is set")
		}
		json.NewEncoder(w).Encode(SendResult{Message: Message{ID: 61, ConversationID: 7, Content: "Hello"}})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	res, err := c.SendText(context.Background(), 7, 0, "Hello")
	if err != nil {
		t.Fatalf("SendText() error = %v", err)
	}
	if res.Message.ID != 61 {
		t.Errorf("Message.ID = %d, want 61", res.Message.ID)
	}
	if res.Conversation != nil {
		t.Error("Conversation should be nil for existing thread")
	}
}

func TestSendText_NewConversationByMember(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/conversations/messages" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["userId"] != float64(42) {
			t.Errorf("userId = %v", body["userId"])
		}
		json.NewEncoder(w).Encode(SendResult{
			Message:      Message{ID: 1, ConversationID: 9},
			Conversation: &Conversation{ID: 9, MemberID: 42, FirstMessageID: 1},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	res, err := c.SendText(context.Background(), 0, 42, "Hello")
	if err != nil {
		t.Fatalf("SendText() error = %v", err)
	}
	if res.Conversation == nil || res.Conversation.ID != 9 {
		t.Errorf("expected created conversation, got %+v", res.Conversation)
	}
}

func TestSendText_NotFoundCarriesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "conversation_not_found"})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	_, err := c.SendText(context.Background(), 999, 0, "Hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.KindNotFound) {
		t.Errorf("kind = %v, want KindNotFound", errors.GetKind(err))
	}
	if got := errors.UserMessage(err); got != "This member has no conversation yet" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestSendFile_Multipart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.pdf")
	if err := os.WriteFile(path, []byte("pdf-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "plan.pdf" {
			t.Errorf("Filename = %q", hdr.Filename)
		}
		json.NewEncoder(w).Encode(SendResult{Message: Message{
			ID:   62,
			Type: MessageFile,
			File: &FileRef{FileName: "plan.pdf", SignedURL: "https://files/plan.pdf", MimeType: "application/pdf"},
		}})
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	res, err := c.SendFile(context.Background(), 7, 0, path)
	if err != nil {
		t.Fatalf("SendFile() error = %v", err)
	}
	if res.Message.File == nil || res.Message.File.FileName != "plan.pdf" {
		t.Errorf("unexpected file ref: %+v", res.Message.File)
	}
}

func TestMarkSeen(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/conversations/7/seen" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	if err := c.MarkSeen(context.Background(), 7); err != nil {
		t.Fatalf("MarkSeen() error = %v", err)
	}
	// Idempotent on the server; a second call is just another acknowledged POST.
	if err := c.MarkSeen(context.Background(), 7); err != nil {
		t.Fatalf("second MarkSeen() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestAuthErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad")
	_, err := c.ListConversations(context.Background(), "", 1, 20)
	if !errors.Is(err, errors.KindAuth) {
		t.Errorf("kind = %v, want KindAuth", errors.GetKind(err))
	}
}
