package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/fitdesk/fitdesk/internal/api"
	"github.com/fitdesk/fitdesk/internal/chat"
)

// ConversationsFetchedMsg completes a conversation-list fetch
type ConversationsFetchedMsg struct {
	Token chat.ListToken
	Page  *api.ConversationPage
	Err   error
}

// MessagesFetchedMsg completes a feed's initial load
type MessagesFetchedMsg struct {
	Token    chat.FetchToken
	Messages []api.Message
	Err      error
}

// OlderMessagesFetchedMsg completes a backward-pagination fetch
type OlderMessagesFetchedMsg struct {
	Token    chat.FetchToken
	Messages []api.Message
	Err      error
}

// MessagesRefreshedMsg carries the latest page of the active conversation,
// fetched by the manual refresh. Merged message by message, so it can never
// truncate the cache or disturb the scroll position.
type MessagesRefreshedMsg struct {
	ConversationID int64
	Messages       []api.Message
	Err            error
}

// MessageSentMsg completes a send, text or file
type MessageSentMsg struct {
	LocalID        string
	ConversationID int64 // 0 for sends addressed to a bare member id
	Result         *api.SendResult
	Err            error
}

// SeenMarkedMsg completes a seen acknowledgement
type SeenMarkedMsg struct {
	ConversationID int64
	Err            error
}

// SearchDebounceMsg fires when the search debounce interval elapses. The
// generation decides whether the tick is still the latest one.
type SearchDebounceMsg struct {
	Generation int
}

func (m *Model) fetchConversationsCmd(tok chat.ListToken) tea.Cmd {
	client := m.client
	search := m.list.Search()
	page := tok.Page()
	pageSize := m.config.GetConversationPageSize()
	return func() tea.Msg {
		result, err := client.ListConversations(context.Background(), search, page, pageSize)
		return ConversationsFetchedMsg{Token: tok, Page: result, Err: err}
	}
}

func (m *Model) fetchInitialMessagesCmd(tok chat.FetchToken) tea.Cmd {
	client := m.client
	pageSize := m.config.GetMessagePageSize()
	return func() tea.Msg {
		msgs, err := client.ListMessages(context.Background(), tok.ConversationID(), 0, pageSize)
		return MessagesFetchedMsg{Token: tok, Messages: msgs, Err: err}
	}
}

func (m *Model) fetchOlderMessagesCmd(tok chat.FetchToken, beforeID int64) tea.Cmd {
	client := m.client
	pageSize := m.config.GetMessagePageSize()
	return func() tea.Msg {
		msgs, err := client.ListMessages(context.Background(), tok.ConversationID(), beforeID, pageSize)
		return OlderMessagesFetchedMsg{Token: tok, Messages: msgs, Err: err}
	}
}

func (m *Model) refreshMessagesCmd(conversationID int64) tea.Cmd {
	client := m.client
	pageSize := m.config.GetMessagePageSize()
	return func() tea.Msg {
		msgs, err := client.ListMessages(context.Background(), conversationID, 0, pageSize)
		return MessagesRefreshedMsg{ConversationID: conversationID, Messages: msgs, Err: err}
	}
}

func (m *Model) sendTextCmd(localID string, conversationID, memberID int64, content string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		result, err := client.SendText(context.Background(), conversationID, memberID, content)
		return MessageSentMsg{LocalID: localID, ConversationID: conversationID, Result: result, Err: err}
	}
}

func (m *Model) sendFileCmd(localID string, conversationID, memberID int64, path string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		result, err := client.SendFile(context.Background(), conversationID, memberID, path)
		return MessageSentMsg{LocalID: localID, ConversationID: conversationID, Result: result, Err: err}
	}
}

func (m *Model) markSeenCmd(conversationID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.MarkSeen(context.Background(), conversationID)
		return SeenMarkedMsg{ConversationID: conversationID, Err: err}
	}
}

// searchDebounceCmd schedules the debounce tick for the given generation.
// Older generations are never cancelled, they simply miss the generation
// check when they fire, which is equivalent and leak-free.
func (m *Model) searchDebounceCmd(generation int) tea.Cmd {
	delay := time.Duration(m.config.GetSearchDebounceMs()) * time.Millisecond
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return SearchDebounceMsg{Generation: generation}
	})
}
