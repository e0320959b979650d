package chat

import (
	"github.com/fitdesk/fitdesk/internal/api"
	"github.com/fitdesk/fitdesk/internal/logger"
)

// ListToken identifies one conversation-list fetch. Completions carrying a
// token from a superseded search term are discarded.
type ListToken struct {
	generation int
	page       int
	appendPage bool
}

// Append reports whether the fetch grows the list instead of replacing it.
func (t ListToken) Append() bool { return t.appendPage }

// Page returns the page the fetch was issued for.
func (t ListToken) Page() int { return t.page }

// Generation returns the search generation the fetch was issued under.
func (t ListToken) Generation() int { return t.generation }

// ConversationList owns the searchable, paginated conversation collection and
// the selected-conversation handoff the feed observes. It never reaches into
// the feed's message cache.
type ConversationList struct {
	cursor        Cursor
	search        string
	generation    int // bumped on every search change; stale tokens die here
	conversations []api.Conversation
	selectedID    int64
}

// NewConversationList creates an empty list with the given page size.
func NewConversationList(pageSize int) *ConversationList {
	return &ConversationList{cursor: NewCursor(pageSize)}
}

// Search returns the current search term.
func (l *ConversationList) Search() string { return l.search }

// Generation returns the current search generation. The app layer schedules a
// debounce tick carrying this value; when the tick fires with an older
// generation the fetch is skipped, which is equivalent to cancelling the
// previous timer on each keystroke.
func (l *ConversationList) Generation() int { return l.generation }

// HasMore reports whether more pages exist for the current search.
func (l *ConversationList) HasMore() bool { return l.cursor.HasMore() }

// Total returns the server-reported total for the current search.
func (l *ConversationList) Total() int { return l.cursor.Total() }

// SetSearch updates the search term and returns the new generation. The
// cursor resets to page 1 before any debounced fetch can fire. An unchanged
// term is a no-op so a no-op keystroke never schedules a redundant fetch.
func (l *ConversationList) SetSearch(term string) (int, bool) {
	if term == l.search {
		return l.generation, false
	}
	l.search = term
	l.generation++
	l.cursor.Reset()
	return l.generation, true
}

// DebounceCurrent reports whether a debounce tick for the given generation is
// still the latest one.
func (l *ConversationList) DebounceCurrent(generation int) bool {
	return generation == l.generation
}

// BeginFetch starts a fetch for the current search and page. With appendPage
// the cursor advances first; if the server already said there is nothing
// more, no token is handed out and no fetch should be issued.
func (l *ConversationList) BeginFetch(appendPage bool) (ListToken, bool) {
	if appendPage && !l.cursor.Advance() {
		return ListToken{}, false
	}
	return ListToken{generation: l.generation, page: l.cursor.Page(), appendPage: appendPage}, true
}

// CompleteFetch applies a finished fetch. Results from a superseded search
// generation are dropped silently, and errors leave the previous collection
// intact so a failed append never wipes loaded pages; a failed append also
// rolls the cursor back so the retry refetches the same page. Returns whether
// the collection was mutated.
func (l *ConversationList) CompleteFetch(tok ListToken, page *api.ConversationPage, err error) bool {
	if tok.generation != l.generation {
		logger.ComponentLogger("list").Debug("stale conversation fetch discarded",
			"tokenGeneration", tok.generation, "generation", l.generation)
		return false
	}
	if err != nil {
		// An append advanced the cursor eagerly; step back so the retry asks
		// for the same page instead of silently skipping it.
		if tok.appendPage {
			l.cursor.Retreat()
		}
		return false
	}

	l.cursor.SetFromResponse(page.Total, page.HasMore)

	if !tok.appendPage {
		l.conversations = append([]api.Conversation(nil), page.Conversations...)
		return true
	}

	existing := make(map[int64]bool, len(l.conversations))
	for _, c := range l.conversations {
		existing[c.ID] = true
	}
	for _, c := range page.Conversations {
		if existing[c.ID] {
			continue
		}
		existing[c.ID] = true
		l.conversations = append(l.conversations, c)
	}
	return true
}

// Conversations returns the backing collection. Callers must not mutate it.
func (l *ConversationList) Conversations() []api.Conversation {
	return l.conversations
}

// Len returns the number of loaded conversations.
func (l *ConversationList) Len() int { return len(l.conversations) }

// Get looks up a conversation by id.
func (l *ConversationList) Get(id int64) (api.Conversation, bool) {
	for _, c := range l.conversations {
		if c.ID == id {
			return c, true
		}
	}
	return api.Conversation{}, false
}

// Select makes the conversation active. Reselecting the already-active id
// reports false so the feed is not reinitialized for a no-op.
func (l *ConversationList) Select(id int64) bool {
	if id == l.selectedID {
		return false
	}
	l.selectedID = id
	return true
}

// SelectedID returns the active conversation id, 0 when nothing is selected.
func (l *ConversationList) SelectedID() int64 { return l.selectedID }

// ClearSelection drops the active conversation.
func (l *ConversationList) ClearSelection() { l.selectedID = 0 }

// SetSeen marks a conversation seen locally. Returns whether this was the
// false→true transition; repeated calls are harmless either way.
func (l *ConversationList) SetSeen(id int64) bool {
	for i := range l.conversations {
		if l.conversations[i].ID == id {
			if l.conversations[i].Seen {
				return false
			}
			l.conversations[i].Seen = true
			return true
		}
	}
	return false
}

// Upsert folds a conversation into the collection: an existing entry is
// updated in place, a new one (e.g. the thread a send to a bare member id
// just created) goes to the top without a full refetch.
func (l *ConversationList) Upsert(conv api.Conversation) {
	for i := range l.conversations {
		if l.conversations[i].ID == conv.ID {
			l.conversations[i] = conv
			return
		}
	}
	l.conversations = append([]api.Conversation{conv}, l.conversations...)
}

// UpdateLastMessage refreshes a conversation's denormalized preview after a
// successful send.
func (l *ConversationList) UpdateLastMessage(id int64, msg api.Message) {
	for i := range l.conversations {
		if l.conversations[i].ID == id {
			m := msg
			l.conversations[i].LastMessage = &m
			return
		}
	}
}

// UnseenIDs returns the ids of conversations the admin has not read yet.
// The app layer diffs this across refetches to drive desktop notifications.
func (l *ConversationList) UnseenIDs() []int64 {
	var ids []int64
	for _, c := range l.conversations {
		if !c.Seen {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
