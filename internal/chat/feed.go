package chat

import (
	"sort"
	"time"

	"github.com/fitdesk/fitdesk/internal/api"
	"github.com/fitdesk/fitdesk/internal/logger"
)

// FeedState is the message feed's loading state. Sending is tracked
// separately by the send pipeline; it does not gate loading.
type FeedState int

const (
	FeedIdle FeedState = iota
	FeedLoadingInitial
	FeedReady
	FeedLoadingOlder
)

func (s FeedState) String() string {
	switch s {
	case FeedIdle:
		return "Idle"
	case FeedLoadingInitial:
		return "LoadingInitial"
	case FeedReady:
		return "Ready"
	case FeedLoadingOlder:
		return "LoadingOlder"
	default:
		return "Unknown"
	}
}

// FetchToken identifies one message fetch. A completion is applied only when
// its token still matches the feed's conversation and sequence, so a late
// response for a deselected conversation cannot touch the new feed.
type FetchToken struct {
	conversationID int64
	seq            int
}

// ConversationID returns the conversation the fetch was issued for.
func (t FetchToken) ConversationID() int64 { return t.conversationID }

// Feed owns the active conversation's message cache: ascending by id, no
// duplicates. It is the only component that mutates the cache.
type Feed struct {
	state          FeedState
	conversationID int64
	firstMessageID int64
	messages       []api.Message
	seq            int // bumped on every (re)initialization
}

// NewFeed creates an idle feed with no conversation.
func NewFeed() *Feed {
	return &Feed{}
}

// State returns the current loading state.
func (f *Feed) State() FeedState { return f.state }

// ConversationID returns the conversation the feed is bound to, 0 when idle.
func (f *Feed) ConversationID() int64 { return f.conversationID }

// Messages returns the cache in ascending id order. Callers must not mutate it.
func (f *Feed) Messages() []api.Message { return f.messages }

// MinID returns the lowest cached message id.
func (f *Feed) MinID() (int64, bool) {
	if len(f.messages) == 0 {
		return 0, false
	}
	return f.messages[0].ID, true
}

// MaxID returns the highest cached message id.
func (f *Feed) MaxID() (int64, bool) {
	if len(f.messages) == 0 {
		return 0, false
	}
	return f.messages[len(f.messages)-1].ID, true
}

// HasOlder reports whether history below the cached range still exists on the
// server, by comparing the lowest cached id against the thread's first id.
func (f *Feed) HasOlder() bool {
	minID, ok := f.MinID()
	if !ok {
		return false
	}
	return minID > f.firstMessageID
}

// Reset returns the feed to idle and discards the cache. Any in-flight fetch
// becomes stale.
func (f *Feed) Reset() {
	f.state = FeedIdle
	f.conversationID = 0
	f.firstMessageID = 0
	f.messages = nil
	f.seq++
}

// BeginInitial binds the feed to a conversation and starts the initial load.
// The previous conversation's cache is discarded immediately so it can never
// bleed into the new thread's screen.
func (f *Feed) BeginInitial(conversationID, firstMessageID int64) FetchToken {
	f.state = FeedLoadingInitial
	f.conversationID = conversationID
	f.firstMessageID = firstMessageID
	f.messages = nil
	f.seq++
	return FetchToken{conversationID: conversationID, seq: f.seq}
}

// CompleteInitial applies the newest page. Stale completions (the selection
// moved on) are dropped. On error the feed returns to idle so selecting the
// conversation again retries. Returns whether the result was applied.
func (f *Feed) CompleteInitial(tok FetchToken, msgs []api.Message, err error) bool {
	if !f.current(tok) {
		logger.ComponentLogger("feed").Debug("stale initial load discarded",
			"tokenConversation", tok.conversationID, "conversation", f.conversationID)
		return false
	}
	if err != nil {
		f.state = FeedIdle
		return false
	}
	f.messages = mergeMessages(nil, msgs)
	f.state = FeedReady
	return true
}

// BeginOlder starts a backward-pagination fetch. Only one may be in flight:
// callable only from Ready, and refused outright when the cached minimum
// already equals the thread's first message id.
func (f *Feed) BeginOlder() (FetchToken, int64, bool) {
	if f.state != FeedReady || !f.HasOlder() {
		return FetchToken{}, 0, false
	}
	minID, _ := f.MinID()
	f.state = FeedLoadingOlder
	return FetchToken{conversationID: f.conversationID, seq: f.seq}, minID, true
}

// CompleteOlder merges an older page below the cache. A failed fetch returns
// to Ready without touching the cache so the next scroll-to-top retries.
func (f *Feed) CompleteOlder(tok FetchToken, msgs []api.Message, err error) bool {
	if !f.current(tok) {
		logger.ComponentLogger("feed").Debug("stale older-page load discarded",
			"tokenConversation", tok.conversationID, "conversation", f.conversationID)
		return false
	}
	if f.state == FeedLoadingOlder {
		f.state = FeedReady
	}
	if err != nil {
		return false
	}
	f.messages = mergeMessages(f.messages, msgs)
	return true
}

// Merge folds a single message into the cache by id, used for the reconciled
// message a send returns. Idempotent with a concurrent refresh that already
// delivered the same id.
func (f *Feed) Merge(msg api.Message) {
	if f.conversationID == 0 || msg.ConversationID != f.conversationID {
		return
	}
	f.messages = mergeMessages(f.messages, []api.Message{msg})
}

func (f *Feed) current(tok FetchToken) bool {
	return tok.conversationID == f.conversationID && tok.seq == f.seq
}

// mergeMessages merges a server page (any order) into an ascending cache,
// dropping ids already present. The cache is copied, never sorted in place,
// so slices handed out by Messages() before the merge keep their order.
func mergeMessages(cache, page []api.Message) []api.Message {
	existing := make(map[int64]bool, len(cache))
	for _, m := range cache {
		existing[m.ID] = true
	}
	merged := append(make([]api.Message, 0, len(cache)+len(page)), cache...)
	for _, m := range page {
		if existing[m.ID] {
			continue
		}
		existing[m.ID] = true
		merged = append(merged, m)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	return merged
}

// DayGroup is one calendar day's worth of messages, for date-separator
// rendering.
type DayGroup struct {
	Date     time.Time // midnight, local time
	Messages []api.Message
}

// GroupByDate projects an ordered message list into per-day groups. Pure and
// idempotent; nothing is cached.
func GroupByDate(msgs []api.Message) []DayGroup {
	var groups []DayGroup
	for _, m := range msgs {
		day := m.Date.Local()
		day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		if n := len(groups); n > 0 && groups[n-1].Date.Equal(day) {
			groups[n-1].Messages = append(groups[n-1].Messages, m)
			continue
		}
		groups = append(groups, DayGroup{Date: day, Messages: []api.Message{m}})
	}
	return groups
}
