package chat

import (
	"errors"
	"testing"

	"github.com/fitdesk/fitdesk/internal/api"
)

func convs(ids ...int64) []api.Conversation {
	out := make([]api.Conversation, 0, len(ids))
	for _, id := range ids {
		out = append(out, api.Conversation{ID: id, MemberID: id + 100, FirstMessageID: 1})
	}
	return out
}

func listIDs(l *ConversationList) []int64 {
	var ids []int64
	for _, c := range l.Conversations() {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestList_FetchReplace(t *testing.T) {
	l := NewConversationList(20)

	tok, ok := l.BeginFetch(false)
	if !ok {
		t.Fatal("BeginFetch refused")
	}
	if !l.CompleteFetch(tok, &api.ConversationPage{Conversations: convs(3, 2, 1), Total: 3}, nil) {
		t.Fatal("CompleteFetch not applied")
	}

	if got := listIDs(l); len(got) != 3 || got[0] != 3 {
		t.Errorf("conversations = %v", got)
	}
}

func TestList_AppendMergesByID(t *testing.T) {
	l := NewConversationList(2)

	tok, _ := l.BeginFetch(false)
	l.CompleteFetch(tok, &api.ConversationPage{Conversations: convs(5, 4), Total: 4, HasMore: true}, nil)

	tok, ok := l.BeginFetch(true)
	if !ok {
		t.Fatal("append BeginFetch refused with hasMore")
	}
	if tok.Page() != 2 {
		t.Errorf("token page = %d, want 2", tok.Page())
	}
	// Overlap: id 4 appears again on page 2.
	l.CompleteFetch(tok, &api.ConversationPage{Conversations: convs(4, 3), Total: 4, HasMore: false}, nil)

	if got := listIDs(l); len(got) != 3 {
		t.Errorf("conversations = %v, want 3 unique ids", got)
	}
}

func TestList_AppendRefusedWithoutMore(t *testing.T) {
	l := NewConversationList(20)
	tok, _ := l.BeginFetch(false)
	l.CompleteFetch(tok, &api.ConversationPage{Conversations: convs(1), Total: 1, HasMore: false}, nil)

	if _, ok := l.BeginFetch(true); ok {
		t.Error("BeginFetch(append) granted with hasMore=false")
	}
}

func TestList_OverlappingAppendsNoDuplicates(t *testing.T) {
	l := NewConversationList(2)
	tok, _ := l.BeginFetch(false)
	l.CompleteFetch(tok, &api.ConversationPage{Conversations: convs(6, 5), Total: 6, HasMore: true}, nil)

	// User mashes load-more: two tokens before either resolves.
	tokA, okA := l.BeginFetch(true)
	tokB, okB := l.BeginFetch(true)
	if !okA || !okB {
		t.Fatal("expected both appends to be granted")
	}

	// Both responses overlap on id 4.
	l.CompleteFetch(tokA, &api.ConversationPage{Conversations: convs(4, 3), Total: 6, HasMore: true}, nil)
	l.CompleteFetch(tokB, &api.ConversationPage{Conversations: convs(4, 2), Total: 6, HasMore: true}, nil)

	got := listIDs(l)
	seen := map[int64]int{}
	for _, id := range got {
		seen[id]++
		if seen[id] > 1 {
			t.Fatalf("duplicate id %d in %v", id, got)
		}
	}
}

func TestList_FailedFetchKeepsCollection(t *testing.T) {
	l := NewConversationList(20)
	tok, _ := l.BeginFetch(false)
	l.CompleteFetch(tok, &api.ConversationPage{Conversations: convs(2, 1), Total: 2}, nil)

	tok, _ = l.BeginFetch(false)
	if l.CompleteFetch(tok, nil, errors.New("boom")) {
		t.Error("CompleteFetch applied an errored fetch")
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d after failed fetch, want 2", l.Len())
	}
}

func TestList_FailedAppendRetriesSamePage(t *testing.T) {
	l := NewConversationList(2)
	tok, _ := l.BeginFetch(false)
	l.CompleteFetch(tok, &api.ConversationPage{Conversations: convs(6, 5), Total: 6, HasMore: true}, nil)

	// Page 2 fails in flight.
	tok, ok := l.BeginFetch(true)
	if !ok || tok.Page() != 2 {
		t.Fatalf("append token page = %d, ok = %v, want page 2", tok.Page(), ok)
	}
	if l.CompleteFetch(tok, nil, errors.New("boom")) {
		t.Fatal("CompleteFetch applied an errored append")
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d after failed append, want 2", l.Len())
	}

	// The retry must ask for page 2 again, not skip to page 3.
	tok, ok = l.BeginFetch(true)
	if !ok {
		t.Fatal("retry BeginFetch refused")
	}
	if tok.Page() != 2 {
		t.Fatalf("retry token page = %d, want 2", tok.Page())
	}
	l.CompleteFetch(tok, &api.ConversationPage{Conversations: convs(4, 3), Total: 6, HasMore: true}, nil)

	if got := listIDs(l); len(got) != 4 {
		t.Errorf("conversations = %v, want pages 1 and 2 loaded", got)
	}
}

func TestList_SearchResetsAndDiscardsStale(t *testing.T) {
	l := NewConversationList(20)
	tok, _ := l.BeginFetch(false)
	l.CompleteFetch(tok, &api.ConversationPage{Conversations: convs(9, 8), Total: 2, HasMore: true}, nil)

	// Fetch in flight for the old term...
	staleTok, _ := l.BeginFetch(true)

	gen, changed := l.SetSearch("mario")
	if !changed {
		t.Fatal("SetSearch reported no change")
	}
	if !l.DebounceCurrent(gen) {
		t.Error("fresh generation should be current")
	}

	// ...resolves after the term changed: must be dropped.
	if l.CompleteFetch(staleTok, &api.ConversationPage{Conversations: convs(7), Total: 3}, nil) {
		t.Error("stale fetch was applied after search change")
	}
	if got := listIDs(l); len(got) != 2 || got[0] != 9 {
		t.Errorf("conversations = %v, want untouched [9 8]", got)
	}

	// The new search starts at page 1.
	newTok, _ := l.BeginFetch(false)
	if newTok.Page() != 1 {
		t.Errorf("page = %d after search change, want 1", newTok.Page())
	}
}

func TestList_DebounceCollapsesKeystrokes(t *testing.T) {
	l := NewConversationList(20)

	// "mario" typed then cleared within the debounce window: every keystroke
	// bumps the generation, only the last one survives.
	var gens []int
	for _, term := range []string{"m", "ma", "mar", "mari", "mario", ""} {
		gen, changed := l.SetSearch(term)
		if !changed {
			t.Fatalf("SetSearch(%q) reported no change", term)
		}
		gens = append(gens, gen)
	}

	fired := 0
	for _, gen := range gens {
		if l.DebounceCurrent(gen) {
			fired++
		}
	}
	if fired != 1 {
		t.Errorf("fired = %d debounced fetches, want exactly 1", fired)
	}
	if l.Search() != "" {
		t.Errorf("Search() = %q, want empty", l.Search())
	}
}

func TestList_SetSearchUnchangedIsNoop(t *testing.T) {
	l := NewConversationList(20)
	gen1, _ := l.SetSearch("anna")
	gen2, changed := l.SetSearch("anna")
	if changed {
		t.Error("unchanged term reported as change")
	}
	if gen1 != gen2 {
		t.Errorf("generation bumped for unchanged term: %d -> %d", gen1, gen2)
	}
}

func TestList_SelectNoopOnReselect(t *testing.T) {
	l := NewConversationList(20)
	if !l.Select(7) {
		t.Error("first Select() = false")
	}
	if l.Select(7) {
		t.Error("reselect of active id reported a change")
	}
	if !l.Select(8) {
		t.Error("Select of different id = false")
	}
	if l.SelectedID() != 8 {
		t.Errorf("SelectedID() = %d, want 8", l.SelectedID())
	}
}

func TestList_SetSeenIdempotent(t *testing.T) {
	l := NewConversationList(20)
	tok, _ := l.BeginFetch(false)
	l.CompleteFetch(tok, &api.ConversationPage{Conversations: convs(1), Total: 1}, nil)

	if !l.SetSeen(1) {
		t.Error("first SetSeen() = false, want transition")
	}
	if l.SetSeen(1) {
		t.Error("second SetSeen() = true, want no transition")
	}
	c, _ := l.Get(1)
	if !c.Seen {
		t.Error("conversation not marked seen")
	}
}

func TestList_UpsertPrependsNew(t *testing.T) {
	l := NewConversationList(20)
	tok, _ := l.BeginFetch(false)
	l.CompleteFetch(tok, &api.ConversationPage{Conversations: convs(2, 1), Total: 2}, nil)

	l.Upsert(api.Conversation{ID: 9, MemberID: 42, FirstMessageID: 1, Seen: true})

	got := listIDs(l)
	if got[0] != 9 || len(got) != 3 {
		t.Errorf("conversations = %v, want [9 2 1]", got)
	}

	// Upserting an existing id updates in place, no duplicate.
	l.Upsert(api.Conversation{ID: 2, MemberID: 102, FirstMessageID: 1, Seen: true})
	if l.Len() != 3 {
		t.Errorf("Len() = %d after in-place upsert, want 3", l.Len())
	}
	c, _ := l.Get(2)
	if !c.Seen {
		t.Error("upsert did not update existing entry")
	}
}
