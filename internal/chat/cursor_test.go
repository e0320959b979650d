package chat

import "testing"

func TestNewCursor(t *testing.T) {
	c := NewCursor(20)
	if c.Page() != 1 {
		t.Errorf("Page() = %d, want 1", c.Page())
	}
	if c.PageSize() != 20 {
		t.Errorf("PageSize() = %d, want 20", c.PageSize())
	}
	if c.HasMore() {
		t.Error("HasMore() = true before any response")
	}
}

func TestCursor_AdvanceRequiresHasMore(t *testing.T) {
	c := NewCursor(20)

	if c.Advance() {
		t.Error("Advance() = true without hasMore")
	}
	if c.Page() != 1 {
		t.Errorf("Page() = %d after refused advance, want 1", c.Page())
	}

	c.SetFromResponse(45, true)
	if !c.Advance() {
		t.Error("Advance() = false with hasMore")
	}
	if c.Page() != 2 {
		t.Errorf("Page() = %d, want 2", c.Page())
	}
}

func TestCursor_Reset(t *testing.T) {
	c := NewCursor(20)
	c.SetFromResponse(45, true)
	c.Advance()
	c.Advance()

	c.Reset()

	if c.Page() != 1 {
		t.Errorf("Page() = %d after Reset, want 1", c.Page())
	}
	if c.HasMore() {
		t.Error("HasMore() = true after Reset")
	}
	if c.Total() != 0 {
		t.Errorf("Total() = %d after Reset, want 0", c.Total())
	}
}

func TestCursor_RetreatUndoesAdvance(t *testing.T) {
	c := NewCursor(20)
	c.SetFromResponse(45, true)
	c.Advance()

	c.Retreat()

	if c.Page() != 1 {
		t.Errorf("Page() = %d after Retreat, want 1", c.Page())
	}

	// Never moves before page 1.
	c.Retreat()
	if c.Page() != 1 {
		t.Errorf("Page() = %d after Retreat at page 1, want 1", c.Page())
	}
}

func TestCursor_LastPage(t *testing.T) {
	c := NewCursor(20)
	c.SetFromResponse(45, true)
	c.Advance()
	c.SetFromResponse(45, true)
	c.Advance()
	c.SetFromResponse(45, false)

	if c.Advance() {
		t.Error("Advance() = true past the last page")
	}
	if c.Page() != 3 {
		t.Errorf("Page() = %d, want 3", c.Page())
	}
}
