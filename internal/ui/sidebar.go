package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/fitdesk/fitdesk/internal/api"
	"github.com/fitdesk/fitdesk/internal/keys"
)

// ConversationSelectedMsg is emitted when the user opens a conversation
type ConversationSelectedMsg struct {
	ID int64
}

// LoadMoreConversationsMsg is emitted when the user scrolls past the last
// loaded conversation and more pages exist
type LoadMoreConversationsMsg struct{}

// SearchQueryChangedMsg is emitted on every search keystroke. The app layer
// debounces before fetching.
type SearchQueryChangedMsg struct {
	Query string
}

// Sidebar represents the left panel with the conversation list
type Sidebar struct {
	conversations []api.Conversation
	total         int
	hasMore       bool
	selectedIdx   int
	width         int
	height        int
	focused       bool
	scrollOffset  int
	loadingMore   bool

	// Search mode
	searchMode  bool
	searchInput textinput.Model
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	ti := textinput.New()
	ti.Placeholder = "search members..."
	ti.CharLimit = SidebarSearchCharLimit

	return &Sidebar{
		searchInput: ti,
	}
}

// SetSize sets the sidebar dimensions
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Width returns the sidebar width
func (s *Sidebar) Width() int {
	return s.width
}

// SetFocused sets the focus state
func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

// IsFocused returns the focus state
func (s *Sidebar) IsFocused() bool {
	return s.focused
}

// SetConversations replaces the displayed collection. The selection sticks to
// the same conversation when it is still present; otherwise it clamps.
func (s *Sidebar) SetConversations(convs []api.Conversation, total int, hasMore bool) {
	var selectedID int64
	if c, ok := s.SelectedConversation(); ok {
		selectedID = c.ID
	}

	s.conversations = convs
	s.total = total
	s.hasMore = hasMore
	s.loadingMore = false

	if selectedID != 0 {
		for i, c := range convs {
			if c.ID == selectedID {
				s.selectedIdx = i
				return
			}
		}
	}
	if s.selectedIdx >= len(convs) {
		s.selectedIdx = len(convs) - 1
	}
	if s.selectedIdx < 0 {
		s.selectedIdx = 0
	}
}

// Conversations returns the displayed collection
func (s *Sidebar) Conversations() []api.Conversation {
	return s.conversations
}

// SelectedConversation returns the conversation under the cursor
func (s *Sidebar) SelectedConversation() (api.Conversation, bool) {
	if s.selectedIdx < 0 || s.selectedIdx >= len(s.conversations) {
		return api.Conversation{}, false
	}
	return s.conversations[s.selectedIdx], true
}

// SelectByID moves the cursor to the given conversation if it is loaded
func (s *Sidebar) SelectByID(id int64) bool {
	for i, c := range s.conversations {
		if c.ID == id {
			s.selectedIdx = i
			return true
		}
	}
	return false
}

// SetLoadingMore toggles the load-more indicator at the bottom of the list
func (s *Sidebar) SetLoadingMore(loading bool) {
	s.loadingMore = loading
}

// EnterSearchMode activates search mode
func (s *Sidebar) EnterSearchMode() tea.Cmd {
	s.searchMode = true
	s.searchInput.SetValue("")
	s.searchInput.Focus()
	return nil
}

// ExitSearchMode deactivates search mode and clears the query. The cleared
// query is reported so the app refetches the unfiltered list.
func (s *Sidebar) ExitSearchMode() tea.Cmd {
	hadQuery := s.searchInput.Value() != ""
	s.searchMode = false
	s.searchInput.Blur()
	s.searchInput.SetValue("")
	if hadQuery {
		return func() tea.Msg { return SearchQueryChangedMsg{Query: ""} }
	}
	return nil
}

// IsSearchMode returns whether search mode is active
func (s *Sidebar) IsSearchMode() bool {
	return s.searchMode
}

// SearchQuery returns the current search query
func (s *Sidebar) SearchQuery() string {
	return s.searchInput.Value()
}

// Update handles messages
func (s *Sidebar) Update(msg tea.Msg) (*Sidebar, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !s.focused {
		return s, nil
	}

	if s.searchMode {
		switch keyMsg.String() {
		case keys.Escape:
			return s, s.ExitSearchMode()
		case keys.Enter:
			// Keep the filter, move focus back to the list
			s.searchMode = false
			s.searchInput.Blur()
			return s, nil
		case keys.Up, keys.CtrlP:
			s.moveCursor(-1)
			return s, nil
		case keys.Down, keys.CtrlN:
			s.moveCursor(1)
			return s, nil
		default:
			before := s.searchInput.Value()
			var cmd tea.Cmd
			s.searchInput, cmd = s.searchInput.Update(msg)
			if after := s.searchInput.Value(); after != before {
				query := after
				change := func() tea.Msg { return SearchQueryChangedMsg{Query: query} }
				return s, tea.Batch(cmd, change)
			}
			return s, cmd
		}
	}

	switch keyMsg.String() {
	case keys.Up, "k":
		s.moveCursor(-1)
	case keys.Down, "j":
		// Walking off the end of a partially loaded list requests the next page
		if s.selectedIdx == len(s.conversations)-1 {
			if s.hasMore && !s.loadingMore {
				s.loadingMore = true
				return s, func() tea.Msg { return LoadMoreConversationsMsg{} }
			}
			return s, nil
		}
		s.moveCursor(1)
	case keys.Enter:
		if c, ok := s.SelectedConversation(); ok {
			id := c.ID
			return s, func() tea.Msg { return ConversationSelectedMsg{ID: id} }
		}
	}

	return s, nil
}

func (s *Sidebar) moveCursor(delta int) {
	next := s.selectedIdx + delta
	if next < 0 || next >= len(s.conversations) {
		return
	}
	s.selectedIdx = next
}

// preview returns the one-line denormalized preview for a conversation
func preview(c api.Conversation) string {
	if c.LastMessage == nil {
		return ""
	}
	if c.LastMessage.Type == api.MessageFile {
		name := "attachment"
		if c.LastMessage.File != nil && c.LastMessage.File.FileName != "" {
			name = c.LastMessage.File.FileName
		}
		return "📎 " + name
	}
	return strings.ReplaceAll(c.LastMessage.Content, "\n", " ")
}

// View renders the sidebar
func (s *Sidebar) View() string {
	vc := GetViewContext()

	style := PanelStyle
	if s.focused {
		style = PanelFocusedStyle
	}

	innerWidth := vc.InnerWidth(s.width)
	innerHeight := vc.InnerHeight(s.height)

	var header string
	if s.searchMode {
		searchStyle := lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)
		s.searchInput.SetWidth(innerWidth - 3) // Leave room for "/ "
		header = searchStyle.Render("/") + " " + s.searchInput.View()
	} else {
		title := "Conversations"
		if s.total > 0 {
			title = fmt.Sprintf("Conversations (%d)", s.total)
		}
		header = PanelTitleStyle.Render(title)
	}
	innerHeight-- // Reserve one line for the header

	var content string
	if len(s.conversations) == 0 {
		emptyMsg := "No conversations."
		if s.searchMode && s.searchInput.Value() != "" {
			emptyMsg = "No matches."
		}
		content = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render(emptyMsg)
	} else {
		var allLines []string
		selectedStartLine := 0

		for idx, conv := range s.conversations {
			nameLine, previewLine := s.renderConversation(conv, idx == s.selectedIdx, innerWidth)
			if idx == s.selectedIdx {
				selectedStartLine = len(allLines)
			}
			allLines = append(allLines, nameLine, previewLine)
		}
		if s.loadingMore {
			allLines = append(allLines, StatusLoadingStyle.Render(" loading more..."))
		} else if s.hasMore {
			allLines = append(allLines, SidebarPreviewStyle.Render(" ↓ more"))
		}

		// Keep the selected conversation inside the visible window
		if selectedStartLine < s.scrollOffset {
			s.scrollOffset = selectedStartLine
		} else if selectedStartLine+SidebarItemLines > s.scrollOffset+innerHeight {
			s.scrollOffset = selectedStartLine + SidebarItemLines - innerHeight
		}
		if s.scrollOffset < 0 {
			s.scrollOffset = 0
		}
		maxScroll := len(allLines) - innerHeight
		if maxScroll < 0 {
			maxScroll = 0
		}
		if s.scrollOffset > maxScroll {
			s.scrollOffset = maxScroll
		}

		if s.scrollOffset > 0 && s.scrollOffset < len(allLines) {
			allLines = allLines[s.scrollOffset:]
		}
		if len(allLines) > innerHeight {
			allLines = allLines[:innerHeight]
		}
		content = strings.Join(allLines, "\n")
	}

	body := lipgloss.JoinVertical(lipgloss.Left, header, content)
	return style.Width(s.width).Height(s.height).Render(body)
}

// renderConversation renders one two-line row: member name with unread
// badge, then the last-message preview.
func (s *Sidebar) renderConversation(conv api.Conversation, selected bool, innerWidth int) (string, string) {
	name := conv.DisplayName()
	badge := "  "
	if !conv.Seen {
		badge = UnseenBadgeStyle.Render("●") + " "
	}

	nameWidth := innerWidth - 4 // badge + item padding
	if nameWidth < 1 {
		nameWidth = 1
	}
	name = runewidth.Truncate(name, nameWidth, "…")

	itemStyle := SidebarItemStyle
	if selected {
		itemStyle = SidebarSelectedStyle
		name = "> " + name
	} else {
		name = "  " + name
	}
	nameLine := itemStyle.Width(innerWidth).Render(badge + name)

	prev := preview(conv)
	prevWidth := innerWidth - 5
	if prevWidth < 1 {
		prevWidth = 1
	}
	prev = runewidth.Truncate(prev, prevWidth, "…")
	previewLine := SidebarPreviewStyle.Render("     " + prev)

	return nameLine, previewLine
}
