package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fitdesk/fitdesk/internal/api"
	"github.com/fitdesk/fitdesk/internal/cache"
	"github.com/fitdesk/fitdesk/internal/chat"
	"github.com/fitdesk/fitdesk/internal/keys"
)

// SendRequestedMsg is emitted when the user submits the composer
type SendRequestedMsg struct {
	Content string
}

// LoadOlderRequestedMsg is emitted when the user scrolls into the top
// threshold of the message feed
type LoadOlderRequestedMsg struct{}

// AttachRequestedMsg is emitted when the user asks to attach a file by path
type AttachRequestedMsg struct{}

// PasteImageRequestedMsg is emitted when the user pastes a clipboard image
type PasteImageRequestedMsg struct{}

// Chat represents the right panel: the message feed and the composer
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool

	hasConversation bool
	conversation    api.Conversation
	messages        []api.Message
	pending         []chat.PendingMessage
	sending         bool
	loadingInitial  bool
	loadingOlder    bool

	// layout maps each message id to the first content line of its rendered
	// block, in viewport content coordinates. Rebuilt on every re-render;
	// this is what the scroll-anchor math reads.
	layout  map[int64]int
	ids     []int64
	wasNear bool // near-top edge detection, one request per crossing

	renderCache *cache.Cache
}

// NewChat creates a new chat panel
func NewChat() *Chat {
	ti := textarea.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = ComposerCharLimit
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	return &Chat{
		viewport:    vp,
		input:       ti,
		layout:      map[int64]int{},
		renderCache: cache.New(RenderCacheSize),
	}
}

// chatViewport adapts the bubbles viewport plus the message layout map to
// the geometry the anchor engine works against.
type chatViewport struct {
	c *Chat
}

func (v chatViewport) ScrollTop() int       { return v.c.viewport.YOffset() }
func (v chatViewport) SetScrollTop(top int) { v.c.viewport.SetYOffset(top) }
func (v chatViewport) Height() int          { return v.c.viewport.Height() }
func (v chatViewport) ContentHeight() int   { return v.c.viewport.TotalLineCount() }

func (v chatViewport) ElementTop(id int64) (int, bool) {
	top, ok := v.c.layout[id]
	return top, ok
}

// Geometry returns the feed's scroll geometry for anchor capture and restore
func (c *Chat) Geometry() chat.Viewport {
	return chatViewport{c: c}
}

// MessageIDs returns the rendered message ids in ascending order
func (c *Chat) MessageIDs() []int64 {
	return c.ids
}

// SetSize sets the chat panel dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	vc := GetViewContext()

	chatPanelHeight := height - InputTotalHeight

	innerWidth := vc.InnerWidth(width)
	viewportHeight := vc.InnerHeight(chatPanelHeight)
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	c.viewport.SetWidth(innerWidth)
	c.viewport.SetHeight(viewportHeight)

	inputInnerWidth := vc.InnerWidth(width) - InputPaddingWidth
	c.input.SetWidth(inputInnerWidth)

	// Wrap width changed, cached renders are stale
	c.renderCache.Clear()
	c.updateContent(false)
}

// SetFocused sets the focus state
func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	if focused {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// SetConversation binds the panel to a conversation whose initial page is
// still loading
func (c *Chat) SetConversation(conv api.Conversation) {
	c.conversation = conv
	c.hasConversation = true
	c.messages = nil
	c.pending = nil
	c.loadingInitial = true
	c.loadingOlder = false
	c.layout = map[int64]int{}
	c.ids = nil
	c.updateContent(false)
}

// ClearConversation empties the panel
func (c *Chat) ClearConversation() {
	c.conversation = api.Conversation{}
	c.hasConversation = false
	c.messages = nil
	c.pending = nil
	c.loadingInitial = false
	c.loadingOlder = false
	c.layout = map[int64]int{}
	c.ids = nil
	c.input.Reset()
	c.updateContent(false)
}

// HasConversation reports whether a conversation is open
func (c *Chat) HasConversation() bool {
	return c.hasConversation
}

// ConversationID returns the open conversation's id, 0 when none
func (c *Chat) ConversationID() int64 {
	if !c.hasConversation {
		return 0
	}
	return c.conversation.ID
}

// SetMessages re-renders the feed from the given ascending message list.
// With stickBottom the view follows the newest message; callers restoring a
// scroll anchor pass false and reposition afterwards.
func (c *Chat) SetMessages(msgs []api.Message, stickBottom bool) {
	c.messages = msgs
	c.loadingInitial = false
	c.updateContent(stickBottom)
}

// SetPending re-renders the optimistic tail entries
func (c *Chat) SetPending(pending []chat.PendingMessage, sending bool) {
	c.pending = pending
	c.sending = sending
	c.updateContent(c.viewport.AtBottom())
}

// SetLoadingOlder toggles the earlier-page loading indicator
func (c *Chat) SetLoadingOlder(loading bool) {
	c.loadingOlder = loading
}

// IsLoadingOlder reports whether an earlier page is being fetched
func (c *Chat) IsLoadingOlder() bool {
	return c.loadingOlder
}

// Sending reports whether a send is in flight
func (c *Chat) Sending() bool {
	return c.sending
}

// AtBottom reports whether the newest message is in view
func (c *Chat) AtBottom() bool {
	return c.viewport.AtBottom()
}

// GotoBottom scrolls to the newest message
func (c *Chat) GotoBottom() {
	c.viewport.GotoBottom()
}

// ShowJumpToBottom reports whether the jump affordance should render,
// derived purely from the current scroll geometry
func (c *Chat) ShowJumpToBottom() bool {
	return c.hasConversation && chat.ShowJumpToBottom(c.Geometry())
}

// Input returns the trimmed composer text
func (c *Chat) Input() string {
	return strings.TrimSpace(c.input.Value())
}

// ClearInput clears the composer
func (c *Chat) ClearInput() {
	c.input.Reset()
}

// renderMessage renders one confirmed message block, cached by id and width
func (c *Chat) renderMessage(msg api.Message, wrapWidth int) string {
	key := fmt.Sprintf("%d:%d", msg.ID, wrapWidth)
	if block, ok := c.renderCache.Get(key); ok {
		return block
	}

	block := renderMessageBlock(msg, c.conversation.DisplayName(), wrapWidth)
	c.renderCache.Put(key, block)
	return block
}

// renderMessageBlock lays out a single message: author and time line, then
// the body. Admin (coach) messages align right, member messages left.
func renderMessageBlock(msg api.Message, memberName string, wrapWidth int) string {
	bubbleWidth := int(float64(wrapWidth) * MessageBubbleRatio)
	if bubbleWidth < 10 {
		bubbleWidth = wrapWidth
	}

	var author string
	var authorStyle lipgloss.Style
	align := lipgloss.Left
	if msg.FromAdmin() {
		author = "You"
		authorStyle = ChatAdminStyle
		align = lipgloss.Right
	} else {
		author = memberName
		authorStyle = ChatMemberStyle
	}

	header := authorStyle.Render(author) + ChatTimeStyle.Render(" · "+msg.Date.Local().Format("15:04"))

	var body string
	if msg.Type == api.MessageFile && msg.File != nil {
		body = ChatFileStyle.Render("📎 " + msg.File.FileName)
	} else {
		body = ChatMessageStyle.Width(bubbleWidth).Render(msg.Content)
	}

	bubble := lipgloss.JoinVertical(align, header, body)
	return lipgloss.PlaceHorizontal(wrapWidth, align, bubble)
}

// renderPending renders an optimistic entry at the feed's tail
func renderPending(p chat.PendingMessage, wrapWidth int) string {
	bubbleWidth := int(float64(wrapWidth) * MessageBubbleRatio)
	if bubbleWidth < 10 {
		bubbleWidth = wrapWidth
	}

	var header, body string
	if p.Failed {
		header = ChatAdminStyle.Render("You") + FailedMessageStyle.Render(" · failed, press ctrl+r to retry")
	} else {
		header = ChatAdminStyle.Render("You") + PendingMessageStyle.Render(" · sending…")
	}
	if p.Type == api.MessageFile {
		body = PendingMessageStyle.Render("📎 " + p.FileName)
	} else {
		body = PendingMessageStyle.Width(bubbleWidth).Render(p.Content)
	}

	bubble := lipgloss.JoinVertical(lipgloss.Right, header, body)
	return lipgloss.PlaceHorizontal(wrapWidth, lipgloss.Right, bubble)
}

func countLines(block string) int {
	return strings.Count(block, "\n") + 1
}

// updateContent rebuilds the viewport content and the message layout map
func (c *Chat) updateContent(stickBottom bool) {
	wrapWidth := c.viewport.Width()
	if wrapWidth <= 0 {
		wrapWidth = DefaultWrapWidth
	}

	c.layout = map[int64]int{}
	c.ids = c.ids[:0]

	var sb strings.Builder
	line := 0

	write := func(block string) {
		if line > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(block)
		line += countLines(block)
	}

	switch {
	case !c.hasConversation:
		write(lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true).
			Render("No conversation selected.\n\nPick a member on the left, or press n to message someone new."))

	case c.loadingInitial:
		write(StatusLoadingStyle.Render("Loading conversation..."))

	default:
		if len(c.messages) == 0 && len(c.pending) == 0 {
			write(lipgloss.NewStyle().
				Foreground(ColorTextMuted).
				Italic(true).
				Render("No messages yet. Say hi!"))
		}

		for _, group := range chat.GroupByDate(c.messages) {
			sep := DateSeparatorStyle.Render(group.Date.Format("Monday, Jan 2"))
			write(lipgloss.PlaceHorizontal(wrapWidth, lipgloss.Center, sep))

			for _, msg := range group.Messages {
				block := c.renderMessage(msg, wrapWidth)
				c.layout[msg.ID] = line
				c.ids = append(c.ids, msg.ID)
				write(block)
			}
		}

		// Optimistic entries render after every confirmed message and never
		// enter the layout map; they have no server id to anchor on.
		for _, p := range c.pending {
			write(renderPending(p, wrapWidth))
		}
	}

	c.viewport.SetContent(sb.String())
	if stickBottom {
		c.viewport.GotoBottom()
	}
}

// scrollKeys are passed to the viewport even while the composer is focused
func isScrollKey(key string) bool {
	switch key {
	case keys.PgUp, keys.PgDown, keys.CtrlUp, keys.CtrlDown,
		keys.CtrlU, keys.CtrlD, keys.Home, keys.End:
		return true
	}
	return false
}

// Update handles messages
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	var cmds []tea.Cmd

	if keyMsg, isKey := msg.(tea.KeyPressMsg); isKey && c.focused && c.hasConversation {
		key := keyMsg.String()
		switch {
		case key == keys.Enter:
			if content := c.Input(); content != "" {
				c.input.Reset()
				return c, func() tea.Msg { return SendRequestedMsg{Content: content} }
			}
			return c, nil
		case key == keys.ShiftEnter:
			// Newline inside the composer
			var cmd tea.Cmd
			c.input, cmd = c.input.Update(msg)
			return c, cmd
		case key == keys.CtrlV:
			return c, func() tea.Msg { return PasteImageRequestedMsg{} }
		case key == keys.CtrlF:
			return c, func() tea.Msg { return AttachRequestedMsg{} }
		case isScrollKey(key):
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			cmds = append(cmds, cmd)
			if cmd := c.afterScroll(); cmd != nil {
				cmds = append(cmds, cmd)
			}
			return c, tea.Batch(cmds...)
		default:
			var cmd tea.Cmd
			c.input, cmd = c.input.Update(msg)
			return c, cmd
		}
	}

	// Non-key events (mouse wheel included) scroll the viewport
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	cmds = append(cmds, cmd)
	if cmd := c.afterScroll(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return c, tea.Batch(cmds...)
}

// afterScroll fires a load-older request when the view crosses into the top
// threshold. Edge-triggered so holding the key at the top does not spam
// requests; the app layer still serializes through the feed's state guard.
func (c *Chat) afterScroll() tea.Cmd {
	if !c.hasConversation || c.loadingInitial {
		return nil
	}
	near := chat.NearTop(c.Geometry())
	crossed := near && !c.wasNear
	c.wasNear = near
	if crossed && !c.loadingOlder {
		return func() tea.Msg { return LoadOlderRequestedMsg{} }
	}
	return nil
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused {
		panelStyle = PanelFocusedStyle
	}

	if !c.hasConversation {
		return panelStyle.Width(c.width).Height(c.height).Render(c.viewport.View())
	}

	chatPanelHeight := c.height - InputTotalHeight
	chatPanel := panelStyle.Width(c.width).Height(chatPanelHeight).Render(c.viewport.View())

	// Status bar between feed and composer: older-page spinner on the left,
	// jump-to-bottom affordance on the right.
	var statusParts []string
	if c.loadingOlder {
		statusParts = append(statusParts, StatusLoadingStyle.Render("loading earlier messages…"))
	}
	if c.ShowJumpToBottom() {
		statusParts = append(statusParts, JumpToBottomStyle.Render("↓ jump to latest (end)"))
	}
	var sections []string
	sections = append(sections, chatPanel)
	if len(statusParts) > 0 {
		bar := lipgloss.PlaceHorizontal(c.width, lipgloss.Right, strings.Join(statusParts, "  "))
		sections = append(sections, bar)
	}

	inputStyle := ChatInputStyle
	if c.focused {
		inputStyle = ChatInputFocusedStyle
	}
	sections = append(sections, inputStyle.Width(c.width).Render(c.input.View()))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
