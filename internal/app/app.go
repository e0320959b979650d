// Package app wires the conversation engine, the REST client and the UI
// panels into the Bubble Tea event loop. All server work happens inside
// tea.Cmds; completions flow back as messages carrying the token captured
// when the fetch began, and the engine decides whether they still apply.
package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/fitdesk/fitdesk/internal/api"
	"github.com/fitdesk/fitdesk/internal/chat"
	"github.com/fitdesk/fitdesk/internal/config"
	"github.com/fitdesk/fitdesk/internal/errors"
	"github.com/fitdesk/fitdesk/internal/logger"
	"github.com/fitdesk/fitdesk/internal/ui"
)

// Focus represents which panel is focused
type Focus int

const (
	FocusSidebar Focus = iota
	FocusChat
)

// Model is the main Bubble Tea model
type Model struct {
	config  *config.Config
	client  *api.Client
	version string // App version (injected at build time)

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	chat    *ui.Chat
	modal   *ui.Modal

	list  *chat.ConversationList
	feed  *chat.Feed
	sends *chat.SendPipeline

	width  int
	height int
	focus  Focus

	// Deep link from --member; resolved once the first list page lands
	deepLinkMemberID int64

	// Anchor captured before an older-page fetch, consumed after the merge
	pendingAnchor *chat.Anchor

	// Unseen conversation ids from the previous list fetch, nil until the
	// first page lands. Diffed against fresh results to drive notifications.
	knownUnseen map[int64]bool

	// Local send id → staged file path, needed to reissue failed file sends
	filePaths map[string]string

	clipboardReady bool
}

// Option configures the model at construction time
type Option func(*Model)

// WithMember deep-links straight into the conversation with the given member
func WithMember(memberID int64) Option {
	return func(m *Model) {
		m.deepLinkMemberID = memberID
	}
}

// New creates a new app model
func New(cfg *config.Config, client *api.Client, version string, opts ...Option) *Model {
	// Load saved theme from config, or use default
	if savedTheme := cfg.GetTheme(); savedTheme != "" {
		ui.SetThemeByName(savedTheme)
	}

	m := &Model{
		config:  cfg,
		client:  client,
		version: version,
		header:  ui.NewHeader(),
		footer:  ui.NewFooter(),
		sidebar: ui.NewSidebar(),
		chat:    ui.NewChat(),
		modal:   ui.NewModal(),
		list:    chat.NewConversationList(cfg.GetConversationPageSize()),
		feed:    chat.NewFeed(),
		sends:   chat.NewSendPipeline(),
		focus:   FocusSidebar,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.sidebar.SetFocused(true)

	return m
}

// Init starts the first conversation-list fetch
func (m *Model) Init() tea.Cmd {
	tok, ok := m.list.BeginFetch(false)
	if !ok {
		return nil
	}
	return m.fetchConversationsCmd(tok)
}

// updateSizes recalculates panel dimensions after a terminal resize
func (m *Model) updateSizes() {
	vc := ui.GetViewContext()
	vc.UpdateTerminalSize(m.width, m.height)

	m.header.SetWidth(vc.TerminalWidth)
	m.footer.SetWidth(vc.TerminalWidth)
	m.sidebar.SetSize(vc.SidebarWidth, vc.ContentHeight)
	m.chat.SetSize(vc.ChatWidth, vc.ContentHeight)
}

// updateFooterContext refreshes the footer's conditional keybindings
func (m *Model) updateFooterContext() {
	m.footer.SetContext(
		m.chat.HasConversation(),
		m.focus == FocusSidebar,
		m.sidebar.IsSearchMode(),
		m.sends.Sending(),
	)
}

// setFocus moves focus between the panels
func (m *Model) setFocus(focus Focus) {
	m.focus = focus
	m.sidebar.SetFocused(focus == FocusSidebar)
	m.chat.SetFocused(focus == FocusChat)
}

// syncSidebar pushes the engine's collection into the sidebar panel
func (m *Model) syncSidebar() {
	m.sidebar.SetConversations(m.list.Conversations(), m.list.Total(), m.list.HasMore())
	m.header.SetUnseenCount(len(m.list.UnseenIDs()))
}

// syncPending pushes the send pipeline's entries into the chat panel
func (m *Model) syncPending() {
	m.chat.SetPending(m.sends.Pending(), m.sends.Sending())
}

// flashError surfaces an error as a footer toast
func (m *Model) flashError(err error) tea.Cmd {
	logger.ComponentLogger("app").Error("operation failed", "error", err)
	m.footer.SetFlash(errors.UserMessage(err), ui.FlashError)
	return ui.FlashTick()
}
