package app

import (
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"

	"github.com/fitdesk/fitdesk/internal/api"
	"github.com/fitdesk/fitdesk/internal/chat"
	"github.com/fitdesk/fitdesk/internal/clipboard"
	"github.com/fitdesk/fitdesk/internal/errors"
	"github.com/fitdesk/fitdesk/internal/keys"
	"github.com/fitdesk/fitdesk/internal/logger"
	"github.com/fitdesk/fitdesk/internal/notification"
	"github.com/fitdesk/fitdesk/internal/ui"
)

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case ui.FlashTickMsg:
		m.footer.ClearIfExpired()
		if m.footer.HasFlash() {
			return m, ui.FlashTick()
		}
		return m, nil

	case SearchDebounceMsg:
		return m.handleSearchDebounce(msg)

	case ui.SearchQueryChangedMsg:
		generation, changed := m.list.SetSearch(msg.Query)
		if !changed {
			return m, nil
		}
		return m, m.searchDebounceCmd(generation)

	case ui.LoadMoreConversationsMsg:
		tok, ok := m.list.BeginFetch(true)
		if !ok {
			m.sidebar.SetLoadingMore(false)
			return m, nil
		}
		return m, m.fetchConversationsCmd(tok)

	case ui.ConversationSelectedMsg:
		return m.selectConversation(msg.ID)

	case ui.LoadOlderRequestedMsg:
		return m.handleLoadOlder()

	case ui.SendRequestedMsg:
		return m.handleSendText(msg.Content)

	case ui.AttachRequestedMsg:
		if m.feed.ConversationID() == 0 {
			return m, nil
		}
		m.modal.Show(ui.NewAttachFileState())
		return m, nil

	case ui.PasteImageRequestedMsg:
		return m.handleImagePaste()

	case ConversationsFetchedMsg:
		return m.handleConversationsFetched(msg)

	case MessagesFetchedMsg:
		return m.handleMessagesFetched(msg)

	case OlderMessagesFetchedMsg:
		return m.handleOlderMessagesFetched(msg)

	case MessagesRefreshedMsg:
		return m.handleMessagesRefreshed(msg)

	case MessageSentMsg:
		return m.handleMessageSent(msg)

	case SeenMarkedMsg:
		if msg.Err != nil {
			// The local seen flag stays; the endpoint is idempotent and the
			// next selection retries.
			logger.ComponentLogger("app").Warn("seen acknowledgement failed",
				"conversation", msg.ConversationID, "error", msg.Err)
		}
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)
	}

	// Everything else (mouse wheel, cursor blinks) goes to the focused panel
	if m.modal.IsVisible() {
		var cmd tea.Cmd
		m.modal, cmd = m.modal.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchDebounce(msg SearchDebounceMsg) (tea.Model, tea.Cmd) {
	// A newer keystroke superseded this tick; its own tick is still coming
	if !m.list.DebounceCurrent(msg.Generation) {
		return m, nil
	}
	tok, ok := m.list.BeginFetch(false)
	if !ok {
		return m, nil
	}
	return m, m.fetchConversationsCmd(tok)
}

func (m *Model) handleConversationsFetched(msg ConversationsFetchedMsg) (tea.Model, tea.Cmd) {
	applied := m.list.CompleteFetch(msg.Token, msg.Page, msg.Err)
	m.sidebar.SetLoadingMore(false)

	if msg.Err != nil {
		// Stale failures stay silent; they no longer concern the screen
		if m.list.DebounceCurrent(msg.Token.Generation()) {
			return m, m.flashError(msg.Err)
		}
		return m, nil
	}
	if !applied {
		return m, nil
	}

	m.syncSidebar()

	var cmds []tea.Cmd
	if !msg.Token.Append() {
		if cmd := m.notifyNewUnseen(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if cmd := m.resolveDeepLink(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

// notifyNewUnseen diffs unseen conversation ids against the previous fetch
// and raises a desktop notification for threads that went unseen since. The
// first page of a session only primes the baseline.
func (m *Model) notifyNewUnseen() tea.Cmd {
	ids := m.list.UnseenIDs()

	if m.knownUnseen == nil {
		m.knownUnseen = make(map[int64]bool, len(ids))
		for _, id := range ids {
			m.knownUnseen[id] = true
		}
		return nil
	}

	var fresh []api.Conversation
	for _, id := range ids {
		if m.knownUnseen[id] || id == m.list.SelectedID() {
			continue
		}
		if conv, ok := m.list.Get(id); ok {
			fresh = append(fresh, conv)
		}
	}

	m.knownUnseen = make(map[int64]bool, len(ids))
	for _, id := range ids {
		m.knownUnseen[id] = true
	}

	if len(fresh) == 0 || !m.config.GetNotificationsEnabled() {
		return nil
	}

	return func() tea.Msg {
		var err error
		if len(fresh) == 1 {
			conv := fresh[0]
			preview := ""
			if conv.LastMessage != nil {
				if conv.LastMessage.Type == api.MessageFile {
					preview = "sent a file"
				} else {
					preview = conv.LastMessage.Content
				}
			}
			err = notification.NewMessage(conv.DisplayName(), preview)
		} else {
			err = notification.NewMessages(len(fresh))
		}
		if err != nil {
			logger.ComponentLogger("app").Warn("notification failed", "error", err)
		}
		return nil
	}
}

// resolveDeepLink handles the --member flag once the first list page landed.
// A member without a thread gets the confirm-then-compose recovery flow.
func (m *Model) resolveDeepLink() tea.Cmd {
	if m.deepLinkMemberID == 0 {
		return nil
	}
	memberID := m.deepLinkMemberID
	m.deepLinkMemberID = 0

	for _, conv := range m.list.Conversations() {
		if conv.MemberID == memberID {
			_, cmd := m.selectConversation(conv.ID)
			return cmd
		}
	}

	logger.ComponentLogger("app").Info("no conversation for member, offering to start one",
		"member", memberID)
	m.modal.Show(ui.NewConfirmNewConversationState(memberID, ""))
	return nil
}

// selectConversation makes a conversation active and kicks off its initial
// load. Reselecting the active conversation only moves focus.
func (m *Model) selectConversation(id int64) (tea.Model, tea.Cmd) {
	conv, ok := m.list.Get(id)
	if !ok {
		return m, nil
	}

	m.sidebar.SelectByID(id)
	m.setFocus(FocusChat)

	if !m.list.Select(id) {
		return m, nil
	}

	m.sends.Reset()
	m.filePaths = nil
	m.pendingAnchor = nil
	m.chat.SetConversation(conv)
	m.header.SetMemberName(conv.DisplayName())

	var cmds []tea.Cmd
	tok := m.feed.BeginInitial(id, conv.FirstMessageID)
	cmds = append(cmds, m.fetchInitialMessagesCmd(tok))

	if m.list.SetSeen(id) {
		m.syncSidebar()
		cmds = append(cmds, m.markSeenCmd(id))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleMessagesFetched(msg MessagesFetchedMsg) (tea.Model, tea.Cmd) {
	applied := m.feed.CompleteInitial(msg.Token, msg.Messages, msg.Err)

	if msg.Err != nil {
		if msg.Token.ConversationID() == m.feed.ConversationID() {
			return m, m.flashError(msg.Err)
		}
		return m, nil
	}
	if applied && m.chat.ConversationID() == msg.Token.ConversationID() {
		// Initial load lands at the newest message
		m.chat.SetMessages(m.feed.Messages(), true)
	}
	return m, nil
}

func (m *Model) handleLoadOlder() (tea.Model, tea.Cmd) {
	tok, beforeID, ok := m.feed.BeginOlder()
	if !ok {
		return m, nil
	}

	// Capture the anchor before anything about the content changes
	if anchor, found := chat.CaptureAnchor(m.chat.Geometry(), m.chat.MessageIDs()); found {
		m.pendingAnchor = &anchor
	}
	m.chat.SetLoadingOlder(true)

	return m, m.fetchOlderMessagesCmd(tok, beforeID)
}

func (m *Model) handleOlderMessagesFetched(msg OlderMessagesFetchedMsg) (tea.Model, tea.Cmd) {
	applied := m.feed.CompleteOlder(msg.Token, msg.Messages, msg.Err)

	if msg.Token.ConversationID() == m.chat.ConversationID() {
		m.chat.SetLoadingOlder(false)
	}

	if msg.Err != nil {
		m.pendingAnchor = nil
		if msg.Token.ConversationID() == m.feed.ConversationID() {
			return m, m.flashError(msg.Err)
		}
		return m, nil
	}
	if !applied {
		m.pendingAnchor = nil
		return m, nil
	}

	// Re-render with the longer list, then put the anchor message back at
	// its pre-fetch offset so the prepend is invisible
	m.chat.SetMessages(m.feed.Messages(), false)
	if m.pendingAnchor != nil {
		chat.RestoreAnchor(m.chat.Geometry(), *m.pendingAnchor)
		m.pendingAnchor = nil
	}
	return m, nil
}

func (m *Model) handleMessagesRefreshed(msg MessagesRefreshedMsg) (tea.Model, tea.Cmd) {
	if msg.ConversationID != m.feed.ConversationID() {
		return m, nil
	}
	if msg.Err != nil {
		return m, m.flashError(msg.Err)
	}
	for _, message := range msg.Messages {
		m.feed.Merge(message)
	}
	m.chat.SetMessages(m.feed.Messages(), m.chat.AtBottom())
	return m, nil
}

func (m *Model) handleSendText(content string) (tea.Model, tea.Cmd) {
	conversationID := m.feed.ConversationID()
	if conversationID == 0 {
		return m, nil
	}

	pending := m.sends.EnqueueText(content)
	m.syncPending()
	m.chat.GotoBottom()

	return m, m.sendTextCmd(pending.LocalID, conversationID, 0, content)
}

func (m *Model) handleMessageSent(msg MessageSentMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.sends.Fail(msg.LocalID)
		m.syncPending()
		return m, m.flashError(msg.Err)
	}

	m.sends.Resolve(msg.LocalID)
	delete(m.filePaths, msg.LocalID)

	result := msg.Result

	// A send addressed to a bare member id created the thread server-side;
	// fold it into the list and open it without a full reload
	if result.Conversation != nil {
		conv := *result.Conversation
		m.list.Upsert(conv)
		m.syncSidebar()
		m.footer.SetFlash("conversation started", ui.FlashSuccess)
		_, cmd := m.selectConversation(conv.ID)
		return m, tea.Batch(cmd, ui.FlashTick())
	}

	// Merge by server id, idempotent with a refresh that already saw it
	m.feed.Merge(result.Message)
	m.list.UpdateLastMessage(msg.ConversationID, result.Message)
	m.syncSidebar()
	m.syncPending()

	if m.chat.ConversationID() == result.Message.ConversationID {
		// A successful send always lands the view on the new message
		m.chat.SetMessages(m.feed.Messages(), true)
	}
	return m, nil
}

// handleImagePaste sends the clipboard image, if any, into the open thread
func (m *Model) handleImagePaste() (tea.Model, tea.Cmd) {
	conversationID := m.feed.ConversationID()
	if conversationID == 0 {
		return m, nil
	}

	if !m.clipboardReady {
		if err := clipboard.Init(); err != nil {
			return m, m.flashError(err)
		}
		m.clipboardReady = true
	}

	img, err := clipboard.ReadImage()
	if err != nil {
		return m, m.flashError(err)
	}
	if img == nil {
		m.footer.SetFlash("no image in the clipboard", ui.FlashInfo)
		return m, ui.FlashTick()
	}
	if err := img.Validate(); err != nil {
		return m, m.flashError(err)
	}

	// Stage the image to a temp file so the upload path is uniform
	f, err := os.CreateTemp("", "fitdesk-paste-*.png")
	if err != nil {
		return m, m.flashError(errors.UploadFailed("clipboard image", err))
	}
	if _, err := f.Write(img.Data); err != nil {
		f.Close()
		return m, m.flashError(errors.UploadFailed("clipboard image", err))
	}
	f.Close()

	pending := m.sends.EnqueueFile(filepath.Base(f.Name()))
	m.trackFilePath(pending.LocalID, f.Name())
	m.syncPending()
	m.chat.GotoBottom()

	return m, m.sendFileCmd(pending.LocalID, conversationID, 0, f.Name())
}

func (m *Model) trackFilePath(localID, path string) {
	if m.filePaths == nil {
		m.filePaths = make(map[string]string)
	}
	m.filePaths[localID] = path
}

// retryFailedSends re-arms every failed optimistic entry
func (m *Model) retryFailedSends() (tea.Model, tea.Cmd) {
	conversationID := m.feed.ConversationID()
	if conversationID == 0 {
		return m, nil
	}

	var cmds []tea.Cmd
	for _, p := range m.sends.Pending() {
		if !p.Failed {
			continue
		}
		entry, ok := m.sends.Retry(p.LocalID)
		if !ok {
			continue
		}
		switch {
		case entry.Type == api.MessageText:
			cmds = append(cmds, m.sendTextCmd(entry.LocalID, conversationID, 0, entry.Content))
		case m.filePaths[entry.LocalID] != "":
			cmds = append(cmds, m.sendFileCmd(entry.LocalID, conversationID, 0, m.filePaths[entry.LocalID]))
		}
	}
	m.syncPending()
	return m, tea.Batch(cmds...)
}

// discardFailedSends drops every failed optimistic entry. Returns whether
// anything was dropped.
func (m *Model) discardFailedSends() bool {
	dropped := false
	for _, p := range m.sends.Pending() {
		if p.Failed && m.sends.Discard(p.LocalID) {
			delete(m.filePaths, p.LocalID)
			dropped = true
		}
	}
	if dropped {
		m.syncPending()
	}
	return dropped
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == keys.CtrlC {
		return m, tea.Quit
	}

	if m.modal.IsVisible() {
		return m.handleModalKey(msg)
	}

	// Search mode owns the keyboard except for the shortcuts the sidebar
	// itself handles
	if m.sidebar.IsSearchMode() && m.focus == FocusSidebar {
		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	}

	switch key {
	case keys.Tab:
		if m.focus == FocusSidebar && m.chat.HasConversation() {
			m.setFocus(FocusChat)
		} else if m.focus == FocusChat {
			m.setFocus(FocusSidebar)
		}
		return m, nil

	case keys.CtrlR:
		if m.focus == FocusChat {
			return m.retryFailedSends()
		}

	case keys.Escape:
		if m.focus == FocusChat {
			if m.discardFailedSends() {
				return m, nil
			}
			m.setFocus(FocusSidebar)
			return m, nil
		}
	}

	if m.focus == FocusSidebar {
		switch key {
		case "q":
			return m, tea.Quit
		case "/":
			return m, m.sidebar.EnterSearchMode()
		case "n":
			m.modal.Show(ui.NewNewMessageState())
			return m, nil
		case "s":
			m.modal.Show(ui.NewSettingsState(
				ui.ThemeNames(),
				ui.CurrentThemeName(),
				m.config.GetNotificationsEnabled(),
			))
			return m, nil
		case "r":
			return m.handleRefresh()
		case "y":
			return m.copySelectedPreview()
		}

		var cmd tea.Cmd
		m.sidebar, cmd = m.sidebar.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.chat, cmd = m.chat.Update(msg)
	return m, cmd
}

// handleRefresh refetches list page 1 and the active feed's newest page.
// Freshness is user-triggered only; there is no background polling.
func (m *Model) handleRefresh() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if tok, ok := m.list.BeginFetch(false); ok {
		cmds = append(cmds, m.fetchConversationsCmd(tok))
	}
	if conversationID := m.feed.ConversationID(); conversationID != 0 && m.feed.State() == chat.FeedReady {
		cmds = append(cmds, m.refreshMessagesCmd(conversationID))
	}
	return m, tea.Batch(cmds...)
}

// copySelectedPreview writes the selected conversation's last message body
// to the system clipboard
func (m *Model) copySelectedPreview() (tea.Model, tea.Cmd) {
	conv, ok := m.sidebar.SelectedConversation()
	if !ok || conv.LastMessage == nil || conv.LastMessage.Type != api.MessageText {
		return m, nil
	}

	if !m.clipboardReady {
		if err := clipboard.Init(); err != nil {
			return m, m.flashError(err)
		}
		m.clipboardReady = true
	}
	if err := clipboard.WriteText(conv.LastMessage.Content); err != nil {
		return m, m.flashError(err)
	}
	m.footer.SetFlash("copied to clipboard", ui.FlashSuccess)
	return m, ui.FlashTick()
}
