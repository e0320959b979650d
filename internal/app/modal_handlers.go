package app

import (
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"

	"github.com/fitdesk/fitdesk/internal/keys"
	"github.com/fitdesk/fitdesk/internal/ui"
)

// handleModalKey routes keys while a modal is open. Enter and Escape belong
// to this layer; everything else goes to the modal state's own Update.
func (m *Model) handleModalKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keys.Escape:
		// Declining any step of a flow returns to the no-selection state
		m.modal.Hide()
		return m, nil

	case keys.Enter:
		return m.handleModalConfirm()
	}

	var cmd tea.Cmd
	m.modal, cmd = m.modal.Update(msg)
	return m, cmd
}

func (m *Model) handleModalConfirm() (tea.Model, tea.Cmd) {
	switch state := m.modal.State.(type) {
	case *ui.ConfirmNewConversationState:
		// Step two of the recovery flow: compose the first message
		m.modal.Show(ui.NewComposeState(state.MemberID, state.MemberName))
		return m, nil

	case *ui.ComposeState:
		content := state.GetContent()
		if content == "" {
			m.modal.SetError("message is empty")
			return m, nil
		}
		pending := m.sends.EnqueueText(content)
		m.modal.Hide()
		m.syncPending()
		// Addressing the member id makes the backend create the thread
		return m, m.sendTextCmd(pending.LocalID, 0, state.MemberID, content)

	case *ui.NewMessageState:
		memberID, err := state.GetMemberID()
		if err != nil || memberID <= 0 {
			m.modal.SetError("enter a numeric member id")
			return m, nil
		}
		// An existing thread wins over starting a new one
		for _, conv := range m.list.Conversations() {
			if conv.MemberID == memberID {
				m.modal.Hide()
				return m.selectConversation(conv.ID)
			}
		}
		m.modal.Show(ui.NewConfirmNewConversationState(memberID, ""))
		return m, nil

	case *ui.AttachFileState:
		path := state.GetPath()
		if path == "" {
			m.modal.SetError("enter a file path")
			return m, nil
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			m.modal.SetError("no such file: " + path)
			return m, nil
		}
		conversationID := m.feed.ConversationID()
		if conversationID == 0 {
			m.modal.Hide()
			return m, nil
		}
		pending := m.sends.EnqueueFile(filepath.Base(path))
		m.trackFilePath(pending.LocalID, path)
		m.modal.Hide()
		m.syncPending()
		m.chat.GotoBottom()
		return m, m.sendFileCmd(pending.LocalID, conversationID, 0, path)

	case *ui.SettingsState:
		if state.ThemeChanged() {
			ui.SetThemeByName(state.GetSelectedTheme())
			m.config.SetTheme(state.GetSelectedTheme())
		}
		m.config.SetNotificationsEnabled(state.GetNotificationsEnabled())
		m.modal.Hide()
		if err := m.config.Save(); err != nil {
			return m, m.flashError(err)
		}
		return m, nil
	}

	m.modal.Hide()
	return m, nil
}
