package ui

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	huh "charm.land/huh/v2"
	"charm.land/lipgloss/v2"

	"github.com/fitdesk/fitdesk/internal/keys"
)

// ModalState is a discriminated union interface for modal-specific state.
// Each modal type implements this interface with its own state struct,
// ensuring type-safe access to modal-specific fields.
type ModalState interface {
	modalState() // marker method to restrict implementations
	Title() string
	Help() string
	Render() string
	Update(msg tea.Msg) (ModalState, tea.Cmd)
}

// Modal represents a popup dialog with type-safe state management.
// The State field is nil when no modal is visible.
type Modal struct {
	State ModalState
	error string
}

// NewModal creates a new modal
func NewModal() *Modal {
	return &Modal{}
}

// Show displays a modal with the given state
func (m *Modal) Show(state ModalState) {
	m.State = state
	m.error = ""
}

// Hide hides the modal
func (m *Modal) Hide() {
	m.State = nil
	m.error = ""
}

// IsVisible returns whether the modal is visible
func (m *Modal) IsVisible() bool {
	return m.State != nil
}

// SetError sets an error message
func (m *Modal) SetError(err string) {
	m.error = err
}

// GetError returns the current error message
func (m *Modal) GetError() string {
	return m.error
}

// Update handles messages by delegating to the current state
func (m *Modal) Update(msg tea.Msg) (*Modal, tea.Cmd) {
	if m.State == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.State, cmd = m.State.Update(msg)
	return m, cmd
}

// View renders the modal centered on the screen
func (m *Modal) View(screenWidth, screenHeight int) string {
	if m.State == nil {
		return ""
	}

	content := m.State.Render()

	if m.error != "" {
		content += "\n" + StatusErrorStyle.Render(m.error)
	}

	modal := ModalStyle.Render(content)

	return lipgloss.Place(
		screenWidth, screenHeight,
		lipgloss.Center, lipgloss.Center,
		modal,
	)
}

// =============================================================================
// ConfirmNewConversationState - confirm starting a thread with a member
// =============================================================================

// ConfirmNewConversationState is shown when a member is addressed directly
// (the --member flag or the new-message flow) and no thread exists yet.
type ConfirmNewConversationState struct {
	MemberID   int64
	MemberName string
}

func (*ConfirmNewConversationState) modalState() {}

func (s *ConfirmNewConversationState) Title() string { return "New Conversation" }

func (s *ConfirmNewConversationState) Help() string {
	return "Enter: compose message  Esc: cancel"
}

func (s *ConfirmNewConversationState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	name := s.MemberName
	if name == "" {
		name = fmt.Sprintf("member #%d", s.MemberID)
	}
	body := lipgloss.NewStyle().
		Foreground(ColorText).
		Width(ModalWidth - 8).
		Render(fmt.Sprintf("There is no conversation with %s yet. Sending a message will start one.", name))

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, body, help)
}

func (s *ConfirmNewConversationState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	return s, nil
}

// NewConfirmNewConversationState creates a new ConfirmNewConversationState
func NewConfirmNewConversationState(memberID int64, memberName string) *ConfirmNewConversationState {
	return &ConfirmNewConversationState{MemberID: memberID, MemberName: memberName}
}

// =============================================================================
// ComposeState - first message to a member without a thread
// =============================================================================

// ComposeState holds the first message to a member. The send addresses the
// member id; the backend creates the thread as a side effect.
type ComposeState struct {
	MemberID   int64
	MemberName string
	Input      textarea.Model
}

func (*ComposeState) modalState() {}

func (s *ComposeState) Title() string {
	if s.MemberName != "" {
		return "Message " + s.MemberName
	}
	return fmt.Sprintf("Message member #%d", s.MemberID)
}

func (s *ComposeState) Help() string {
	return "Enter: send  Shift+Enter: newline  Esc: cancel"
}

func (s *ComposeState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.Input.View(), help)
}

func (s *ComposeState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Enter, keys.Escape:
			// The app-layer modal handlers own these
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// GetContent returns the trimmed message text
func (s *ComposeState) GetContent() string {
	return strings.TrimSpace(s.Input.Value())
}

// NewComposeState creates a new ComposeState
func NewComposeState(memberID int64, memberName string) *ComposeState {
	ti := textarea.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = ComposerCharLimit
	ti.SetHeight(TextareaHeight)
	ti.SetWidth(ModalWidth - 8)
	ti.ShowLineNumbers = false
	ti.Prompt = ""
	ti.Focus()

	return &ComposeState{
		MemberID:   memberID,
		MemberName: memberName,
		Input:      ti,
	}
}

// =============================================================================
// AttachFileState - attach a file by path
// =============================================================================

// AttachFileState asks for the path of a file to send into the open thread.
type AttachFileState struct {
	Input textinput.Model
}

func (*AttachFileState) modalState() {}

func (s *AttachFileState) Title() string { return "Attach File" }

func (s *AttachFileState) Help() string {
	return "Enter: send file  Esc: cancel"
}

func (s *AttachFileState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	hint := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true).
		Render("Tip: ctrl+v in the composer sends an image straight from the clipboard.")

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, s.Input.View(), hint, help)
}

func (s *AttachFileState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Enter, keys.Escape:
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// GetPath returns the trimmed file path
func (s *AttachFileState) GetPath() string {
	return strings.TrimSpace(s.Input.Value())
}

// NewAttachFileState creates a new AttachFileState
func NewAttachFileState() *AttachFileState {
	ti := textinput.New()
	ti.Placeholder = "/path/to/file"
	ti.CharLimit = ModalInputCharLimit
	ti.SetWidth(ModalInputWidth)
	ti.Focus()

	return &AttachFileState{Input: ti}
}

// =============================================================================
// NewMessageState - look up a member to message
// =============================================================================

// NewMessageState asks for a member id to start or resume a conversation with.
type NewMessageState struct {
	Input textinput.Model
}

func (*NewMessageState) modalState() {}

func (s *NewMessageState) Title() string { return "New Message" }

func (s *NewMessageState) Help() string {
	return "Enter: continue  Esc: cancel"
}

func (s *NewMessageState) Render() string {
	title := ModalTitleStyle.Render(s.Title())

	label := lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Render("Member id")

	help := ModalHelpStyle.Render(s.Help())

	return lipgloss.JoinVertical(lipgloss.Left, title, label, s.Input.View(), help)
}

func (s *NewMessageState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case keys.Enter, keys.Escape:
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// GetMemberID parses the entered member id.
func (s *NewMessageState) GetMemberID() (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s.Input.Value()), 10, 64)
}

// NewNewMessageState creates a new NewMessageState
func NewNewMessageState() *NewMessageState {
	ti := textinput.New()
	ti.Placeholder = "e.g. 1042"
	ti.CharLimit = 20
	ti.SetWidth(ModalInputWidth)
	ti.Focus()

	return &NewMessageState{Input: ti}
}

// =============================================================================
// SettingsState - State for the Settings modal
// =============================================================================

const optionNotifications = "notifications"

type SettingsState struct {
	// Bound form values
	selectedTheme string
	OriginalTheme string // To detect if theme changed

	// MultiSelect bindings
	generalOptions []string

	NotificationsEnabled bool

	form *huh.Form
}

func (*SettingsState) modalState() {}

func (s *SettingsState) Title() string { return "Settings" }

func (s *SettingsState) Help() string {
	return "Tab: next field  Enter: save  Esc: cancel"
}

func (s *SettingsState) Render() string {
	title := ModalTitleStyle.Render(s.Title())
	help := ModalHelpStyle.Render(s.Help())
	return lipgloss.JoinVertical(lipgloss.Left, title, s.form.View(), help)
}

func (s *SettingsState) Update(msg tea.Msg) (ModalState, tea.Cmd) {
	var cmd tea.Cmd
	s.form, cmd = huhFormUpdate(s.form, msg)
	s.syncFromMultiSelect()
	return s, cmd
}

// syncFromMultiSelect updates boolean fields from the MultiSelect bindings.
func (s *SettingsState) syncFromMultiSelect() {
	s.NotificationsEnabled = false
	for _, opt := range s.generalOptions {
		if opt == optionNotifications {
			s.NotificationsEnabled = true
		}
	}
}

// GetSelectedTheme returns the selected theme key.
func (s *SettingsState) GetSelectedTheme() string {
	return s.selectedTheme
}

// ThemeChanged returns true if the selected theme differs from the original.
func (s *SettingsState) ThemeChanged() bool {
	return s.selectedTheme != s.OriginalTheme
}

// GetNotificationsEnabled returns whether notifications are enabled
func (s *SettingsState) GetNotificationsEnabled() bool {
	return s.NotificationsEnabled
}

// NewSettingsState creates a new SettingsState with the current settings values.
func NewSettingsState(themes []ThemeName, currentTheme ThemeName, notificationsEnabled bool) *SettingsState {
	s := &SettingsState{
		selectedTheme:        string(currentTheme),
		OriginalTheme:        string(currentTheme),
		NotificationsEnabled: notificationsEnabled,
	}

	themeOptions := make([]huh.Option[string], len(themes))
	for i, name := range themes {
		themeOptions[i] = huh.NewOption(GetTheme(name).Name, string(name))
	}

	generalOpts := []huh.Option[string]{
		huh.NewOption("Desktop notifications", optionNotifications).
			Selected(notificationsEnabled),
	}
	if notificationsEnabled {
		s.generalOptions = append(s.generalOptions, optionNotifications)
	}

	s.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Theme").
			Options(themeOptions...).
			Value(&s.selectedTheme),
		huh.NewMultiSelect[string]().
			Title("Options").
			Options(generalOpts...).
			Height(len(generalOpts)).
			Value(&s.generalOptions),
	)).
		WithTheme(ModalTheme()).
		WithShowHelp(false).
		WithWidth(ModalWidth - 8)

	initHuhForm(s.form)
	return s
}
