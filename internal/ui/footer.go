package ui

import (
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// FlashType categorizes a transient footer message
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// DefaultFlashDuration is how long a flash message stays visible
const DefaultFlashDuration = 5 * time.Second

// FlashMessage is a transient status message shown in place of keybindings
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the message has outlived its duration
func (m *FlashMessage) IsExpired() bool {
	return time.Since(m.CreatedAt) > m.Duration
}

// FlashTickMsg drives expiry checks for the active flash message
type FlashTickMsg time.Time

// FlashTick returns a command that sends a tick for flash expiry
func FlashTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width           int
	hasConversation bool // Whether a conversation is open
	sidebarFocused  bool // Whether the sidebar has focus
	searchMode      bool // Whether the sidebar search input is active
	sending         bool // Whether a send is in flight
	flashMessage    *FlashMessage
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(hasConversation, sidebarFocused, searchMode, sending bool) {
	f.hasConversation = hasConversation
	f.sidebarFocused = sidebarFocused
	f.searchMode = searchMode
	f.sending = sending
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetFlash shows a transient message with the default duration
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.SetFlashWithDuration(text, flashType, DefaultFlashDuration)
}

// SetFlashWithDuration shows a transient message for a custom duration
func (f *Footer) SetFlashWithDuration(text string, flashType FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:      text,
		Type:      flashType,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// ClearFlash removes the active flash message
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a flash message is active
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// ClearIfExpired clears the flash when its duration ran out. Returns whether
// it was cleared.
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

func flashIcon(t FlashType) (string, color.Color) {
	switch t {
	case FlashError:
		return "✕", ColorError
	case FlashWarning:
		return "⚠", ColorWarning
	case FlashSuccess:
		return "✓", ColorSuccess
	default:
		return "ℹ", ColorInfo
	}
}

// View renders the footer
func (f *Footer) View() string {
	// An active flash replaces the keybindings until it expires
	if f.flashMessage != nil {
		icon, color := flashIcon(f.flashMessage.Type)
		style := lipgloss.NewStyle().Foreground(color).Bold(true)
		content := style.Render(icon+" ") + FooterDescStyle.Render(f.flashMessage.Text)
		// A long error text must not wrap the one-line footer
		if f.width > 4 {
			content = ansi.Truncate(content, f.width-2, "…")
		}
		return FooterStyle.Width(f.width).Render(content)
	}

	var bindings []KeyBinding
	switch {
	case f.searchMode:
		bindings = []KeyBinding{
			{Key: "esc", Desc: "close search"},
			{Key: "enter", Desc: "keep filter"},
			{Key: "↑/↓", Desc: "navigate"},
		}
	case f.sidebarFocused:
		bindings = []KeyBinding{
			{Key: "↑/↓/j/k", Desc: "navigate"},
			{Key: "enter", Desc: "open"},
			{Key: "/", Desc: "search"},
			{Key: "n", Desc: "new message"},
			{Key: "r", Desc: "refresh"},
			{Key: "s", Desc: "settings"},
			{Key: "q", Desc: "quit"},
		}
		if f.hasConversation {
			bindings = append(bindings[:2], append([]KeyBinding{{Key: "tab", Desc: "chat"}}, bindings[2:]...)...)
		}
	default:
		bindings = []KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "ctrl+v", Desc: "attach image"},
			{Key: "ctrl+f", Desc: "attach file"},
			{Key: "tab", Desc: "sidebar"},
			{Key: "pgup/dn", Desc: "scroll"},
			{Key: "end", Desc: "newest"},
		}
	}

	var parts []string
	if f.sending && !f.sidebarFocused {
		parts = append(parts, StatusLoadingStyle.Render("sending…"))
	}
	for _, b := range bindings {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}

	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")

	return FooterStyle.Width(f.width).Render(content)
}
