package ui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestModal_ShowHide(t *testing.T) {
	m := NewModal()

	if m.IsVisible() {
		t.Error("New modal should be hidden")
	}

	m.Show(NewAttachFileState())
	if !m.IsVisible() {
		t.Error("Modal should be visible after Show")
	}

	m.Hide()
	if m.IsVisible() {
		t.Error("Modal should be hidden after Hide")
	}
}

func TestModal_ErrorClearsOnShow(t *testing.T) {
	m := NewModal()
	m.Show(NewAttachFileState())
	m.SetError("file too large")

	if m.GetError() != "file too large" {
		t.Errorf("Expected error to be set, got %q", m.GetError())
	}

	view := m.View(100, 40)
	if !strings.Contains(view, "file too large") {
		t.Error("Error should render inside the modal")
	}

	m.Show(NewAttachFileState())
	if m.GetError() != "" {
		t.Error("Showing a modal should clear the previous error")
	}
}

func TestModal_ViewWhenHidden(t *testing.T) {
	m := NewModal()
	if m.View(100, 40) != "" {
		t.Error("Hidden modal should render nothing")
	}
}

func TestConfirmNewConversationState(t *testing.T) {
	s := NewConfirmNewConversationState(42, "Dana Reyes")

	view := s.Render()
	if !strings.Contains(view, "Dana Reyes") {
		t.Error("Confirm modal should name the member")
	}
	if !strings.Contains(view, "New Conversation") {
		t.Error("Confirm modal should render its title")
	}

	// Without a name it falls back to the member id
	anon := NewConfirmNewConversationState(42, "")
	if !strings.Contains(anon.Render(), "member #42") {
		t.Error("Confirm modal should fall back to the member id")
	}
}

func TestComposeState(t *testing.T) {
	s := NewComposeState(42, "Dana Reyes")

	if !strings.Contains(s.Title(), "Dana Reyes") {
		t.Error("Compose title should name the member")
	}

	s.Input.SetValue("  welcome aboard  ")
	if s.GetContent() != "welcome aboard" {
		t.Errorf("GetContent should trim, got %q", s.GetContent())
	}

	// Enter is owned by the app layer, the textarea must not swallow it
	before := s.Input.Value()
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.Input.Value() != before {
		t.Error("Enter should not reach the textarea")
	}
}

func TestAttachFileState(t *testing.T) {
	s := NewAttachFileState()

	s.Input.SetValue(" /tmp/progress.png ")
	if s.GetPath() != "/tmp/progress.png" {
		t.Errorf("GetPath should trim, got %q", s.GetPath())
	}

	if !strings.Contains(s.Render(), "Attach File") {
		t.Error("Attach modal should render its title")
	}
}

func TestSettingsState(t *testing.T) {
	s := NewSettingsState(ThemeNames(), CurrentThemeName(), true)

	if !s.GetNotificationsEnabled() {
		t.Error("Settings should start from the current notification setting")
	}
	if s.ThemeChanged() {
		t.Error("Theme should start unchanged")
	}

	s.selectedTheme = "nord"
	if s.GetSelectedTheme() != "nord" {
		t.Errorf("Expected selected theme nord, got %q", s.GetSelectedTheme())
	}
	if CurrentThemeName() == "nord" {
		t.Skip("current theme is already nord")
	}
	if !s.ThemeChanged() {
		t.Error("Selecting a different theme should register as a change")
	}

	if !strings.Contains(s.Render(), "Settings") {
		t.Error("Settings modal should render its title")
	}
}
