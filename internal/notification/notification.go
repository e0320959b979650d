// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/fitdesk/fitdesk/internal/logger"
)

// notify is swappable so tests do not touch the desktop.
var notify = beeep.Notify

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	// Empty icon string lets beeep pick platform defaults.
	err := notify(title, message, "")
	if err != nil {
		logger.Log("Notification: Failed to send notification: %v", err)
	}
	return err
}

// NewMessage announces an unread conversation that just appeared in a
// refresh. preview may be empty for file messages.
func NewMessage(memberName, preview string) error {
	if preview == "" {
		return Send("FitDesk", memberName+" sent a message")
	}
	return Send("FitDesk", fmt.Sprintf("%s: %s", memberName, preview))
}

// NewMessages announces several conversations going unread at once, so a
// burst after a long refresh interval does not spam one popup per thread.
func NewMessages(count int) error {
	if count == 1 {
		return Send("FitDesk", "1 new conversation")
	}
	return Send("FitDesk", fmt.Sprintf("%d new conversations", count))
}
