package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Header represents the top header bar
type Header struct {
	width       int
	memberName  string
	unseenCount int
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetMemberName sets the name of the member whose conversation is open
func (h *Header) SetMemberName(name string) {
	h.memberName = name
}

// SetUnseenCount sets the number of unread conversations shown on the right
func (h *Header) SetUnseenCount(count int) {
	h.unseenCount = count
}

// View renders the header
func (h *Header) View() string {
	titleText := " fitdesk"
	var rightText, unseenText string
	if h.memberName != "" {
		rightText = h.memberName
	}
	if h.unseenCount > 0 {
		unseenText = fmt.Sprintf("(%d unread)", h.unseenCount)
		if rightText != "" {
			rightText += " " + unseenText
		} else {
			rightText = unseenText
		}
	}
	if rightText != "" {
		rightText += " "
	}

	paddingLen := h.width - len(titleText) - len(rightText)
	if paddingLen < 0 {
		paddingLen = 0
	}

	fullContent := titleText + strings.Repeat(" ", paddingLen) + rightText

	return h.renderGradient(fullContent, unseenText)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders the content with a theme-aware gradient background.
// mutedPart identifies the unread-count portion so it renders dimmer.
func (h *Header) renderGradient(content string, mutedPart string) string {
	if len(content) == 0 {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	// End color: fade to the main background
	endR, endG, endB := parseHexColor(theme.Bg)

	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)

	mutedStart := -1
	if mutedPart != "" {
		mutedStart = strings.Index(content, mutedPart)
	}

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)

		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		bgColor := lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))

		inMuted := mutedStart >= 0 && i >= mutedStart

		style := lipgloss.NewStyle().
			Background(bgColor).
			Bold(i < 8) // Bold for the "fitdesk" title

		if inMuted {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
