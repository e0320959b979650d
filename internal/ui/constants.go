package ui

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidebarWidthRatio is the denominator for sidebar width (1/3 of total width)
	SidebarWidthRatio = 3

	// TextareaHeight is the number of lines for the composer textarea
	TextareaHeight = 3

	// TextareaBorderHeight is the border size around the textarea
	TextareaBorderHeight = 2

	// InputPaddingWidth is the horizontal padding inside the composer (Padding(0, 1) = 1 left + 1 right)
	InputPaddingWidth = 2

	// InputTotalHeight is the total height of the composer area (textarea + borders)
	InputTotalHeight = TextareaHeight + TextareaBorderHeight

	// TitleHeight is the height of panel titles
	TitleHeight = 1

	// DefaultWrapWidth is the fallback wrap width when the viewport width is unknown
	DefaultWrapWidth = 80

	// MinTerminalWidth is the smallest width the layout still works at
	MinTerminalWidth = 40

	// MinTerminalHeight is the smallest height the layout still works at
	MinTerminalHeight = 10
)

// Sidebar constants
const (
	// SidebarSearchCharLimit is the character limit for the search input
	SidebarSearchCharLimit = 64

	// SidebarItemLines is how many lines one conversation row occupies
	// (name line + preview line)
	SidebarItemLines = 2
)

// Chat constants
const (
	// MessageBubbleRatio caps a bubble's width as a fraction of the panel
	MessageBubbleRatio = 0.8

	// RenderCacheSize bounds the rendered-bubble cache
	RenderCacheSize = 500

	// ComposerCharLimit is the character limit for outgoing messages
	ComposerCharLimit = 4000
)

// Modal dimensions
const (
	// ModalWidth is the default width of modals
	ModalWidth = 60

	// ModalInputCharLimit is the character limit for modal text inputs
	ModalInputCharLimit = 256

	// ModalInputWidth is the width of modal text inputs
	ModalInputWidth = 50
)
