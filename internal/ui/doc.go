// Package ui contains the terminal interface: the conversation sidebar, the
// message panel with its composer, the header and footer bars, and the modal
// dialogs. Rendering is built on lipgloss; interactive widgets come from
// bubbles (viewport, textarea, textinput) and huh (forms).
//
// The ui package renders state it is handed and reports user intent back as
// Bubble Tea messages. It never talks to the server and never owns the
// message or conversation collections; those live in the chat package and
// are driven by the app layer.
package ui
