// Package chat holds the state machines behind the console's messaging
// screen: the paginated conversation list, the per-conversation message feed
// with backward pagination, the scroll-anchor math that keeps the viewport
// steady while history is prepended, and the optimistic send pipeline.
//
// Nothing in this package performs I/O or touches the terminal. Controllers
// hand out tokens when an asynchronous operation starts (Begin*) and check
// them when it finishes (Complete*); a completion whose token no longer
// matches current state is discarded, which is how late responses for a
// deselected conversation or a superseded search term are kept from
// corrupting the screen. The app layer owns the actual network calls and
// feeds results back in as Bubble Tea messages.
package chat
