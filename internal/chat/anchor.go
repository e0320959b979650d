package chat

// Prepending older messages above the viewport must not visually move what
// the admin is reading. The math lives here against a small geometry
// interface; the ui package adapts the real viewport, and tests drive a fake.
// All positions are in rendered lines.

// Viewport is the geometry the anchor engine needs. ElementTop returns the
// first rendered line of a message, in content coordinates.
type Viewport interface {
	ScrollTop() int
	SetScrollTop(top int)
	ElementTop(messageID int64) (int, bool)
	Height() int
	ContentHeight() int
}

const (
	// TopThresholdLines is how close to the top edge the scroll position must
	// be before the next older page is requested.
	TopThresholdLines = 3

	// JumpThresholdLines is how far above the bottom the viewport must sit
	// before the scroll-to-bottom affordance appears.
	JumpThresholdLines = 5
)

// Anchor is the visually-stable reference captured right before an older
// page is fetched and consumed right after the merge. Never persisted.
type Anchor struct {
	ID     int64 // anchor message id
	Offset int   // anchor's top line relative to the scroll position
}

// NearTop reports whether the viewport is scrolled within the trigger
// threshold of the top.
func NearTop(vp Viewport) bool {
	return vp.ScrollTop() <= TopThresholdLines
}

// CaptureAnchor finds the anchor message: the first message, in ascending id
// order, whose bottom edge lies below the viewport's visible top edge. ids
// must be ascending; a message's bottom is the next message's top, the last
// one ends at the content height.
func CaptureAnchor(vp Viewport, ids []int64) (Anchor, bool) {
	scrollTop := vp.ScrollTop()
	for i, id := range ids {
		top, ok := vp.ElementTop(id)
		if !ok {
			continue
		}
		bottom := vp.ContentHeight()
		if i+1 < len(ids) {
			if nextTop, ok := vp.ElementTop(ids[i+1]); ok {
				bottom = nextTop
			}
		}
		if bottom > scrollTop {
			return Anchor{ID: id, Offset: top - scrollTop}, true
		}
	}
	return Anchor{}, false
}

// RestoreAnchor scrolls so the anchor message sits at the offset it had when
// captured. If the anchor vanished (it should not, merges only add above it)
// restoration is skipped silently.
func RestoreAnchor(vp Viewport, a Anchor) bool {
	top, ok := vp.ElementTop(a.ID)
	if !ok {
		return false
	}
	vp.SetScrollTop(top - a.Offset)
	return true
}

// DistanceFromBottom returns how many lines of content lie below the visible
// area.
func DistanceFromBottom(vp Viewport) int {
	d := vp.ContentHeight() - vp.ScrollTop() - vp.Height()
	if d < 0 {
		return 0
	}
	return d
}

// ShowJumpToBottom reports whether the floating scroll-to-bottom control
// should be visible. Derived purely from scroll geometry, recomputed on every
// scroll event.
func ShowJumpToBottom(vp Viewport) bool {
	return DistanceFromBottom(vp) > JumpThresholdLines
}
