package chat

// Cursor tracks page/pageSize/total bookkeeping for one paginated resource.
// It never issues network calls; controllers read it to build requests and
// feed server responses back via SetFromResponse.
type Cursor struct {
	page     int
	pageSize int
	total    int
	hasMore  bool
}

// NewCursor creates a cursor positioned at page 1.
func NewCursor(pageSize int) Cursor {
	return Cursor{page: 1, pageSize: pageSize}
}

// Page returns the current 1-based page.
func (c *Cursor) Page() int { return c.page }

// PageSize returns the configured page size.
func (c *Cursor) PageSize() int { return c.pageSize }

// Total returns the last reported total item count.
func (c *Cursor) Total() int { return c.total }

// HasMore reports whether the server has pages beyond the current one.
func (c *Cursor) HasMore() bool { return c.hasMore }

// Reset returns to page 1 and forgets total/hasMore. Called when the search
// term changes so the next fetch replaces the collection.
func (c *Cursor) Reset() {
	c.page = 1
	c.total = 0
	c.hasMore = false
}

// Advance moves to the next page and reports whether it did. Without more
// pages it is a no-op, which keeps a mashed "load more" from issuing
// redundant fetches.
func (c *Cursor) Advance() bool {
	if !c.hasMore {
		return false
	}
	c.page++
	return true
}

// Retreat undoes an Advance after a failed append so the retry asks for the
// same page again. Never moves before page 1.
func (c *Cursor) Retreat() {
	if c.page > 1 {
		c.page--
	}
}

// SetFromResponse records the server's pagination answer for the current page.
func (c *Cursor) SetFromResponse(total int, hasMore bool) {
	c.total = total
	c.hasMore = hasMore
}
