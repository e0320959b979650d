package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/fitdesk/fitdesk/internal/api"
)

// PendingMessage is an optimistic entry rendered at the tail of the feed
// while its send is in flight. It carries a local uuid, never a server id,
// so it can never collide with or enter the id-ordered cache.
type PendingMessage struct {
	LocalID    string
	Type       api.MessageType
	Content    string
	FileName   string
	EnqueuedAt time.Time
	Failed     bool
}

// SendPipeline tracks in-flight sends for the active conversation. Sending
// state is orthogonal to the feed's loading state: pagination keeps working
// while a send is in flight. Multiple sends may overlap; each resolves or
// fails independently by local id.
type SendPipeline struct {
	pending []PendingMessage
}

// NewSendPipeline creates an empty pipeline.
func NewSendPipeline() *SendPipeline {
	return &SendPipeline{}
}

// EnqueueText registers an optimistic text message and returns it.
func (p *SendPipeline) EnqueueText(content string) PendingMessage {
	return p.enqueue(PendingMessage{Type: api.MessageText, Content: content})
}

// EnqueueFile registers an optimistic file message and returns it.
func (p *SendPipeline) EnqueueFile(fileName string) PendingMessage {
	return p.enqueue(PendingMessage{Type: api.MessageFile, FileName: fileName})
}

func (p *SendPipeline) enqueue(msg PendingMessage) PendingMessage {
	msg.LocalID = uuid.New().String()
	msg.EnqueuedAt = time.Now()
	p.pending = append(p.pending, msg)
	return msg
}

// Resolve removes the optimistic entry once the server confirmed the send.
// The caller merges the confirmed message into the feed by its server id.
// Unknown local ids (already resolved, or cleared by a conversation switch)
// are ignored.
func (p *SendPipeline) Resolve(localID string) bool {
	for i := range p.pending {
		if p.pending[i].LocalID == localID {
			p.pending = append(p.pending[:i], p.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Fail marks the optimistic entry failed so the composer can offer a retry.
// The entry stays visible; it is not silently dropped.
func (p *SendPipeline) Fail(localID string) bool {
	for i := range p.pending {
		if p.pending[i].LocalID == localID {
			p.pending[i].Failed = true
			return true
		}
	}
	return false
}

// Retry re-arms a failed entry for another send attempt. Returns the entry
// so the caller can reissue the request.
func (p *SendPipeline) Retry(localID string) (PendingMessage, bool) {
	for i := range p.pending {
		if p.pending[i].LocalID == localID && p.pending[i].Failed {
			p.pending[i].Failed = false
			return p.pending[i], true
		}
	}
	return PendingMessage{}, false
}

// Discard drops a failed entry the admin gave up on.
func (p *SendPipeline) Discard(localID string) bool {
	for i := range p.pending {
		if p.pending[i].LocalID == localID && p.pending[i].Failed {
			p.pending = append(p.pending[:i], p.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the optimistic entries in enqueue order. Callers must not
// mutate the slice.
func (p *SendPipeline) Pending() []PendingMessage { return p.pending }

// Sending reports whether any send is still in flight (failed entries are
// waiting on the admin, not the network).
func (p *SendPipeline) Sending() bool {
	for _, m := range p.pending {
		if !m.Failed {
			return true
		}
	}
	return false
}

// Reset clears the pipeline when the selection moves to another
// conversation.
func (p *SendPipeline) Reset() {
	p.pending = nil
}
