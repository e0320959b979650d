package chat

import (
	"testing"

	"github.com/fitdesk/fitdesk/internal/api"
)

func TestSendPipeline_EnqueueAndResolve(t *testing.T) {
	p := NewSendPipeline()

	msg := p.EnqueueText("how was the workout?")
	if msg.LocalID == "" {
		t.Fatal("EnqueueText assigned no local id")
	}
	if msg.Type != api.MessageText {
		t.Errorf("Type = %v, want MessageText", msg.Type)
	}
	if !p.Sending() {
		t.Error("Sending() = false with an entry in flight")
	}

	if !p.Resolve(msg.LocalID) {
		t.Error("Resolve() = false for a known local id")
	}
	if p.Sending() {
		t.Error("Sending() = true after resolve")
	}
	if len(p.Pending()) != 0 {
		t.Errorf("Pending() = %v, want empty", p.Pending())
	}

	// Resolving twice is harmless.
	if p.Resolve(msg.LocalID) {
		t.Error("second Resolve() = true, want ignored")
	}
}

func TestSendPipeline_OverlappingSends(t *testing.T) {
	// Two sends in flight; the second resolves first. The first optimistic
	// entry must survive untouched.
	p := NewSendPipeline()
	a := p.EnqueueText("first")
	b := p.EnqueueText("second")

	if !p.Resolve(b.LocalID) {
		t.Fatal("Resolve(b) = false")
	}

	pending := p.Pending()
	if len(pending) != 1 || pending[0].LocalID != a.LocalID {
		t.Errorf("pending = %v, want only the first entry", pending)
	}
	if !p.Sending() {
		t.Error("Sending() = false with the first send still in flight")
	}
}

func TestSendPipeline_FailRetryDiscard(t *testing.T) {
	p := NewSendPipeline()
	msg := p.EnqueueFile("progress.jpg")

	if !p.Fail(msg.LocalID) {
		t.Fatal("Fail() = false")
	}
	if p.Sending() {
		t.Error("Sending() = true for a failed entry")
	}
	if got := p.Pending(); len(got) != 1 || !got[0].Failed {
		t.Errorf("pending = %v, want one failed entry kept visible", got)
	}

	retried, ok := p.Retry(msg.LocalID)
	if !ok {
		t.Fatal("Retry() = false for a failed entry")
	}
	if retried.FileName != "progress.jpg" || retried.Failed {
		t.Errorf("retried = %+v, want re-armed file entry", retried)
	}
	if !p.Sending() {
		t.Error("Sending() = false after retry")
	}

	// Retry on an in-flight entry is refused.
	if _, ok := p.Retry(msg.LocalID); ok {
		t.Error("Retry() granted for a non-failed entry")
	}

	p.Fail(msg.LocalID)
	if !p.Discard(msg.LocalID) {
		t.Error("Discard() = false for a failed entry")
	}
	if len(p.Pending()) != 0 {
		t.Errorf("pending = %v after discard, want empty", p.Pending())
	}
}

func TestSendPipeline_DiscardRefusedInFlight(t *testing.T) {
	p := NewSendPipeline()
	msg := p.EnqueueText("hold on")

	if p.Discard(msg.LocalID) {
		t.Error("Discard() granted for an in-flight entry")
	}
}

func TestSendPipeline_ResetOnConversationSwitch(t *testing.T) {
	p := NewSendPipeline()
	msg := p.EnqueueText("bye")
	p.Reset()

	if len(p.Pending()) != 0 || p.Sending() {
		t.Error("Reset() did not clear the pipeline")
	}
	// The old send's completion arrives after the switch: ignored.
	if p.Resolve(msg.LocalID) {
		t.Error("Resolve() applied after reset")
	}
}
