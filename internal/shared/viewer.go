package shared

import "sync"

// Viewer is the transport-neutral handle rooms use to reach a session.
type Viewer interface {
	// ID returns the unique viewer identifier.
	ID() ViewerID

	// Send delivers an event without blocking.
	Send(evt Event)

	// Done returns a channel that closes when the session ends.
	Done() <-chan struct{}
}

// ChannelViewer is a Viewer backed by a buffered channel. The TUI layer
// reads Events; slow readers lose the oldest events first.
type ChannelViewer struct {
	id       ViewerID
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

// NewChannelViewer creates a viewer buffering up to bufferSize events.
func NewChannelViewer(id ViewerID, bufferSize int) *ChannelViewer {
	if bufferSize < 1 {
		bufferSize = 16
	}
	return &ChannelViewer{
		id:     id,
		events: make(chan Event, bufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the viewer identifier.
func (v *ChannelViewer) ID() ViewerID {
	return v.id
}

// Send queues an event. If the buffer is full the oldest event is dropped.
func (v *ChannelViewer) Send(evt Event) {
	select {
	case <-v.done:
		return
	default:
	}

	select {
	case v.events <- evt:
	default:
		select {
		case <-v.events:
		default:
		}
		select {
		case v.events <- evt:
		default:
		}
	}
}

// Events returns the channel to receive events from.
func (v *ChannelViewer) Events() <-chan Event {
	return v.events
}

// Done returns the done channel.
func (v *ChannelViewer) Done() <-chan struct{} {
	return v.done
}

// Close marks the viewer as gone. Safe to call multiple times.
func (v *ChannelViewer) Close() {
	v.doneOnce.Do(func() {
		close(v.done)
	})
}
