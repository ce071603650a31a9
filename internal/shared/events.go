// Package shared hosts universes that several sessions watch together. A
// Room ticks one universe on the server and broadcasts a Frame to every
// viewer; a Hub creates rooms, hands out join codes and closes rooms nobody
// watches any more.
package shared

import "github.com/vovakirdan/tui-life/internal/life"

// ViewerID uniquely identifies a watching session (e.g., SSH connection).
type ViewerID string

// Event is sent from a room or the hub to a viewer.
type Event interface {
	sharedEvent()
}

// RoomJoinedEvent is sent to a viewer that created or joined a room.
type RoomJoinedEvent struct {
	Code      string
	VariantID string
	Title     string
	Host      bool
}

func (RoomJoinedEvent) sharedEvent() {}

// ViewersEvent is broadcast when the number of viewers changes.
type ViewersEvent struct {
	Code    string
	Viewers int
}

func (ViewersEvent) sharedEvent() {}

// Frame is one broadcast generation. Grid is a private copy owned by the
// frame; viewers must treat it as read-only.
type Frame struct {
	Code       string
	Generation uint64
	Population int
	Born       int
	Died       int
	Seed       int64
	TickRate   int
	Paused     bool
	Grid       *life.Grid
}

func (Frame) sharedEvent() {}

// View returns a read-only view of the frame's grid.
func (f Frame) View() life.View {
	return f.Grid.View()
}

// RoomClosedEvent is sent to every remaining viewer when a room closes.
type RoomClosedEvent struct {
	Code   string
	Reason CloseReason
}

func (RoomClosedEvent) sharedEvent() {}

// CloseReason describes why a room closed.
type CloseReason int

const (
	CloseReasonStopped CloseReason = iota // Closed by the hub (shutdown)
	CloseReasonIdle                       // Nobody watched for too long
)

func (r CloseReason) String() string {
	switch r {
	case CloseReasonStopped:
		return "Server stopped"
	case CloseReasonIdle:
		return "Room was idle"
	default:
		return "Unknown"
	}
}
