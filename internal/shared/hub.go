package shared

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-life/internal/config"
	"github.com/vovakirdan/tui-life/internal/core"
	"github.com/vovakirdan/tui-life/internal/registry"
	"github.com/vovakirdan/tui-life/internal/sink"
	"github.com/vovakirdan/tui-life/internal/storage"
)

// Errors returned by Hub operations.
var (
	ErrRoomNotFound = errors.New("shared: room not found")
	ErrTooManyRooms = errors.New("shared: too many rooms")
	ErrHubStopped   = errors.New("shared: hub stopped")
)

// HubConfig holds configuration for the hub.
type HubConfig struct {
	IdleTimeout   time.Duration // How long an empty room survives
	CleanupPeriod time.Duration // How often to look for idle rooms
	MaxRooms      int
}

// DefaultHubConfig returns sensible defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		IdleTimeout:   2 * time.Minute,
		CleanupPeriod: 30 * time.Second,
		MaxRooms:      32,
	}
}

// RunSaver records retired universes. *storage.Store satisfies it.
type RunSaver interface {
	SaveRun(r storage.Run) (int64, error)
	SaveSamples(runID int64, samples []sink.Sample) error
}

// Hub manages shared rooms.
type Hub struct {
	config     HubConfig
	sim        config.Sim
	patternDir string
	logger     *log.Logger
	saver      RunSaver // Optional, can be nil

	mu      sync.RWMutex
	rooms   map[string]*Room // code -> room
	stopped bool

	// running counts room loops, saves counts pending run writes.
	running sync.WaitGroup
	saves   sync.WaitGroup

	done     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a hub building every room from sim. A nil logger uses
// log.Default().
func NewHub(cfg HubConfig, sim config.Sim, patternDir string, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		config:     cfg,
		sim:        sim,
		patternDir: patternDir,
		logger:     logger,
		rooms:      make(map[string]*Room),
		done:       make(chan struct{}),
	}
}

// SetRunSaver sets the optional saver for retired universes.
func (h *Hub) SetRunSaver(saver RunSaver) {
	h.saver = saver
}

// Start begins the idle room cleanup loop.
func (h *Hub) Start() {
	go h.cleanupLoop()
}

// Stop closes every room and ends the cleanup loop. It returns once every
// room loop has exited and every retired run has been handed to the saver,
// so the saver's store can be closed right after.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})

	h.mu.Lock()
	h.stopped = true
	rooms := h.rooms
	h.rooms = make(map[string]*Room)
	h.mu.Unlock()

	for _, r := range rooms {
		r.Close(CloseReasonStopped)
	}

	// Room loops start saves, so they must finish first.
	h.running.Wait()
	h.saves.Wait()
}

// Create starts a room running variantID with host as its first viewer
// and returns the join code.
func (h *Hub) Create(variantID string, host Viewer) (string, error) {
	variant, err := registry.Lookup(variantID)
	if err != nil {
		return "", err
	}
	u, err := variant.NewUniverse(h.sim, h.patternDir)
	if err != nil {
		return "", fmt.Errorf("shared: building universe: %w", err)
	}

	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return "", ErrHubStopped
	}
	if h.config.MaxRooms > 0 && len(h.rooms) >= h.config.MaxRooms {
		h.mu.Unlock()
		return "", ErrTooManyRooms
	}
	code := h.generateUniqueCode()
	room := NewRoom(code, variant, h.sim, h.patternDir, u, host, h.logger.With("code", code))
	h.rooms[code] = room
	h.running.Add(1)
	h.mu.Unlock()

	host.Send(RoomJoinedEvent{Code: code, VariantID: variant.ID, Title: variant.Title, Host: true})
	go func() {
		defer h.running.Done()
		room.Run(h.saveRetired)
	}()

	h.logger.Info("room created", "code", code, "variant", variant.ID, "viewer", host.ID())
	return code, nil
}

// Join adds v to the room with the given code. Codes are case-insensitive.
func (h *Hub) Join(code string, v Viewer) error {
	room, ok := h.Room(code)
	if !ok {
		return ErrRoomNotFound
	}
	if err := room.Join(v); err != nil {
		return err
	}
	h.logger.Info("room joined", "code", room.Code(), "viewer", v.ID(), "viewers", room.Viewers())
	return nil
}

// Leave removes a viewer from a room. The room keeps running until the
// idle timeout passes.
func (h *Hub) Leave(code string, id ViewerID) {
	if room, ok := h.Room(code); ok {
		room.Leave(id)
	}
}

// Input forwards an action to a room.
func (h *Hub) Input(code string, a core.Action) {
	if room, ok := h.Room(code); ok {
		room.Input(a)
	}
}

// Room returns a room by code.
func (h *Hub) Room(code string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[strings.ToUpper(code)]
	return r, ok
}

// RoomCount returns the number of open rooms.
func (h *Hub) RoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// saveRetired records a universe a room stopped running. Best effort; Stop
// waits for pending writes.
func (h *Hub) saveRetired(r Retired) {
	if h.saver == nil {
		return
	}
	opts := r.Universe.Options()
	run := storage.Run{
		Variant:         r.Variant,
		Seed:            r.Universe.Seed(),
		Dims:            opts.Dims.String(),
		Topology:        opts.Topology.String(),
		Spark:           opts.Spark.String(),
		Generations:     r.Universe.Generation(),
		FinalPopulation: r.Universe.Current().Population(),
		PeakPopulation:  r.Census.Peak(),
	}
	samples := r.Census.Samples()

	h.saves.Add(1)
	go func() {
		defer h.saves.Done()
		id, err := h.saver.SaveRun(run)
		if err != nil {
			h.logger.Warn("could not save shared run", "code", r.Code, "error", err)
			return
		}
		if err := h.saver.SaveSamples(id, samples); err != nil {
			h.logger.Warn("could not save shared samples", "run", id, "error", err)
		}
	}()
}

func (h *Hub) cleanupLoop() {
	ticker := time.NewTicker(h.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			h.closeIdle(now)
		case <-h.done:
			return
		}
	}
}

// closeIdle closes rooms that have been empty longer than the idle timeout.
func (h *Hub) closeIdle(now time.Time) {
	h.mu.Lock()
	var idle []*Room
	for code, r := range h.rooms {
		since := r.EmptySince()
		if !since.IsZero() && now.Sub(since) > h.config.IdleTimeout {
			idle = append(idle, r)
			delete(h.rooms, code)
		}
	}
	h.mu.Unlock()

	for _, r := range idle {
		h.logger.Info("room closed", "code", r.Code(), "reason", CloseReasonIdle)
		r.Close(CloseReasonIdle)
	}
}

func (h *Hub) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := h.rooms[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}
