package shared

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-life/internal/config"
	"github.com/vovakirdan/tui-life/internal/core"
	"github.com/vovakirdan/tui-life/internal/life"
	"github.com/vovakirdan/tui-life/internal/registry"
	"github.com/vovakirdan/tui-life/internal/sink"
)

// Retired describes a universe a room stopped running, either because it
// was replaced (reseed, replay, extinction) or because the room closed.
type Retired struct {
	Code     string
	Variant  string
	Universe *life.Universe
	Census   *sink.Census
}

// Room runs one universe for every viewer that joined it. The universe is
// only touched by the Run goroutine; viewers steer it through Input.
type Room struct {
	code       string
	variant    registry.Variant
	cfg        config.Sim
	patternDir string
	host       ViewerID
	logger     *log.Logger

	// Owned by Run
	universe *life.Universe
	census   *sink.Census
	tickRate int
	paused   bool

	mu         sync.Mutex
	viewers    map[ViewerID]Viewer
	emptySince time.Time

	inputMu sync.Mutex
	pending core.InputFrame

	closeReason CloseReason
	done        chan struct{}
	doneOnce    sync.Once
}

// NewRoom creates a room around an already built universe. A nil logger
// uses log.Default().
func NewRoom(code string, variant registry.Variant, cfg config.Sim, patternDir string, u *life.Universe, host Viewer, logger *log.Logger) *Room {
	if logger == nil {
		logger = log.Default()
	}
	tickRate := variant.TickRate
	if tickRate == 0 {
		tickRate = cfg.TickRate
	}
	r := &Room{
		code:       code,
		variant:    variant,
		cfg:        cfg,
		patternDir: patternDir,
		host:       host.ID(),
		logger:     logger,
		universe:   u,
		census:     sink.NewCensus(cfg.SampleEvery),
		tickRate:   core.ClampTickRate(tickRate),
		viewers:    map[ViewerID]Viewer{host.ID(): host},
		pending:    core.NewInputFrame(),
		done:       make(chan struct{}),
	}
	r.census.Seed(u.Current().Population())
	return r
}

// Code returns the join code of the room.
func (r *Room) Code() string {
	return r.code
}

// Variant returns the variant the room runs.
func (r *Room) Variant() registry.Variant {
	return r.variant
}

// Join adds a viewer and announces the new viewer count. It returns
// ErrRoomNotFound once the room is closing.
func (r *Room) Join(v Viewer) error {
	r.mu.Lock()
	select {
	case <-r.done:
		r.mu.Unlock()
		return ErrRoomNotFound
	default:
	}
	r.viewers[v.ID()] = v
	r.emptySince = time.Time{}
	// Sent under the lock so it precedes any RoomClosedEvent.
	v.Send(RoomJoinedEvent{Code: r.code, VariantID: r.variant.ID, Title: r.variant.Title, Host: v.ID() == r.host})
	r.mu.Unlock()

	r.broadcast(ViewersEvent{Code: r.code, Viewers: r.Viewers()})
	return nil
}

// Leave removes a viewer.
func (r *Room) Leave(id ViewerID) {
	r.mu.Lock()
	_, ok := r.viewers[id]
	delete(r.viewers, id)
	if ok && len(r.viewers) == 0 {
		r.emptySince = time.Now()
	}
	r.mu.Unlock()

	if ok {
		r.broadcast(ViewersEvent{Code: r.code, Viewers: r.Viewers()})
	}
}

// Viewers returns the number of viewers.
func (r *Room) Viewers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewers)
}

// EmptySince returns when the last viewer left, or the zero time while
// someone is watching.
func (r *Room) EmptySince() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.emptySince
}

// Input queues an action for the next tick. Pause, Step, Reset, Reseed,
// Faster and Slower are honored; other actions are ignored.
func (r *Room) Input(a core.Action) {
	r.inputMu.Lock()
	defer r.inputMu.Unlock()
	r.pending.Set(a)
}

// Close stops the room. Run notifies the remaining viewers.
func (r *Room) Close(reason CloseReason) {
	r.doneOnce.Do(func() {
		r.closeReason = reason
		close(r.done)
	})
}

// Done returns a channel closed once the room is closing.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// Run is the authoritative tick loop. retire receives every universe the
// room stops running; it may be nil.
func (r *Room) Run(retire func(Retired)) {
	ticker := time.NewTicker(tickInterval(r.tickRate))
	defer ticker.Stop()

	r.broadcast(ViewersEvent{Code: r.code, Viewers: r.Viewers()})
	r.broadcast(r.frame())
	for {
		select {
		case <-ticker.C:
			rate := r.tickRate
			step := r.applyInputs(retire)
			if rate != r.tickRate {
				ticker.Reset(tickInterval(r.tickRate))
			}
			if !r.paused || step {
				r.advance(retire)
			}
			r.pruneViewers()
			r.broadcast(r.frame())

		case <-r.done:
			r.retire(retire)
			r.broadcast(RoomClosedEvent{Code: r.code, Reason: r.closeReason})
			return
		}
	}
}

func tickInterval(rate int) time.Duration {
	return time.Second / time.Duration(core.ClampTickRate(rate))
}

// applyInputs consumes queued actions. It reports whether a single step
// was requested while paused.
func (r *Room) applyInputs(retire func(Retired)) bool {
	r.inputMu.Lock()
	input := r.pending
	r.pending = core.NewInputFrame()
	r.inputMu.Unlock()

	if input.Has(core.ActionPause) {
		r.paused = !r.paused
	}
	if input.Has(core.ActionFaster) {
		r.tickRate = core.ClampTickRate(r.tickRate * 2)
	}
	if input.Has(core.ActionSlower) {
		r.tickRate = core.ClampTickRate(r.tickRate / 2)
	}
	switch {
	case input.Has(core.ActionReseed):
		r.restart(false, retire)
	case input.Has(core.ActionReset):
		r.restart(true, retire)
	}
	return r.paused && input.Has(core.ActionStep)
}

// advance runs one generation. A universe that dies out without a spark
// source is replaced by a freshly seeded one so the room keeps going.
func (r *Room) advance(retire func(Retired)) {
	stats := r.universe.Tick(nil)
	r.census.Record(stats)
	if stats.Population == 0 && r.universe.Options().Spark.Mode == life.SparkOff {
		r.restart(false, retire)
	}
}

func (r *Room) restart(replay bool, retire func(Retired)) {
	var (
		u   *life.Universe
		err error
	)
	if replay {
		u, err = r.variant.Replay(r.cfg, r.patternDir, r.universe.Seed())
	} else {
		cfg := r.cfg
		cfg.Seed = 0
		u, err = r.variant.NewUniverse(cfg, r.patternDir)
	}
	if err != nil {
		r.logger.Warn("could not restart universe", "replay", replay, "error", err)
		return
	}
	r.retire(retire)
	r.universe = u
	r.census = sink.NewCensus(r.cfg.SampleEvery)
	r.census.Seed(u.Current().Population())
}

func (r *Room) retire(retire func(Retired)) {
	if retire == nil || r.universe.Generation() == 0 {
		return
	}
	retire(Retired{Code: r.code, Variant: r.variant.ID, Universe: r.universe, Census: r.census})
}

func (r *Room) frame() Frame {
	last := r.census.Last()
	return Frame{
		Code:       r.code,
		Generation: r.universe.Generation(),
		Population: r.universe.Current().Population(),
		Born:       last.Born,
		Died:       last.Died,
		Seed:       r.universe.Seed(),
		TickRate:   r.tickRate,
		Paused:     r.paused,
		Grid:       r.universe.Current().Clone(),
	}
}

// pruneViewers drops viewers whose sessions ended.
func (r *Room) pruneViewers() {
	r.mu.Lock()
	changed := false
	for id, v := range r.viewers {
		select {
		case <-v.Done():
			delete(r.viewers, id)
			changed = true
		default:
		}
	}
	count := len(r.viewers)
	if changed && count == 0 {
		r.emptySince = time.Now()
	}
	r.mu.Unlock()

	if changed {
		r.broadcast(ViewersEvent{Code: r.code, Viewers: count})
	}
}

func (r *Room) broadcast(evt Event) {
	r.mu.Lock()
	viewers := make([]Viewer, 0, len(r.viewers))
	for _, v := range r.viewers {
		viewers = append(viewers, v)
	}
	r.mu.Unlock()

	for _, v := range viewers {
		v.Send(evt)
	}
}
