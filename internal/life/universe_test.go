package life

import (
	"errors"
	"io"
	"testing"
)

// gridFrom builds a planar grid from rows of '#' and '.'.
func gridFrom(t *testing.T, rows ...string) *Grid {
	t.Helper()
	g, err := NewGrid(Dims2(len(rows[0]), len(rows)))
	if err != nil {
		t.Fatalf("NewGrid() failed: %v", err)
	}
	for y, row := range rows {
		for x, r := range row {
			if r == '#' {
				g.Set(C(x, y), AliveCell(0))
			}
		}
	}
	return g
}

func mustUniverse(t *testing.T, opts Options, g *Grid) *Universe {
	t.Helper()
	u, err := NewFromGrid(opts, g)
	if err != nil {
		t.Fatalf("NewFromGrid() failed: %v", err)
	}
	return u
}

func TestNextLiveness(t *testing.T) {
	testCases := []struct {
		cur      Liveness
		n        int
		expected Liveness
	}{
		{Alive, 0, Dead},
		{Alive, 1, Dead},
		{Dead, 1, Dead},
		{Alive, 2, Alive},
		{Dead, 2, Dead},
		{Alive, 3, Alive},
		{Dead, 3, Alive},
		{Alive, 4, Dead},
		{Dead, 4, Dead},
		{Alive, 8, Dead},
		{Alive, 26, Dead},
	}

	for _, tc := range testCases {
		if got := nextLiveness(tc.cur, tc.n); got != tc.expected {
			t.Errorf("nextLiveness(%v, %d) = %v, expected %v", tc.cur, tc.n, got, tc.expected)
		}
	}
}

func TestTickAppliesRuleEverywhere(t *testing.T) {
	for _, topo := range []Topology{Wrap, Clamp} {
		u, err := New(Options{Dims: Dims2(24, 17), Topology: topo, Seed: Seeded(99)})
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		for step := 0; step < 5; step++ {
			prev := u.Current().Clone()
			u.Tick(nil)
			cur := u.Current()
			prev.Each(func(c Coord, cell Cell) {
				n := prev.CountLiveNeighbors(c, topo)
				expected := nextLiveness(cell.Live, n)
				if got := cur.Get(c).Live; got != expected {
					t.Fatalf("%v step %d: cell %v with %d neighbors = %v, expected %v",
						topo, step, c, n, got, expected)
				}
			})
		}
	}
}

func TestBlockIsStillLife(t *testing.T) {
	g := gridFrom(t,
		"......",
		"......",
		"..##..",
		"..##..",
		"......",
		"......",
	)
	u := mustUniverse(t, Options{Topology: Wrap}, g)

	for i := 0; i < 4; i++ {
		u.Tick(nil)
		if !u.Current().Clone().Equal(g) {
			t.Fatalf("block changed after tick %d:\n%s", i+1, u.Current())
		}
	}
}

func TestBlinkerOscillates(t *testing.T) {
	horizontal := gridFrom(t,
		".....",
		".....",
		".###.",
		".....",
		".....",
	)
	vertical := gridFrom(t,
		".....",
		"..#..",
		"..#..",
		"..#..",
		".....",
	)
	u := mustUniverse(t, Options{Topology: Wrap}, horizontal)

	u.Tick(nil)
	if !u.Current().Clone().Equal(vertical) {
		t.Fatalf("after 1 tick expected vertical blinker, got:\n%s", u.Current())
	}
	u.Tick(nil)
	if !u.Current().Clone().Equal(horizontal) {
		t.Fatalf("after 2 ticks expected horizontal blinker, got:\n%s", u.Current())
	}

	// Center survives both ticks, ends were reborn at generation 2.
	if born := u.Current().Get(C(2, 2)).Born; born != 0 {
		t.Errorf("center Born = %d, expected 0", born)
	}
	if born := u.Current().Get(C(1, 2)).Born; born != 2 {
		t.Errorf("end Born = %d, expected 2", born)
	}
}

func TestGenerationAndBuffers(t *testing.T) {
	u, err := New(Options{Dims: Dims2(16, 16), Seed: Seeded(7), Spark: UniformSpark(0.02)})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if u.Generation() != 0 || u.Buffer() != 0 {
		t.Fatalf("fresh universe: generation=%d buffer=%d", u.Generation(), u.Buffer())
	}

	for k := 1; k <= 25; k++ {
		stats := u.Tick(nil)
		if u.Generation() != uint64(k) || stats.Generation != uint64(k) {
			t.Fatalf("after %d ticks Generation() = %d", k, u.Generation())
		}
		if u.Buffer() != k%2 {
			t.Fatalf("after %d ticks Buffer() = %d, expected %d", k, u.Buffer(), k%2)
		}
		u.Current().Each(func(c Coord, cell Cell) {
			if cell.Alive() && cell.Born > uint64(k) {
				t.Fatalf("cell %v Born = %d > generation %d", c, cell.Born, k)
			}
		})
		if stats.Population != u.Current().Population() {
			t.Fatalf("stats.Population = %d, grid has %d", stats.Population, u.Current().Population())
		}
	}
}

func TestSparkForcesEveryCellAlive(t *testing.T) {
	g := MustGrid(Dims2(8, 8))
	u := mustUniverse(t, Options{Topology: Clamp, Seed: Seeded(1), Spark: UniformSpark(1)}, g)

	for i := 0; i < 3; i++ {
		u.Tick(nil)
		if pop := u.Current().Population(); pop != 64 {
			t.Fatalf("tick %d: population = %d, expected 64", i+1, pop)
		}
	}
}

func TestSparkZeroMatchesOff(t *testing.T) {
	build := func(spark Spark) *Universe {
		u, err := New(Options{Dims: Dims2(20, 20), Seed: Seeded(5), Spark: spark})
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		return u
	}
	a := build(Spark{})
	b := build(UniformSpark(0))
	for i := 0; i < 10; i++ {
		a.Tick(nil)
		b.Tick(nil)
	}
	if !a.Current().Clone().Equal(b.Current().Clone()) {
		t.Error("zero-probability spark should behave like no spark")
	}
}

func TestClockSpark(t *testing.T) {
	var reading uint64
	opts := Options{
		Topology: Clamp,
		Spark:    Spark{Mode: SparkClock, Clock: func() uint64 { return reading }, Base: 300},
	}

	// Clock 1 is never a multiple of a modulus above 9873.
	reading = 1
	u := mustUniverse(t, opts, MustGrid(Dims2(4, 4)))
	if stats := u.Tick(nil); stats.Sparked != 0 || stats.Population != 0 {
		t.Errorf("clock=1: sparked=%d population=%d, expected 0", stats.Sparked, stats.Population)
	}

	// Clock 0 is a multiple of every modulus: every dead cell revives.
	reading = 0
	u = mustUniverse(t, opts, MustGrid(Dims2(4, 4)))
	if stats := u.Tick(nil); stats.Sparked != 16 {
		t.Errorf("clock=0: sparked=%d, expected 16", stats.Sparked)
	}

	// Exact modulus for (0,0) with no neighbors: 300 + 1 + 9873 + 0.
	reading = 10174
	u = mustUniverse(t, opts, MustGrid(Dims2(4, 4)))
	u.Tick(nil)
	if !u.IsAlive(C(0, 0)) {
		t.Error("expected (0,0) to be revived by its exact modulus")
	}
	if u.IsAlive(C(1, 0)) {
		t.Error("(1,0) has a different modulus and should stay dead")
	}
}

func TestDeterminism(t *testing.T) {
	opts := Options{
		Dims:     Dims3(9, 8, 5),
		Topology: Wrap,
		Seed:     Seeded(12345),
		Spark:    UniformSpark(0.03),
	}
	a, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	b, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	for i := 0; i < 40; i++ {
		sa := a.Tick(nil)
		sb := b.Tick(nil)
		if sa != sb {
			t.Fatalf("tick %d: stats mismatch %+v vs %+v", i+1, sa, sb)
		}
		if !a.Current().Clone().Equal(b.Current().Clone()) {
			t.Fatalf("tick %d: grids diverged", i+1)
		}
	}
}

func TestWorkersDoNotChangeResults(t *testing.T) {
	build := func(workers int) *Universe {
		u, err := New(Options{
			Dims:    Dims2(37, 29),
			Seed:    Seeded(42),
			Spark:   UniformSpark(0.01),
			Workers: workers,
		})
		if err != nil {
			t.Fatalf("New() failed: %v", err)
		}
		return u
	}
	serial := build(1)
	parallel := build(6)
	tooMany := build(1000)

	for i := 0; i < 30; i++ {
		s := serial.Tick(nil)
		p := parallel.Tick(nil)
		m := tooMany.Tick(nil)
		if s != p || s != m {
			t.Fatalf("tick %d: stats differ %+v / %+v / %+v", i+1, s, p, m)
		}
	}
	if !serial.Current().Clone().Equal(parallel.Current().Clone()) {
		t.Error("parallel universe diverged from serial one")
	}
}

func TestTickCallback(t *testing.T) {
	u, err := New(Options{Dims: Dims3(4, 3, 2), Seed: Seeded(3)})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	seen := make(map[Coord]Liveness)
	u.Tick(func(c Coord, live Liveness) {
		if _, dup := seen[c]; dup {
			t.Errorf("callback called twice for %v", c)
		}
		seen[c] = live
	})

	if len(seen) != 24 {
		t.Fatalf("callback called for %d cells, expected 24", len(seen))
	}
	for c, live := range seen {
		if u.IsAlive(c) != (live == Alive) {
			t.Errorf("callback reported %v for %v, grid disagrees", live, c)
		}
	}
}

func TestTickStatsTransitions(t *testing.T) {
	u := mustUniverse(t, Options{Topology: Wrap}, gridFrom(t,
		".....",
		".....",
		".###.",
		".....",
		".....",
	))
	stats := u.Tick(nil)
	if stats.Born != 2 || stats.Died != 2 || stats.Population != 3 {
		t.Errorf("blinker stats = %+v, expected Born=2 Died=2 Population=3", stats)
	}
}

func TestNewSeedsHalfAlive(t *testing.T) {
	u, err := New(Options{Dims: Dims2(100, 100), Seed: Seeded(2024)})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	pop := u.Current().Population()
	if pop < 4500 || pop > 5500 {
		t.Errorf("genesis population = %d, expected about 5000", pop)
	}
	u.Current().Each(func(c Coord, cell Cell) {
		if cell.Born != 0 {
			t.Fatalf("genesis cell %v Born = %d, expected 0", c, cell.Born)
		}
	})

	full, err := New(Options{Dims: Dims2(10, 10), Seed: Seeded(1), Fill: 1})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if full.Current().Population() != 100 {
		t.Errorf("fill=1 population = %d, expected 100", full.Current().Population())
	}
}

func TestNewValidation(t *testing.T) {
	testCases := []struct {
		name string
		opts Options
		err  error
	}{
		{"zero dimension", Options{Dims: Dims2(0, 4)}, ErrInvalidDims},
		{"no dims", Options{}, ErrInvalidDims},
		{"spark above one", Options{Dims: Dims2(4, 4), Spark: UniformSpark(1.5)}, ErrInvalidSpark},
		{"negative spark", Options{Dims: Dims2(4, 4), Spark: UniformSpark(-0.1)}, ErrInvalidSpark},
		{"fill above one", Options{Dims: Dims2(4, 4), Fill: 2}, ErrInvalidFill},
	}

	for _, tc := range testCases {
		tc.opts.Seed = Seeded(1)
		if _, err := New(tc.opts); !errors.Is(err, tc.err) {
			t.Errorf("%s: New() error = %v, expected %v", tc.name, err, tc.err)
		}
	}
}

func TestNewFromGridDimsMismatch(t *testing.T) {
	_, err := NewFromGrid(Options{Dims: Dims2(4, 4)}, MustGrid(Dims2(5, 4)))
	if !errors.Is(err, ErrDimsMismatch) {
		t.Errorf("NewFromGrid() error = %v, expected ErrDimsMismatch", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestEntropyFailureIsFatal(t *testing.T) {
	saved := entropy
	entropy = failingReader{}
	defer func() { entropy = saved }()

	if _, err := New(Options{Dims: Dims2(4, 4)}); !errors.Is(err, ErrEntropy) {
		t.Errorf("New() error = %v, expected ErrEntropy", err)
	}
}

func TestSeedReproducesRun(t *testing.T) {
	a, err := New(Options{Dims: Dims2(12, 12), Spark: UniformSpark(0.05)})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	b, err := New(Options{Dims: Dims2(12, 12), Spark: UniformSpark(0.05), Seed: Seeded(a.Seed())})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		a.Tick(nil)
		b.Tick(nil)
	}
	if !a.Current().Clone().Equal(b.Current().Clone()) {
		t.Error("replaying Seed() should reproduce the run")
	}
}

func benchmarkTick(b *testing.B, workers int) {
	u, err := New(Options{Dims: Dims2(256, 256), Seed: Seeded(1), Spark: UniformSpark(0.01), Workers: workers})
	if err != nil {
		b.Fatalf("New() failed: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.Tick(nil)
	}
}

func BenchmarkTickSerial(b *testing.B)   { benchmarkTick(b, 1) }
func BenchmarkTickParallel(b *testing.B) { benchmarkTick(b, 8) }

func TestSparkString(t *testing.T) {
	testCases := []struct {
		spark    Spark
		expected string
	}{
		{Spark{}, "off"},
		{UniformSpark(0.01), "uniform:0.01"},
		{Spark{Mode: SparkClock, Base: 300}, "clock:300"},
	}

	for _, tc := range testCases {
		if got := tc.spark.String(); got != tc.expected {
			t.Errorf("String() = %q, expected %q", got, tc.expected)
		}
	}
}
