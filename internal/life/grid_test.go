package life

import (
	"errors"
	"strings"
	"testing"
)

func TestNewGridRejectsBadDims(t *testing.T) {
	testCases := []struct {
		name string
		dims Dims
	}{
		{"zero value", Dims{}},
		{"zero width", Dims2(0, 5)},
		{"zero height", Dims2(5, 0)},
		{"zero depth", Dims3(3, 3, 0)},
		{"negative", Dims2(-1, 4)},
	}

	for _, tc := range testCases {
		if _, err := NewGrid(tc.dims); !errors.Is(err, ErrInvalidDims) {
			t.Errorf("%s: NewGrid() error = %v, expected ErrInvalidDims", tc.name, err)
		}
	}
}

func TestNewGridAllDead(t *testing.T) {
	g := MustGrid(Dims3(4, 3, 2))
	if g.Population() != 0 {
		t.Errorf("Population() = %d, expected 0", g.Population())
	}
	if len(g.cells) != 24 {
		t.Errorf("expected 24 cells, got %d", len(g.cells))
	}
}

func TestParseDims(t *testing.T) {
	testCases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"64x32", "64x32", false},
		{"16X16x8", "16x16x8", false},
		{" 3x3 ", "3x3", false},
		{"0x3", "", true},
		{"3", "", true},
		{"3x3x3x3", "", true},
		{"axb", "", true},
	}

	for _, tc := range testCases {
		d, err := ParseDims(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseDims(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDims(%q): unexpected error %v", tc.in, err)
			continue
		}
		if d.String() != tc.want {
			t.Errorf("ParseDims(%q) = %s, expected %s", tc.in, d, tc.want)
		}
	}
}

func TestGridSetGet(t *testing.T) {
	g := MustGrid(Dims2(3, 3))
	g.Set(C(1, 2), AliveCell(7))

	if !g.IsAlive(C(1, 2)) {
		t.Error("expected (1,2) to be alive")
	}
	if g.Get(C(1, 2)).Born != 7 {
		t.Errorf("Born = %d, expected 7", g.Get(C(1, 2)).Born)
	}
	if g.IsAlive(C(2, 1)) {
		t.Error("expected (2,1) to be dead")
	}
}

func TestGridOutOfBoundsPanics(t *testing.T) {
	g := MustGrid(Dims2(3, 3))

	testCases := []struct {
		name string
		fn   func()
	}{
		{"Set", func() { g.Set(C(3, 0), AliveCell(0)) }},
		{"IsAlive", func() { g.IsAlive(C(0, -1)) }},
		{"Get", func() { g.Get(C3(0, 0, 1)) }},
		{"CountLiveNeighbors", func() { g.CountLiveNeighbors(C(5, 5), Clamp) }},
	}

	for _, tc := range testCases {
		func() {
			defer func() {
				r := recover()
				if r == nil {
					t.Errorf("%s: expected panic for out-of-bounds access", tc.name)
					return
				}
				if msg, ok := r.(string); !ok || !strings.Contains(msg, "out of bounds") {
					t.Errorf("%s: unexpected panic value %v", tc.name, r)
				}
			}()
			tc.fn()
		}()
	}
}

func TestCountLiveNeighborsWrapCenter(t *testing.T) {
	g := MustGrid(Dims2(3, 3))
	g.Set(C(1, 1), AliveCell(0))

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			expected := 1
			if x == 1 && y == 1 {
				expected = 0
			}
			if n := g.CountLiveNeighbors(C(x, y), Wrap); n != expected {
				t.Errorf("CountLiveNeighbors(%d,%d) = %d, expected %d", x, y, n, expected)
			}
		}
	}
}

func TestCountLiveNeighborsClampCorner(t *testing.T) {
	g := MustGrid(Dims2(5, 5))
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			g.Set(C(x, y), AliveCell(0))
		}
	}

	if n := g.CountLiveNeighbors(C(0, 0), Clamp); n != 3 {
		t.Errorf("clamp corner count = %d, expected 3", n)
	}
	if n := g.CountLiveNeighbors(C(0, 0), Wrap); n != 8 {
		t.Errorf("wrap corner count = %d, expected 8", n)
	}
	if n := g.CountLiveNeighbors(C(2, 0), Clamp); n != 5 {
		t.Errorf("clamp edge count = %d, expected 5", n)
	}
}

func TestCountLiveNeighborsClampIgnoresFarEdge(t *testing.T) {
	g := MustGrid(Dims2(5, 5))
	// Only reachable from (0,0) by wrapping.
	g.Set(C(4, 4), AliveCell(0))
	g.Set(C(4, 0), AliveCell(0))
	g.Set(C(0, 4), AliveCell(0))

	if n := g.CountLiveNeighbors(C(0, 0), Clamp); n != 0 {
		t.Errorf("clamp count = %d, expected 0", n)
	}
	if n := g.CountLiveNeighbors(C(0, 0), Wrap); n != 3 {
		t.Errorf("wrap count = %d, expected 3", n)
	}
}

func TestCountLiveNeighbors3D(t *testing.T) {
	g := MustGrid(Dims3(3, 3, 3))
	g.Each(func(c Coord, _ Cell) {
		g.Set(c, AliveCell(0))
	})

	testCases := []struct {
		coord    Coord
		topo     Topology
		expected int
	}{
		{C3(1, 1, 1), Clamp, 26},
		{C3(1, 1, 1), Wrap, 26},
		{C3(0, 0, 0), Clamp, 7},
		{C3(1, 0, 0), Clamp, 11},
		{C3(1, 1, 0), Clamp, 17},
		{C3(0, 0, 0), Wrap, 26},
	}

	for _, tc := range testCases {
		if n := g.CountLiveNeighbors(tc.coord, tc.topo); n != tc.expected {
			t.Errorf("CountLiveNeighbors(%v, %v) = %d, expected %d", tc.coord, tc.topo, n, tc.expected)
		}
	}
}

func TestMooreOffsets(t *testing.T) {
	if len(moore2) != 8 {
		t.Errorf("planar offsets = %d, expected 8", len(moore2))
	}
	if len(moore3) != 26 {
		t.Errorf("volumetric offsets = %d, expected 26", len(moore3))
	}
	for _, off := range moore2 {
		if off.Z != 0 {
			t.Errorf("planar offset %v has Z component", off)
		}
	}
}

func TestGridEachOrder(t *testing.T) {
	g := MustGrid(Dims3(2, 2, 2))
	var got []Coord
	g.Each(func(c Coord, _ Cell) {
		got = append(got, c)
	})

	expected := []Coord{
		C3(0, 0, 0), C3(1, 0, 0), C3(0, 1, 0), C3(1, 1, 0),
		C3(0, 0, 1), C3(1, 0, 1), C3(0, 1, 1), C3(1, 1, 1),
	}
	if len(got) != len(expected) {
		t.Fatalf("Each visited %d cells, expected %d", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Each[%d] = %v, expected %v", i, got[i], expected[i])
		}
	}
}

func TestGridString(t *testing.T) {
	g := MustGrid(Dims2(3, 2))
	g.Set(C(0, 0), AliveCell(0))
	g.Set(C(2, 1), AliveCell(0))

	expected := "#..\n..#"
	if g.String() != expected {
		t.Errorf("String() = %q, expected %q", g.String(), expected)
	}

	v := MustGrid(Dims3(1, 1, 2))
	v.Set(C3(0, 0, 1), AliveCell(0))
	if v.String() != ".\n\n#" {
		t.Errorf("String() = %q, expected %q", v.String(), ".\n\n#")
	}
}

func TestGridCloneEqual(t *testing.T) {
	g := MustGrid(Dims2(4, 4))
	g.Set(C(1, 1), AliveCell(3))

	clone := g.Clone()
	if !g.Equal(clone) {
		t.Error("clone should equal original")
	}

	clone.Set(C(2, 2), AliveCell(0))
	if g.Equal(clone) {
		t.Error("modified clone should differ")
	}
	if g.IsAlive(C(2, 2)) {
		t.Error("modifying clone must not affect original")
	}

	if g.Equal(MustGrid(Dims2(4, 5))) {
		t.Error("grids of different dims should differ")
	}
}
