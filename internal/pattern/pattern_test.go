package pattern

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-life/internal/life"
)

func TestParse(t *testing.T) {
	data := []byte(`
id: glider
name: Glider
size: {w: 3, h: 3}
cells: [[1, 0], [2, 1], [0, 2], [1, 2], [2, 2], [2, 2]]
metadata:
  period: "4"
`)
	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if p.ID != "glider" || p.Name != "Glider" {
		t.Errorf("unexpected header: %+v", p)
	}
	if p.Dims.String() != "3x3" {
		t.Errorf("Dims = %s, expected 3x3", p.Dims)
	}
	if len(p.Cells) != 5 {
		t.Errorf("expected duplicates collapsed to 5 cells, got %d", len(p.Cells))
	}
	if p.Metadata["period"] != "4" {
		t.Errorf("metadata period = %q, expected 4", p.Metadata["period"])
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		data string
		want string
	}{
		{"bad yaml", "id: [", "yaml unmarshal"},
		{"no id", "size: {w: 1, h: 1}\ncells: [[0,0]]", "missing id"},
		{"zero size", "id: x\nsize: {w: 0, h: 2}\ncells: []", "invalid dimensions"},
		{"outside", "id: x\nsize: {w: 2, h: 2}\ncells: [[2, 0]]", "outside"},
		{"arity", "id: x\nsize: {w: 2, h: 2}\ncells: [[0, 0, 0]]", "components"},
	}

	for _, tc := range testCases {
		_, err := Parse([]byte(tc.data))
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}

func TestBuiltins(t *testing.T) {
	patterns, err := Builtins()
	if err != nil {
		t.Fatalf("Builtins() failed: %v", err)
	}

	expected := []string{"beacon", "blinker", "block", "cube", "glider", "toad"}
	if len(patterns) != len(expected) {
		t.Fatalf("got %d builtins, expected %d", len(patterns), len(expected))
	}
	for i, id := range expected {
		if patterns[i].ID != id {
			t.Errorf("builtin %d = %s, expected %s", i, patterns[i].ID, id)
		}
	}

	cube, err := Builtin("cube")
	if err != nil {
		t.Fatalf("Builtin(cube) failed: %v", err)
	}
	if cube.Dims.Rank() != 3 || len(cube.Cells) != 8 {
		t.Errorf("cube: rank=%d cells=%d", cube.Dims.Rank(), len(cube.Cells))
	}

	if _, err := Builtin("nope"); err == nil {
		t.Error("expected error for unknown builtin")
	}
}

func TestPlaceWrapAndClamp(t *testing.T) {
	blinker, err := Builtin("blinker")
	if err != nil {
		t.Fatalf("Builtin() failed: %v", err)
	}

	g := life.MustGrid(life.Dims2(4, 4))
	if err := blinker.Place(g, life.C(3, 1), life.Wrap); err != nil {
		t.Fatalf("Place(wrap) failed: %v", err)
	}
	for _, c := range []life.Coord{life.C(3, 1), life.C(0, 1), life.C(1, 1)} {
		if !g.IsAlive(c) {
			t.Errorf("expected %v alive after wrapped placement", c)
		}
	}

	clamped := life.MustGrid(life.Dims2(4, 4))
	if err := blinker.Place(clamped, life.C(3, 1), life.Clamp); err == nil {
		t.Error("expected clamp placement across the edge to fail")
	}
	if clamped.Population() != 0 {
		t.Errorf("failed placement must not modify the grid, population %d", clamped.Population())
	}
}

func TestCenteredPatternEvolves(t *testing.T) {
	block, err := Builtin("block")
	if err != nil {
		t.Fatalf("Builtin() failed: %v", err)
	}
	dims := life.Dims2(8, 8)
	g := life.MustGrid(dims)
	if err := block.Place(g, block.Centered(dims), life.Clamp); err != nil {
		t.Fatalf("Place() failed: %v", err)
	}
	if !g.IsAlive(life.C(3, 3)) || !g.IsAlive(life.C(4, 4)) {
		t.Errorf("block not centered:\n%s", g)
	}

	u, err := life.NewFromGrid(life.Options{Topology: life.Clamp}, g)
	if err != nil {
		t.Fatalf("NewFromGrid() failed: %v", err)
	}
	u.Tick(nil)
	if !u.Current().Clone().Equal(g) {
		t.Error("centered block should be a still life")
	}
}

func TestPlanarPatternInVolume(t *testing.T) {
	glider, err := Builtin("glider")
	if err != nil {
		t.Fatalf("Builtin() failed: %v", err)
	}
	dims := life.Dims3(5, 5, 5)
	at := glider.Centered(dims)
	if at.Z != 2 {
		t.Errorf("planar pattern centered at layer %d, expected 2", at.Z)
	}
	g := life.MustGrid(dims)
	if err := glider.Place(g, at, life.Clamp); err != nil {
		t.Fatalf("Place() failed: %v", err)
	}
	if g.Population() != 5 {
		t.Errorf("population = %d, expected 5", g.Population())
	}
}

func TestLoader(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		filepath.Join(dir, "b.yaml"):   "id: bravo\nsize: {w: 1, h: 1}\ncells: [[0, 0]]\n",
		filepath.Join(sub, "a.yml"):    "id: alpha\nsize: {w: 2, h: 1}\ncells: [[0, 0], [1, 0]]\n",
		filepath.Join(dir, "bad.yaml"): "id: [",
		filepath.Join(dir, "note.txt"): "ignored",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	l := NewLoader(dir)
	patterns, err := l.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(patterns) != 2 {
		t.Fatalf("LoadAll() returned %d patterns, expected 2", len(patterns))
	}
	if patterns[0].ID != "alpha" || patterns[1].ID != "bravo" {
		t.Errorf("unexpected order: %s, %s", patterns[0].ID, patterns[1].ID)
	}
	if patterns[0].FilePath == "" {
		t.Error("FilePath should be set for loaded patterns")
	}

	if _, err := l.LoadByID("bravo"); err != nil {
		t.Errorf("LoadByID(bravo) failed: %v", err)
	}
	if _, err := l.LoadByID("charlie"); err == nil {
		t.Error("expected error for missing pattern")
	}

	p, err := Resolve("alpha", dir)
	if err != nil || p.ID != "alpha" {
		t.Errorf("Resolve(alpha) = %v, %v", p.ID, err)
	}
	p, err = Resolve("glider", dir)
	if err != nil || p.ID != "glider" {
		t.Errorf("Resolve(glider) should fall back to builtins: %v, %v", p.ID, err)
	}
	p, err = Resolve(filepath.Join(dir, "b.yaml"), "")
	if err != nil || p.ID != "bravo" {
		t.Errorf("Resolve(path) = %v, %v", p.ID, err)
	}
}
