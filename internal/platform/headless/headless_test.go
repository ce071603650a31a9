package headless

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-life/internal/config"
	"github.com/vovakirdan/tui-life/internal/life"
	"github.com/vovakirdan/tui-life/internal/registry"
	"github.com/vovakirdan/tui-life/internal/sink"
)

func newConsole(t *testing.T, patternRef, patternDir string) *life.Universe {
	t.Helper()
	v, err := registry.Lookup("console")
	if err != nil {
		t.Fatalf("Lookup() failed: %v", err)
	}
	cfg := config.DefaultSim()
	cfg.Pattern = patternRef
	cfg.Seed = 1
	u, err := v.NewUniverse(cfg, patternDir)
	if err != nil {
		t.Fatalf("NewUniverse() failed: %v", err)
	}
	return u
}

func TestRunBlinkerLifespans(t *testing.T) {
	u := newConsole(t, "blinker", "")

	res := Run(context.Background(), u, Options{Generations: 4, SampleEvery: 2})

	if res.Generations != 4 {
		t.Errorf("Generations = %d, expected 4", res.Generations)
	}
	if res.Extinct || res.Canceled {
		t.Errorf("unexpected stop: %+v", res)
	}
	// Each tick the two end cells of the blinker die after one generation.
	if res.Lifespans.Deaths != 8 {
		t.Errorf("Deaths = %d, expected 8", res.Lifespans.Deaths)
	}
	if res.Lifespans.Mean() != 1 || res.Lifespans.Longest != 1 {
		t.Errorf("Lifespans = %+v, expected mean and longest of 1", res.Lifespans)
	}
	if got := len(res.Census.Samples()); got != 2 {
		t.Errorf("Samples() = %d, expected 2", got)
	}
	if res.Census.Peak() != 3 {
		t.Errorf("Peak() = %d, expected 3", res.Census.Peak())
	}
}

func TestRunStopsOnExtinction(t *testing.T) {
	dir := t.TempDir()
	dot := []byte("id: dot\nname: Dot\nsize: {w: 1, h: 1}\ncells:\n  - [0, 0]\n")
	if err := os.WriteFile(filepath.Join(dir, "dot.yaml"), dot, 0o600); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	u := newConsole(t, "dot", dir)

	res := Run(context.Background(), u, Options{Generations: 50, StopOnExtinct: true})
	if !res.Extinct {
		t.Fatal("expected extinction")
	}
	if res.Generations != 1 {
		t.Errorf("Generations = %d, expected 1", res.Generations)
	}
	if res.Lifespans.Deaths != 1 {
		t.Errorf("Deaths = %d, expected 1", res.Lifespans.Deaths)
	}

	u = newConsole(t, "dot", dir)
	res = Run(context.Background(), u, Options{Generations: 5})
	if !res.Extinct || res.Generations != 5 {
		t.Errorf("without StopOnExtinct expected 5 generations, got %+v", res)
	}
}

func TestRunCanceled(t *testing.T) {
	u := newConsole(t, "block", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Run(ctx, u, Options{Generations: 10})
	if !res.Canceled {
		t.Error("expected Canceled")
	}
	if res.Generations != 0 {
		t.Errorf("Generations = %d, expected 0", res.Generations)
	}
}

func TestWritePNG(t *testing.T) {
	u := newConsole(t, "blinker", "")
	px := sink.NewPixels(u.Dims(), nil)
	Run(context.Background(), u, Options{Generations: 3, Pixels: px})

	var buf bytes.Buffer
	if err := WritePNG(&buf, px); err != nil {
		t.Fatalf("WritePNG() failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() failed: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != u.Dims().W() || b.Dy() != u.Dims().H() {
		t.Errorf("image is %dx%d, expected %v", b.Dx(), b.Dy(), u.Dims())
	}

	lit := 0
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if r|g|bl != 0 {
				lit++
			}
		}
	}
	if lit != 3 {
		t.Errorf("lit pixels = %d, expected 3", lit)
	}
}
