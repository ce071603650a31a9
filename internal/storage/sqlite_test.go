package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-life/internal/sink"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func saveRun(t *testing.T, store *Store, variant string, gens uint64, peak int) int64 {
	t.Helper()
	id, err := store.SaveRun(Run{
		Variant:         variant,
		Seed:            42,
		Dims:            "8x8",
		Topology:        "wrap",
		Spark:           "off",
		Generations:     gens,
		FinalPopulation: peak / 2,
		PeakPopulation:  peak,
	})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	return id
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	saveRun(t, store, "torus", 100, 30)
	saveRun(t, store, "torus", 50, 20)
	saveRun(t, store, "torus", 200, 40)
	saveRun(t, store, "console", 500, 10)

	runs, err := store.TopRuns("torus", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs, got %d", len(runs))
	}

	// Should be sorted by length descending
	expected := []uint64{200, 100, 50}
	for i, r := range runs {
		if r.Generations != expected[i] {
			t.Errorf("runs[%d].Generations = %d, expected %d", i, r.Generations, expected[i])
		}
		if r.Variant != "torus" || r.Seed != 42 || r.Dims != "8x8" {
			t.Errorf("runs[%d] = %+v", i, r)
		}
	}

	got, err := store.Run(runs[0].ID)
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if got == nil || got.PeakPopulation != 40 || got.FinalPopulation != 20 {
		t.Errorf("Run() = %+v", got)
	}

	missing, err := store.Run(9999)
	if err != nil || missing != nil {
		t.Errorf("Run(9999) = %v, %v, expected nil, nil", missing, err)
	}
}

func TestStoreTopRunsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 15; i++ {
		saveRun(t, store, "pixels", uint64(i*10), i)
	}

	runs, err := store.TopRuns("pixels", 5)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 5 {
		t.Errorf("Expected 5 runs, got %d", len(runs))
	}
	if runs[0].Generations != 140 {
		t.Errorf("Expected longest run 140, got %d", runs[0].Generations)
	}

	// Default limit
	runs, err = store.TopRuns("pixels", 0)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 10 {
		t.Errorf("Expected default limit of 10, got %d", len(runs))
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	first := saveRun(t, store, "torus", 10, 1)
	second := saveRun(t, store, "cube", 20, 2)

	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("RecentRuns() order = %d, %d, expected %d, %d", runs[0].ID, runs[1].ID, second, first)
	}
}

func TestStoreSamples(t *testing.T) {
	store := openTestStore(t)
	id := saveRun(t, store, "torus", 30, 12)

	samples := []sink.Sample{
		{Generation: 10, Population: 12, Born: 4, Died: 2},
		{Generation: 20, Population: 9, Born: 1, Died: 4, Sparked: 1},
		{Generation: 30, Population: 6, Died: 3},
	}
	if err := store.SaveSamples(id, samples); err != nil {
		t.Fatalf("SaveSamples() failed: %v", err)
	}
	if err := store.SaveSamples(id, nil); err != nil {
		t.Errorf("SaveSamples(nil) failed: %v", err)
	}

	got, err := store.Samples(id)
	if err != nil {
		t.Fatalf("Samples() failed: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(got))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Errorf("samples[%d] = %+v, expected %+v", i, got[i], samples[i])
		}
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	id := saveRun(t, store, "torus", 100, 5)
	saveRun(t, store, "cube", 100, 5)
	if err := store.SaveSamples(id, []sink.Sample{{Generation: 1, Population: 5}}); err != nil {
		t.Fatalf("SaveSamples() failed: %v", err)
	}

	if err := store.ClearRuns("torus"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	runs, _ := store.TopRuns("torus", 10)
	if len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
	samples, _ := store.Samples(id)
	if len(samples) != 0 {
		t.Errorf("Expected samples to be cleared, got %d", len(samples))
	}

	// Other variant should be unaffected
	runs, _ = store.TopRuns("cube", 10)
	if len(runs) != 1 {
		t.Errorf("Expected 1 cube run, got %d", len(runs))
	}

	// Empty variant clears everything
	if err := store.ClearRuns(""); err != nil {
		t.Fatalf("ClearRuns(\"\") failed: %v", err)
	}
	recent, _ := store.RecentRuns(10)
	if len(recent) != 0 {
		t.Errorf("Expected no runs after clearing all, got %d", len(recent))
	}
}

func TestStoreVariantStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.VariantStats("torus")
	if err != nil {
		t.Fatalf("VariantStats() failed: %v", err)
	}
	if stats.Runs != 0 || stats.LongestRun != 0 {
		t.Errorf("empty stats = %+v", stats)
	}

	saveRun(t, store, "torus", 100, 30)
	saveRun(t, store, "torus", 300, 10)
	saveRun(t, store, "cube", 50, 8)

	stats, err = store.VariantStats("torus")
	if err != nil {
		t.Fatalf("VariantStats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.LongestRun != 300 || stats.PeakPopulation != 30 {
		t.Errorf("VariantStats() = %+v", stats)
	}
	if stats.AvgGenerations != 200 || stats.TotalGenerations != 400 {
		t.Errorf("avg/total = %v/%d, expected 200/400", stats.AvgGenerations, stats.TotalGenerations)
	}
	if stats.LastRun.IsZero() {
		t.Error("LastRun should be set")
	}

	all, err := store.AllVariantStats()
	if err != nil {
		t.Fatalf("AllVariantStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected stats for 2 variants, got %d", len(all))
	}
	if all["cube"].Runs != 1 || all["cube"].LongestRun != 50 {
		t.Errorf("cube stats = %+v", all["cube"])
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
