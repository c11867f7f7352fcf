package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/combustor/internal/config"
	"github.com/san-kum/combustor/internal/experiment"
	"github.com/san-kum/combustor/internal/sim"
)

func shortRun(t *testing.T) (*config.Config, *experiment.Result) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Run.Horizon = 2e-5

	e := experiment.New(cfg)
	if err := e.Setup(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return cfg, res
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, res := shortRun(t)
	runID, err := st.Save("test", cfg, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "test" {
		t.Errorf("expected name 'test', got '%s'", meta.Name)
	}
	if meta.Status != "completed" {
		t.Errorf("expected status completed, got %s", meta.Status)
	}
	if meta.Steps != res.Steps {
		t.Errorf("expected %d steps, got %d", res.Steps, meta.Steps)
	}
	if meta.Config == nil || meta.Config.Chamber.Volume != cfg.Chamber.Volume {
		t.Errorf("config not round-tripped: %+v", meta.Config)
	}
	if meta.Metrics["peak_pressure"] != res.Metrics["peak_pressure"] {
		t.Errorf("expected peak_pressure %g, got %g", res.Metrics["peak_pressure"], meta.Metrics["peak_pressure"])
	}

	table, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if table.Len() != res.Series.Len() {
		t.Errorf("expected %d rows, got %d", res.Series.Len(), table.Len())
	}

	times, ok := table.Column("time")
	if !ok {
		t.Fatal("missing time column")
	}
	want := res.Series.Times()
	for i := range want {
		if times[i] != want[i] {
			t.Errorf("time[%d] = %g, want %g", i, times[i], want[i])
		}
	}
	for _, col := range []string{"thrust", "velocity", "mdot_fuel", "mdot_exhaust", "Y_C3H8", "Y_O2"} {
		if _, ok := table.Column(col); !ok {
			t.Errorf("missing column %s", col)
		}
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	cfg, res := shortRun(t)
	for _, name := range []string{"first", "second"} {
		if _, err := st.Save(name, cfg, res); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Name != "first" || runs[1].Name != "second" {
		t.Errorf("runs out of order: %s, %s", runs[0].Name, runs[1].Name)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	cfg, res := shortRun(t)
	runID, err := st.Save("test", cfg, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, samplesFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestWriteCSVEmptySeries(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sim.NewSeries(0), nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}

	table, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("expected empty table, got %d rows", table.Len())
	}
}

func TestReadCSVRejectsGarbage(t *testing.T) {
	_, err := ReadCSV(bytes.NewBufferString("time,thrust\n0,abc\n"))
	if err == nil {
		t.Error("expected parse error")
	}
}
