package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/combustor/internal/config"
	"github.com/san-kum/combustor/internal/experiment"
	"github.com/san-kum/combustor/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Mechanism  string             `json:"mechanism"`
	Integrator string             `json:"integrator"`
	Horizon    float64            `json:"horizon"`
	Status     string             `json:"status"`
	Error      string             `json:"error,omitempty"`
	Steps      int                `json:"steps"`
	Devices    []string           `json:"devices"`
	Summary    metrics.Summary    `json:"summary"`
	Metrics    map[string]float64 `json:"metrics"`
	Config     *config.Config     `json:"config"`
}

// Save writes the run under a new directory and returns its ID.
func (s *Store) Save(name string, cfg *config.Config, res *experiment.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  now,
		Mechanism:  cfg.Run.Mechanism,
		Integrator: cfg.Run.Integrator,
		Horizon:    cfg.Run.Horizon,
		Status:     res.Status.String(),
		Steps:      res.Steps,
		Devices:    res.Devices,
		Summary:    res.Summary,
		Metrics:    res.Metrics,
		Config:     cfg,
	}
	if res.Err != nil {
		meta.Error = res.Err.Error()
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, samplesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, res.Series, res.Devices); err != nil {
		return "", err
	}
	return runID, nil
}

// List returns the metadata of every stored run, oldest first. Directories
// without readable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSamples(runID string) (*Table, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
