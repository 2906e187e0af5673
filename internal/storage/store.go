package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/plexus/internal/metrics"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
)

// Store keeps headless runs under baseDir, one directory per run.
type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Preset        string             `json:"preset"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          uint64             `json:"seed"`
	Frames        int                `json:"frames"`
	ParticleCount int                `json:"particle_count"`
	Width         uint32             `json:"width"`
	Height        uint32             `json:"height"`
	DPR           float64            `json:"dpr"`
	PairIndex     string             `json:"pair_index"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Save writes meta and samples as a new run and returns its ID. meta.ID and
// meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, samples []metrics.Sample) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	meta.Timestamp = s.now()
	if meta.Preset == "" {
		meta.Preset = "custom"
	}
	base := fmt.Sprintf("%s_%d", meta.Preset, meta.Timestamp.Unix())

	runID, runDir := base, filepath.Join(s.baseDir, base)
	for n := 1; ; n++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		runID = fmt.Sprintf("%s-%d", base, n)
		runDir = filepath.Join(s.baseDir, runID)
	}
	meta.ID = runID

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, seriesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(metrics.Columns); err != nil {
		return "", err
	}
	for _, sm := range samples {
		vals := sm.Values()
		row := make([]string, len(vals))
		for i, v := range vals {
			row[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns every readable run, oldest first. Directories without
// valid metadata are skipped.
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
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
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

// LoadSeries reads a run's series keyed by column name.
func (s *Store) LoadSeries(runID string) (map[string][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return map[string][]float64{}, nil
		}
		return nil, err
	}

	series := make(map[string][]float64, len(header))
	for _, h := range header {
		series[h] = []float64{}
	}
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", seriesFile, line, err)
			}
			series[header[i]] = append(series[header[i]], v)
		}
	}
	return series, nil
}

// ExportJSON writes a run's metadata and series as one JSON document.
func (s *Store) ExportJSON(runID string, w io.Writer) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		*RunMetadata
		Series map[string][]float64 `json:"series"`
	}{meta, series})
}
