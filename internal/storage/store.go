package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ljforce/internal/system"
)

const (
	metadataFile = "metadata.json"
	forcesFile   = "forces.csv"
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
	ID        string             `json:"id"`
	Force     string             `json:"force"`
	Iteration string             `json:"iteration"`
	Neighbor  string             `json:"neighbor"`
	Backend   string             `json:"backend"`
	Workers   int                `json:"workers"`
	NTypes    int                `json:"ntypes"`
	Particles int                `json:"particles"`
	Neighbors int                `json:"neighbors"`
	Steps     int                `json:"steps"`
	Dt        float64            `json:"dt,omitempty"`
	PairCoeff []string           `json:"pair_coeff"`
	Timestamp time.Time          `json:"timestamp"`
	Elapsed   float64            `json:"elapsed_seconds"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes meta and the final per-particle forces of sys under a new run
// directory and returns the run id.
func (s *Store) Save(meta RunMetadata, sys *system.System) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Force, now.UnixNano())
	meta.Timestamp = now

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
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

	csvFile, err := os.Create(filepath.Join(runDir, forcesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"id", "type", "x", "y", "z", "fx", "fy", "fz"}); err != nil {
		return "", err
	}

	for i := 0; i < sys.NLocal; i++ {
		row := []string{strconv.Itoa(i), strconv.Itoa(sys.Type[i])}
		for _, v := range sys.X[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		for _, v := range sys.F[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns stored runs, oldest first.
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
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

// LoadForces reads the stored particle table back into a system.
func (s *Store) LoadForces(runID string) (*system.System, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, forcesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	sys := system.New(0, len(records))
	for n, record := range records {
		if n == 0 {
			continue
		}
		if len(record) != 8 {
			return nil, fmt.Errorf("%s line %d: expected 8 fields, got %d", forcesFile, n+1, len(record))
		}

		typ, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", forcesFile, n+1, err)
		}

		var vals [6]float64
		for k := range vals {
			if vals[k], err = strconv.ParseFloat(record[k+2], 64); err != nil {
				return nil, fmt.Errorf("%s line %d: %w", forcesFile, n+1, err)
			}
		}

		i := sys.AddParticle(system.Vec3{vals[0], vals[1], vals[2]}, typ)
		sys.F[i] = system.Vec3{vals[3], vals[4], vals[5]}
		if typ+1 > sys.NTypes {
			sys.NTypes = typ + 1
		}
	}

	return sys, nil
}
