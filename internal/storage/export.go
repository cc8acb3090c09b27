package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	RunMetadata
	Types     []int        `json:"types"`
	Positions [][3]float64 `json:"positions"`
	Forces    [][3]float64 `json:"forces"`
}

// ExportJSON writes a run's metadata and particle table as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	sys, err := s.LoadForces(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		Types:       sys.Type,
		Positions:   make([][3]float64, sys.NLocal),
		Forces:      make([][3]float64, sys.NLocal),
	}
	for i := 0; i < sys.NLocal; i++ {
		data.Positions[i] = sys.X[i]
		data.Forces[i] = sys.F[i]
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
