package readings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Service wires the request pipeline: CSV ingestion, date-filtered queries,
// and the direct flat-file read path.
type Service struct {
	store   Store
	dataDir string
}

// NewService creates a new Service.
func NewService(store Store, dataDir string) *Service {
	return &Service{
		store:   store,
		dataDir: dataDir,
	}
}

// Ingest parses the uploaded CSV payload and bulk-writes the surviving rows
// through the store in a single batch. It returns the number of readings
// stored; skipped rows are not reported.
func (s *Service) Ingest(ctx context.Context, payload []byte) (int, error) {
	rs := ParseBatch(payload, time.Now().UTC())
	if err := s.store.CreateMany(ctx, rs); err != nil {
		return 0, fmt.Errorf("store readings: %w", err)
	}
	return len(rs), nil
}

// Query returns readings inside the window, newest first. A nil window
// returns everything.
func (s *Service) Query(ctx context.Context, window *DateWindow) ([]Reading, error) {
	return s.store.Query(ctx, window)
}

// ReadFile serves the alternate read path: the flat file for one date,
// bypassing the store entirely.
func (s *Service) ReadFile(date string) ([]FileReading, error) {
	if strings.ContainsAny(date, `/\`) || strings.Contains(date, "..") {
		return nil, ErrFileNotFound
	}

	content, err := os.ReadFile(filepath.Join(s.dataDir, date+".csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("read data file: %w", err)
	}

	return ParseFile(content)
}
