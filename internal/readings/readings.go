package readings

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrFileNotFound is returned when no flat file exists for a requested date.
	ErrFileNotFound = errors.New("no data file for date")

	// ErrMalformedFile is returned when any line of a flat file fails to parse.
	ErrMalformedFile = errors.New("malformed data file")
)

// Reading is one persisted air-quality sample. Readings are immutable once
// stored; there is no update or delete path.
type Reading struct {
	ID        string
	Longitude float64
	Latitude  float64
	AQI       float64
	Timestamp time.Time // always UTC
	RawData   string
}

// Store is the contract the Postgres gateway (and the in-memory store used in
// tests) must satisfy. Query returns matches ordered by timestamp descending;
// a nil window means no time filter.
type Store interface {
	CreateMany(ctx context.Context, rs []Reading) error
	Query(ctx context.Context, window *DateWindow) ([]Reading, error)
}
