package export

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/dronitor/internal/readings"
)

// Exporter periodically materializes the current day's readings as a flat
// CSV file in the data directory, in the exact format the /files/{date}
// endpoint parses.
type Exporter struct {
	scheduler *gocron.Scheduler
	store     readings.Store
	dataDir   string
	interval  time.Duration
}

// New creates a new Exporter. An interval of 0 disables it.
func New(store readings.Store, dataDir string, interval time.Duration) *Exporter {
	return &Exporter{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		dataDir:   dataDir,
		interval:  interval,
	}
}

// Start schedules the periodic export job and starts the underlying scheduler.
func (e *Exporter) Start() error {
	if e.interval <= 0 {
		log.Println("exporter: disabled; no interval configured")
		return nil
	}

	minutes := int(e.interval.Minutes())
	if minutes <= 0 {
		minutes = 1
	}

	_, err := e.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := e.ExportDay(ctx, time.Now().UTC()); err != nil {
			log.Printf("exporter: export failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	e.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (e *Exporter) Stop() {
	if e.scheduler != nil {
		e.scheduler.Stop()
	}
}

// ExportDay writes <dataDir>/<YYYY-MM-DD>.csv with every stored reading from
// that UTC day: four comma-separated fields per line, oldest first, no
// header. Nothing is written when the day has no readings.
func (e *Exporter) ExportDay(ctx context.Context, day time.Time) error {
	y, m, d := day.UTC().Date()
	year, month, dayNum := y, int(m), d

	rs, err := e.store.Query(ctx, readings.NewDateWindow(&year, &month, &dayNum))
	if err != nil {
		return fmt.Errorf("query day readings: %w", err)
	}
	if len(rs) == 0 {
		return nil
	}

	// The store returns newest first; the file is written oldest first.
	var buf bytes.Buffer
	for i := len(rs) - 1; i >= 0; i-- {
		r := rs[i]
		fmt.Fprintf(&buf, "%v,%v,%v,%s\n",
			r.Longitude, r.Latitude, r.AQI, r.Timestamp.UTC().Format(time.RFC3339))
	}

	path := filepath.Join(e.dataDir, day.UTC().Format("2006-01-02")+".csv")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
