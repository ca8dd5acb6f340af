package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/i474232898/dronitor/internal/readings"
	"github.com/i474232898/dronitor/internal/store"
)

func TestExportDayWritesParseableFile(t *testing.T) {
	memStore := store.NewMemoryStore()
	day := time.Date(2023, time.May, 10, 0, 0, 0, 0, time.UTC)

	err := memStore.CreateMany(context.Background(), []readings.Reading{
		{ID: "a", Longitude: 1.0, Latitude: 2.0, AQI: 50, Timestamp: day.Add(10 * time.Hour)},
		{ID: "b", Longitude: 3.0, Latitude: 4.0, AQI: 75, Timestamp: day.Add(12 * time.Hour)},
		{ID: "other-day", Longitude: 9.0, Latitude: 9.0, AQI: 99, Timestamp: day.AddDate(0, 0, 1)},
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	dir := t.TempDir()
	e := New(memStore, dir, time.Hour)

	if err := e.ExportDay(context.Background(), day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "2023-05-10.csv"))
	if err != nil {
		t.Fatalf("export file not written: %v", err)
	}

	rows, err := readings.ParseFile(content)
	if err != nil {
		t.Fatalf("exported file must round-trip through the file parser: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for the day, got %d", len(rows))
	}

	// Oldest first in the file.
	if rows[0].Longitude != 1.0 || rows[1].Longitude != 3.0 {
		t.Fatalf("unexpected row order: %+v", rows)
	}
	if rows[0].Timestamp != "2023-05-10T10:00:00Z" {
		t.Fatalf("unexpected timestamp: %q", rows[0].Timestamp)
	}
}

func TestExportDaySkipsEmptyDays(t *testing.T) {
	dir := t.TempDir()
	e := New(store.NewMemoryStore(), dir, time.Hour)

	day := time.Date(2023, time.May, 10, 0, 0, 0, 0, time.UTC)
	if err := e.ExportDay(context.Background(), day); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "2023-05-10.csv")); !os.IsNotExist(err) {
		t.Fatal("no file should be written for a day without readings")
	}
}
