package readings

import (
	"errors"
	"testing"
)

func TestParseFileStrictFourFields(t *testing.T) {
	content := []byte("1.0,2.0,50,2023-05-10T12:00:00Z\n3.0,4.0,75,2023-05-10T13:00:00Z\n")

	rows, err := ParseFile(content)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Longitude != 1.0 || rows[0].AQI != 50 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Timestamp != "2023-05-10T13:00:00Z" {
		t.Fatalf("timestamp must be kept as the raw string, got %q", rows[1].Timestamp)
	}
}

func TestParseFileAbortsOnShortLine(t *testing.T) {
	content := []byte("1.0,2.0,50,2023-05-10T12:00:00Z\n3.0,4.0,75\n")

	rows, err := ParseFile(content)
	if !errors.Is(err, ErrMalformedFile) {
		t.Fatalf("expected ErrMalformedFile, got %v", err)
	}
	if rows != nil {
		t.Fatalf("no partial result allowed, got %d rows", len(rows))
	}
}

func TestParseFileAbortsOnNonNumericField(t *testing.T) {
	content := []byte("1.0,north,50,2023-05-10T12:00:00Z\n")

	if _, err := ParseFile(content); !errors.Is(err, ErrMalformedFile) {
		t.Fatalf("expected ErrMalformedFile, got %v", err)
	}
}

func TestParseFileEmptyContent(t *testing.T) {
	rows, err := ParseFile(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestParseFileInteriorBlankLineIsMalformed(t *testing.T) {
	content := []byte("1.0,2.0,50,2023-05-10T12:00:00Z\n\n3.0,4.0,75,2023-05-10T13:00:00Z\n")

	if _, err := ParseFile(content); !errors.Is(err, ErrMalformedFile) {
		t.Fatalf("expected ErrMalformedFile for interior blank line, got %v", err)
	}
}
