package readings

import (
	"fmt"
	"strings"
)

// FileReading is one row of a per-date flat file. The timestamp is served
// back exactly as it appears in the file, not re-parsed.
type FileReading struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
	AQI       float64 `json:"aqi"`
	Timestamp string  `json:"timestamp"`
}

// ParseFile parses a per-date flat file: four comma-separated fields per
// line, numeric first three, no header. Unlike upload ingestion this path is
// strict: any malformed line fails the whole read with ErrMalformedFile and
// no partial result is returned.
func ParseFile(content []byte) ([]FileReading, error) {
	text := strings.TrimRight(string(content), "\n")
	if text == "" {
		return []FileReading{}, nil
	}

	lines := strings.Split(text, "\n")
	out := make([]FileReading, 0, len(lines))
	for i, line := range lines {
		fields := strings.Split(strings.TrimSpace(line), ",")
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: line %d has %d fields, want 4", ErrMalformedFile, i+1, len(fields))
		}

		lon, errLon := parseField(fields[0])
		lat, errLat := parseField(fields[1])
		aqi, errAQI := parseField(fields[2])
		if errLon != nil || errLat != nil || errAQI != nil {
			return nil, fmt.Errorf("%w: line %d has a non-numeric field", ErrMalformedFile, i+1)
		}

		out = append(out, FileReading{
			Longitude: lon,
			Latitude:  lat,
			AQI:       aqi,
			Timestamp: fields[3],
		})
	}

	return out, nil
}
