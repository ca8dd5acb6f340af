package readings

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ParseBatch turns an uploaded CSV payload into Readings. Rows without
// exactly three fields, or whose fields fail to parse as numbers, are skipped
// silently; a bad row never aborts the batch.
//
// IDs are composed from the ingestion timestamp, the coordinates and the
// row's ordinal position within the payload, so they stay unique within a
// batch even though all rows share one timestamp.
func ParseBatch(data []byte, now time.Time) []Reading {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var out []Reading
	for idx := 0; ; idx++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(row) != 3 {
			continue
		}

		lon, errLon := parseField(row[0])
		lat, errLat := parseField(row[1])
		aqi, errAQI := parseField(row[2])
		if errLon != nil || errLat != nil || errAQI != nil {
			continue
		}

		out = append(out, Reading{
			ID:        fmt.Sprintf("%.6f_%v_%v_%d", float64(now.UnixMicro())/1e6, lon, lat, idx),
			Longitude: lon,
			Latitude:  lat,
			AQI:       aqi,
			Timestamp: now,
			RawData:   strings.Join(row, ","),
		})
	}

	return out
}

func parseField(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
