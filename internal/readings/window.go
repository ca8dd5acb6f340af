package readings

import "time"

// DateWindow bounds a readings query in time. Start is always inclusive; End
// is exclusive unless EndInclusive is set.
type DateWindow struct {
	Start        time.Time
	End          time.Time
	EndInclusive bool
}

// NewDateWindow builds the window for the hierarchical year/month/day filter.
// month only narrows the window when year is present, day only when year and
// month both are. A nil result means no time filter.
//
// The single-day window deliberately ends at 23:59:59 inclusive rather than
// at the next midnight exclusive: a reading stamped exactly 23:59:59 matches,
// one stamped at the following midnight does not.
func NewDateWindow(year, month, day *int) *DateWindow {
	if year == nil {
		return nil
	}
	y := *year

	if month == nil {
		return &DateWindow{
			Start: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(y+1, time.January, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	m := time.Month(*month)

	if day == nil {
		// time.Date normalizes month 13 into January of the next year,
		// which handles the December rollover.
		return &DateWindow{
			Start: time.Date(y, m, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC),
		}
	}
	d := *day

	return &DateWindow{
		Start:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		End:          time.Date(y, m, d, 23, 59, 59, 0, time.UTC),
		EndInclusive: true,
	}
}

// Contains reports whether ts falls inside the window. A nil window contains
// every timestamp.
func (w *DateWindow) Contains(ts time.Time) bool {
	if w == nil {
		return true
	}
	if ts.Before(w.Start) {
		return false
	}
	if w.EndInclusive {
		return !ts.After(w.End)
	}
	return ts.Before(w.End)
}
