package etl

import (
	"time"

	"github.com/sparkify/lakehouse/table"
)

// StartTimeLayout is the format of the derived start_time column:
// second resolution, sub-second precision discarded
const StartTimeLayout = "2006-01-02 15:04:05"

// StartTime converts epoch milliseconds to the formatted start time.
// Timezone policy: fixed UTC - the conversion never depends on the
// execution environment's local clock.
func StartTime(ts int64) string {
	return time.UnixMilli(ts).UTC().Format(StartTimeLayout)
}

// ParseStartTime parses a formatted start time back to a UTC instant
func ParseStartTime(startTime string) (time.Time, error) {
	return time.Parse(StartTimeLayout, startTime)
}

// startTimeFromTs derives the start_time column from the raw ts column
func startTimeFromTs(r table.Row) (any, error) {
	ts, err := r.Int64("ts")
	if err != nil {
		return nil, err
	}
	return StartTime(ts), nil
}

// timeField derives a calendar field from the formatted start_time column
func timeField(field func(time.Time) int) table.DeriveFunc {
	return func(r table.Row) (any, error) {
		startTime, err := r.String("start_time")
		if err != nil {
			return nil, err
		}
		t, err := ParseStartTime(startTime)
		if err != nil {
			return nil, err
		}
		return field(t), nil
	}
}

func hourOf(t time.Time) int  { return t.Hour() }
func dayOf(t time.Time) int   { return t.Day() }
func monthOf(t time.Time) int { return int(t.Month()) }
func yearOf(t time.Time) int  { return t.Year() }

// weekOf is the ISO week-of-year
func weekOf(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// weekdayOf numbers days Sunday=1 .. Saturday=7
func weekdayOf(t time.Time) int {
	return int(t.Weekday()) + 1
}
