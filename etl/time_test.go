package etl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparkify/lakehouse/table"
)

func TestStartTime(t *testing.T) {
	tests := []struct {
		name string
		ts   int64
		want string
	}{
		{
			name: "epoch millis to second resolution",
			ts:   1541121934796,
			want: "2018-11-02 01:25:34",
		},
		{
			name: "sub-second precision discarded, never rounded up",
			ts:   1541121934999,
			want: "2018-11-02 01:25:34",
		},
		{
			name: "exact second boundary",
			ts:   1541121935000,
			want: "2018-11-02 01:25:35",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StartTime(tt.ts))
		})
	}
}

func TestStartTimeRoundTrip(t *testing.T) {
	ts := int64(1541121934796)
	parsed, err := ParseStartTime(StartTime(ts))
	require.NoError(t, err)
	assert.Equal(t, ts/1000, parsed.Unix())
}

func TestTimeFields(t *testing.T) {
	row := table.Row{"ts": json.Number("1541121934796")}

	startTime, err := startTimeFromTs(row)
	require.NoError(t, err)
	assert.Equal(t, "2018-11-02 01:25:34", startTime)

	row["start_time"] = startTime

	tests := []struct {
		field  string
		derive table.DeriveFunc
		want   int
	}{
		{"hour", timeField(hourOf), 1},
		{"day", timeField(dayOf), 2},
		{"week", timeField(weekOf), 44},
		{"month", timeField(monthOf), 11},
		{"year", timeField(yearOf), 2018},
		// 2018-11-02 is a Friday: Sunday=1 .. Saturday=7
		{"weekday", timeField(weekdayOf), 6},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, err := tt.derive(row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeekdaySundayIsOne(t *testing.T) {
	// 2018-11-04 was a Sunday
	row := table.Row{"start_time": "2018-11-04 00:00:00"}
	got, err := timeField(weekdayOf)(row)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestWeekIsISOWeek(t *testing.T) {
	// 2018-12-31 falls in ISO week 1 of 2019
	row := table.Row{"start_time": "2018-12-31 10:00:00"}

	week, err := timeField(weekOf)(row)
	require.NoError(t, err)
	assert.Equal(t, 1, week)

	// while the year column stays calendar-based
	year, err := timeField(yearOf)(row)
	require.NoError(t, err)
	assert.Equal(t, 2018, year)
}

func TestStartTimeFromTsMissingColumn(t *testing.T) {
	_, err := startTimeFromTs(table.Row{"page": "NextSong"})
	require.Error(t, err)

	var columnErr *table.ColumnError
	assert.ErrorAs(t, err, &columnErr)
}
