package warehouse

import (
	"github.com/sparkify/lakehouse/table"
)

// The five star-schema row types. Column names match the source projections:
// the raw datasets' own field names for dimensions, snake_case aliases for
// the fact table. Pointer fields are nullable in the parquet output.

// SongRow is one row of the songs dimension, a straight projection of a raw
// song record - no filtering, no deduplication
type SongRow struct {
	SongID   string  `json:"song_id" parquet:"song_id"`
	ArtistID string  `json:"artist_id" parquet:"artist_id"`
	Title    string  `json:"title" parquet:"title"`
	Year     int32   `json:"year" parquet:"year"`
	Duration float64 `json:"duration" parquet:"duration"`
}

func (SongRow) TableName() string { return "songs" }

// ArtistRow is one row of the artists dimension. The dimension is not
// deduplicated: an artist with ten songs in the source yields ten rows.
type ArtistRow struct {
	ArtistID  string   `json:"artist_id" parquet:"artist_id"`
	Name      string   `json:"artist_name" parquet:"artist_name"`
	Location  *string  `json:"artist_location" parquet:"artist_location,optional"`
	Latitude  *float64 `json:"artist_latitude" parquet:"artist_latitude,optional"`
	Longitude *float64 `json:"artist_longitude" parquet:"artist_longitude,optional"`
}

func (ArtistRow) TableName() string { return "artists" }

// UserRow is one row of the users dimension, deduplicated on the full row -
// a user whose level changed between events keeps one row per level
type UserRow struct {
	UserID    string `json:"userId" parquet:"userId"`
	FirstName string `json:"firstName" parquet:"firstName"`
	LastName  string `json:"lastName" parquet:"lastName"`
	Gender    string `json:"gender" parquet:"gender"`
	Level     string `json:"level" parquet:"level"`
}

func (UserRow) TableName() string { return "users" }

// TimeRow is one row of the time dimension: the formatted second-resolution
// start time and its calendar decomposition, deduplicated on the full row
type TimeRow struct {
	StartTime string `json:"start_time" parquet:"start_time"`
	Hour      int32  `json:"hour" parquet:"hour"`
	Day       int32  `json:"day" parquet:"day"`
	Week      int32  `json:"week" parquet:"week"`
	Month     int32  `json:"month" parquet:"month"`
	Year      int32  `json:"year" parquet:"year"`
	Weekday   int32  `json:"weekday" parquet:"weekday"`
}

func (TimeRow) TableName() string { return "time" }

// SongplayRow is one row of the songplays fact table - exactly one row per
// filtered NextSong event. SongID and ArtistID are null when no song record
// matched the event.
type SongplayRow struct {
	SongplayID int64   `json:"songplay_id" parquet:"songplay_id"`
	Ts         int64   `json:"ts" parquet:"ts"`
	UserID     string  `json:"user_id" parquet:"user_id"`
	Level      string  `json:"level" parquet:"level"`
	SongID     *string `json:"song_id" parquet:"song_id,optional"`
	ArtistID   *string `json:"artist_id" parquet:"artist_id,optional"`
	SessionID  int64   `json:"session_id" parquet:"session_id"`
	Location   string  `json:"location" parquet:"location"`
	UserAgent  string  `json:"user_agent" parquet:"user_agent"`
	Year       int32   `json:"year" parquet:"year"`
	Month      int32   `json:"month" parquet:"month"`
}

func (SongplayRow) TableName() string { return "songplays" }

// SongFromRow converts a projected song record; a missing field is a schema
// error which fails the run
func SongFromRow(r table.Row) (SongRow, error) {
	var row SongRow
	var err error
	if row.SongID, err = r.String("song_id"); err != nil {
		return row, err
	}
	if row.ArtistID, err = r.String("artist_id"); err != nil {
		return row, err
	}
	if row.Title, err = r.String("title"); err != nil {
		return row, err
	}
	year, err := r.Int("year")
	if err != nil {
		return row, err
	}
	row.Year = int32(year)
	if row.Duration, err = r.Float("duration"); err != nil {
		return row, err
	}
	return row, nil
}

func ArtistFromRow(r table.Row) (ArtistRow, error) {
	var row ArtistRow
	var err error
	if row.ArtistID, err = r.String("artist_id"); err != nil {
		return row, err
	}
	if row.Name, err = r.String("artist_name"); err != nil {
		return row, err
	}
	if row.Location, err = r.StringOrNull("artist_location"); err != nil {
		return row, err
	}
	if row.Latitude, err = r.FloatOrNull("artist_latitude"); err != nil {
		return row, err
	}
	if row.Longitude, err = r.FloatOrNull("artist_longitude"); err != nil {
		return row, err
	}
	return row, nil
}

func UserFromRow(r table.Row) (UserRow, error) {
	var row UserRow
	var err error
	if row.UserID, err = r.String("userId"); err != nil {
		return row, err
	}
	if row.FirstName, err = r.String("firstName"); err != nil {
		return row, err
	}
	if row.LastName, err = r.String("lastName"); err != nil {
		return row, err
	}
	if row.Gender, err = r.String("gender"); err != nil {
		return row, err
	}
	if row.Level, err = r.String("level"); err != nil {
		return row, err
	}
	return row, nil
}

func TimeFromRow(r table.Row) (TimeRow, error) {
	var row TimeRow
	var err error
	if row.StartTime, err = r.String("start_time"); err != nil {
		return row, err
	}
	fields := []struct {
		column string
		target *int32
	}{
		{"hour", &row.Hour},
		{"day", &row.Day},
		{"week", &row.Week},
		{"month", &row.Month},
		{"year", &row.Year},
		{"weekday", &row.Weekday},
	}
	for _, f := range fields {
		v, err := r.Int(f.column)
		if err != nil {
			return row, err
		}
		*f.target = int32(v)
	}
	return row, nil
}

func SongplayFromRow(r table.Row) (SongplayRow, error) {
	var row SongplayRow
	var err error
	if row.SongplayID, err = r.Int64("songplay_id"); err != nil {
		return row, err
	}
	if row.Ts, err = r.Int64("ts"); err != nil {
		return row, err
	}
	if row.UserID, err = r.String("userId"); err != nil {
		return row, err
	}
	if row.Level, err = r.String("level"); err != nil {
		return row, err
	}
	if row.SongID, err = r.StringOrNull("song_id"); err != nil {
		return row, err
	}
	if row.ArtistID, err = r.StringOrNull("artist_id"); err != nil {
		return row, err
	}
	if row.SessionID, err = r.Int64("sessionId"); err != nil {
		return row, err
	}
	if row.Location, err = r.String("location"); err != nil {
		return row, err
	}
	if row.UserAgent, err = r.String("userAgent"); err != nil {
		return row, err
	}
	year, err := r.Int("year")
	if err != nil {
		return row, err
	}
	row.Year = int32(year)
	month, err := r.Int("month")
	if err != nil {
		return row, err
	}
	row.Month = int32(month)
	return row, nil
}

// ConvertRows applies a row converter across a collected result set
func ConvertRows[T any](rows []table.Row, convert func(table.Row) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		converted, err := convert(r)
		if err != nil {
			return nil, err
		}
		out = append(out, converted)
	}
	return out, nil
}
