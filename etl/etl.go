package etl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sparkify/lakehouse/rate_limiter"
	"github.com/sparkify/lakehouse/storage"
	"github.com/sparkify/lakehouse/table"
	"github.com/sparkify/lakehouse/warehouse"
)

// input glob patterns, relative to the configured input location
const (
	SongDataPattern = "song_data/A/A/A/*.json"
	LogDataPattern  = "log-data/*/*/*.json"
)

// output table locations, relative to the configured output location
const (
	SongsLocation     = "songs/songs.parquet"
	ArtistsLocation   = "artists/artists.parquet"
	UsersLocation     = "users/users.parquet"
	TimeLocation      = "time/time.parquet"
	SongplaysLocation = "songplays/songplays.parquet"
)

// ETL transforms the raw song and event datasets into the star schema
// tables. Song data must be processed before log data within a run -
// the songplays join reads the raw song records back from the input
// location, not the written songs table, so the two pipelines only
// share the input store.
type ETL struct {
	engine  table.Engine
	output  storage.ObjectStore
	limiter *rate_limiter.APILimiter
}

func New(engine table.Engine, output storage.ObjectStore, limiter *rate_limiter.APILimiter) *ETL {
	return &ETL{
		engine:  engine,
		output:  output,
		limiter: limiter,
	}
}

// Run executes both pipelines in order
func (e *ETL) Run(ctx context.Context) error {
	if err := e.ProcessSongData(ctx); err != nil {
		return fmt.Errorf("song data pipeline failed: %w", err)
	}
	if err := e.ProcessLogData(ctx); err != nil {
		return fmt.Errorf("log data pipeline failed: %w", err)
	}
	return nil
}

// ProcessSongData builds the songs and artists dimension tables from
// the raw song metadata files
func (e *ETL) ProcessSongData(ctx context.Context) error {
	start := time.Now()
	slog.Info("song data pipeline starting", "pattern", SongDataPattern)

	// both projections share the one lazy source, so the raw files are
	// read exactly once
	songData := e.engine.ReadJSON(SongDataPattern)

	songRows, err := collectAs(ctx, songData.Select("song_id", "title", "artist_id", "year", "duration"), warehouse.SongFromRow)
	if err != nil {
		return fmt.Errorf("failed to build songs table: %w", err)
	}
	songWriter := warehouse.NewWriter[warehouse.SongRow](e.output, e.limiter)
	if err := songWriter.Write(ctx, songRows, &warehouse.WriteRequest{
		Location:    SongsLocation,
		PartitionBy: []string{"year", "artist_id"},
	}); err != nil {
		return fmt.Errorf("failed to write songs table: %w", err)
	}

	// artist rows are deliberately not deduplicated - one row per source
	// song record
	artistRows, err := collectAs(ctx, songData.Select("artist_id", "artist_name", "artist_location", "artist_latitude", "artist_longitude"), warehouse.ArtistFromRow)
	if err != nil {
		return fmt.Errorf("failed to build artists table: %w", err)
	}
	artistWriter := warehouse.NewWriter[warehouse.ArtistRow](e.output, e.limiter)
	if err := artistWriter.Write(ctx, artistRows, &warehouse.WriteRequest{
		Location: ArtistsLocation,
	}); err != nil {
		return fmt.Errorf("failed to write artists table: %w", err)
	}

	slog.Info("song data pipeline complete",
		"songs", len(songRows),
		"artists", len(artistRows),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// ProcessLogData builds the users and time dimension tables and the
// songplays fact table from the raw event log files
func (e *ETL) ProcessLogData(ctx context.Context) error {
	start := time.Now()
	slog.Info("log data pipeline starting", "pattern", LogDataPattern)

	// only song-play events participate in any downstream table
	events := e.engine.ReadJSON(LogDataPattern).
		Where(table.Equals("page", "NextSong"))

	users := events.
		Select("userId", "firstName", "lastName", "gender", "level").
		DropDuplicates()
	userRows, err := collectAs(ctx, users, warehouse.UserFromRow)
	if err != nil {
		return fmt.Errorf("failed to build users table: %w", err)
	}
	userWriter := warehouse.NewWriter[warehouse.UserRow](e.output, e.limiter)
	if err := userWriter.Write(ctx, userRows, &warehouse.WriteRequest{
		Location: UsersLocation,
	}); err != nil {
		return fmt.Errorf("failed to write users table: %w", err)
	}

	withStartTime := events.WithColumn("start_time", startTimeFromTs)

	timeTable := withStartTime.
		WithColumn("hour", timeField(hourOf)).
		WithColumn("day", timeField(dayOf)).
		WithColumn("week", timeField(weekOf)).
		WithColumn("month", timeField(monthOf)).
		WithColumn("year", timeField(yearOf)).
		WithColumn("weekday", timeField(weekdayOf)).
		Select("start_time", "hour", "day", "week", "month", "year", "weekday").
		DropDuplicates()
	timeRows, err := collectAs(ctx, timeTable, warehouse.TimeFromRow)
	if err != nil {
		return fmt.Errorf("failed to build time table: %w", err)
	}
	timeWriter := warehouse.NewWriter[warehouse.TimeRow](e.output, e.limiter)
	if err := timeWriter.Write(ctx, timeRows, &warehouse.WriteRequest{
		Location:    TimeLocation,
		PartitionBy: []string{"year", "month"},
	}); err != nil {
		return fmt.Errorf("failed to write time table: %w", err)
	}

	if err := e.writeSongplays(ctx, withStartTime); err != nil {
		return err
	}

	slog.Info("log data pipeline complete",
		"users", len(userRows),
		"time", len(timeRows),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

// writeSongplays joins events against the raw song records and writes
// the fact table
func (e *ETL) writeSongplays(ctx context.Context, events table.Table) error {
	// the join reads the raw song metadata again rather than the songs
	// table written by the song pipeline: the songs projection drops
	// artist_name, which the join condition needs
	songData := e.engine.ReadJSON(SongDataPattern)

	ids := newSongplayIDs()
	songplays := events.
		JoinLeftOuter(songData, table.On("song", "title").And("artist", "artist_name").And("length", "duration")).
		WithColumn("songplay_id", ids.derive).
		WithColumn("year", timeField(yearOf)).
		WithColumn("month", timeField(monthOf)).
		Select("songplay_id", "ts", "userId", "level", "song_id", "artist_id", "sessionId", "location", "userAgent", "year", "month")

	songplayRows, err := collectAs(ctx, songplays, warehouse.SongplayFromRow)
	if err != nil {
		return fmt.Errorf("failed to build songplays table: %w", err)
	}
	writer := warehouse.NewWriter[warehouse.SongplayRow](e.output, e.limiter)
	if err := writer.Write(ctx, songplayRows, &warehouse.WriteRequest{
		Location:    SongplaysLocation,
		PartitionBy: []string{"year", "month"},
	}); err != nil {
		return fmt.Errorf("failed to write songplays table: %w", err)
	}
	return nil
}

// collectAs evaluates a table plan and converts each row to the typed
// warehouse row
func collectAs[T any](ctx context.Context, t table.Table, convert func(table.Row) (T, error)) ([]T, error) {
	rows, err := t.Collect(ctx)
	if err != nil {
		return nil, err
	}
	return warehouse.ConvertRows(rows, convert)
}
