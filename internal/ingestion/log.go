package ingestion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rpattn/sparkify-etl/internal/domain"
	"github.com/rpattn/sparkify-etl/internal/repository"
)

const maxLogLineBytes = 16 * 1024 * 1024

// ParseLogEvents decodes a newline-delimited event log. Blank lines are skipped.
func ParseLogEvents(r io.Reader) ([]domain.LogEvent, error) {
	scanner := bufio.NewScanner(newBOMSkippingReader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLogLineBytes)

	var events []domain.LogEvent
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var ev domain.LogEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, fmt.Errorf("failed to decode event on line %d: %w", lineNumber, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}

	return events, nil
}

// TimeRowsFromEvents derives one time row per song play, in file order.
// Plays without a usable timestamp are dropped; equal timestamps are kept.
func TimeRowsFromEvents(events []domain.LogEvent) []domain.TimeRow {
	var rows []domain.TimeRow
	for _, ev := range events {
		if !ev.IsSongPlay() {
			continue
		}
		start, ok := ev.StartTime()
		if !ok {
			continue
		}
		rows = append(rows, domain.NewTimeRow(start))
	}
	return rows
}

// UsersFromEvents selects the user columns of every event, in file order.
func UsersFromEvents(events []domain.LogEvent) []domain.User {
	users := make([]domain.User, 0, len(events))
	for _, ev := range events {
		users = append(users, domain.User{
			UserID:    ev.UserID.Ptr(),
			FirstName: ev.FirstName,
			LastName:  ev.LastName,
			Gender:    ev.Gender,
			Level:     ev.Level,
		})
	}
	return users
}

// SongplayFromEvent builds the fact row of ev. Song and artist stay NULL
// unless ok is set.
func SongplayFromEvent(ev domain.LogEvent, match domain.SongArtistMatch, ok bool) domain.Songplay {
	play := domain.Songplay{
		UserID:    ev.UserID.Ptr(),
		Level:     ev.Level,
		SessionID: ev.SessionID.Ptr(),
		Location:  ev.Location,
		UserAgent: ev.UserAgent,
	}
	if start, valid := ev.StartTime(); valid {
		play.StartTime = &start
	}
	if ok {
		songID, artistID := match.SongID, match.ArtistID
		play.SongID = &songID
		play.ArtistID = &artistID
	}
	return play
}

// ProcessLogFile loads one event log: time rows for song plays, then a user
// row and a songplay row for every event.
func ProcessLogFile(ctx context.Context, repos repository.Repositories, path string) (Counts, error) {
	var counts Counts

	f, err := os.Open(path)
	if err != nil {
		return counts, fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	events, err := ParseLogEvents(f)
	if err != nil {
		return counts, err
	}

	for _, row := range TimeRowsFromEvents(events) {
		if err := repos.Times.Insert(ctx, row); err != nil {
			return counts, err
		}
		counts.Times++
	}

	for _, user := range UsersFromEvents(events) {
		if err := repos.Users.Insert(ctx, user); err != nil {
			return counts, err
		}
		counts.Users++
	}

	for _, ev := range events {
		match, ok, err := repos.Songs.FindSongArtist(ctx, ev.Song, ev.Artist, ev.Length)
		if err != nil {
			return counts, err
		}
		if err := repos.Songplays.Insert(ctx, SongplayFromEvent(ev, match, ok)); err != nil {
			return counts, err
		}
		counts.Songplays++
	}

	return counts, nil
}
