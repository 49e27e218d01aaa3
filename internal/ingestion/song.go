package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rpattn/sparkify-etl/internal/domain"
	"github.com/rpattn/sparkify-etl/internal/repository"
)

// ErrEmptySongFile is returned when a song file holds no record.
var ErrEmptySongFile = errors.New("song file contains no record")

// ParseSongFile decodes the first record of a song file. Any further records
// are ignored.
func ParseSongFile(r io.Reader) (domain.Song, domain.Artist, error) {
	dec := json.NewDecoder(newBOMSkippingReader(r))

	var rec domain.SongRecord
	if err := dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Song{}, domain.Artist{}, ErrEmptySongFile
		}
		return domain.Song{}, domain.Artist{}, fmt.Errorf("failed to decode song record: %w", err)
	}

	return rec.Song(), rec.Artist(), nil
}

// ProcessSongFile loads one song file: a songs row followed by an artists row.
func ProcessSongFile(ctx context.Context, repos repository.Repositories, path string) (Counts, error) {
	var counts Counts

	f, err := os.Open(path)
	if err != nil {
		return counts, fmt.Errorf("failed to open song file: %w", err)
	}
	defer f.Close()

	song, artist, err := ParseSongFile(f)
	if err != nil {
		return counts, err
	}

	if err := repos.Songs.Insert(ctx, song); err != nil {
		return counts, err
	}
	counts.Songs++

	if err := repos.Artists.Insert(ctx, artist); err != nil {
		return counts, err
	}
	counts.Artists++

	return counts, nil
}
