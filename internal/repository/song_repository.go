package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpattn/sparkify-etl/internal/domain"

	"github.com/jackc/pgx/v5"
)

type songRepository struct {
	db        DBTX
	insertSQL string
	selectSQL string
}

// NewSongRepository creates a songs repository bound to db.
func NewSongRepository(db DBTX, stmts Statements) SongRepository {
	return &songRepository{db: db, insertSQL: stmts.SongInsert, selectSQL: stmts.SongSelect}
}

func (r *songRepository) Insert(ctx context.Context, song domain.Song) error {
	_, err := r.db.Exec(ctx, r.insertSQL,
		song.SongID,
		song.Title,
		song.ArtistID,
		song.Year,
		song.Duration,
	)
	if err != nil {
		return fmt.Errorf("failed to insert song %s: %w", song.SongID, err)
	}
	return nil
}

func (r *songRepository) FindSongArtist(ctx context.Context, title, artistName *string, duration *float64) (domain.SongArtistMatch, bool, error) {
	rows, err := r.db.Query(ctx, r.selectSQL, title, artistName, duration)
	if err != nil {
		return domain.SongArtistMatch{}, false, fmt.Errorf("failed to look up song: %w", err)
	}

	match, err := pgx.CollectExactlyOneRow(rows, scanSongArtistMatch)
	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, pgx.ErrTooManyRows):
		return domain.SongArtistMatch{}, false, nil
	case err != nil:
		return domain.SongArtistMatch{}, false, fmt.Errorf("failed to scan song lookup: %w", err)
	}
	return match, true, nil
}

func scanSongArtistMatch(row pgx.CollectableRow) (domain.SongArtistMatch, error) {
	var m domain.SongArtistMatch
	err := row.Scan(&m.SongID, &m.ArtistID)
	return m, err
}
