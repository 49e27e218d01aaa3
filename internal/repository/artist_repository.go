package repository

import (
	"context"
	"fmt"

	"github.com/rpattn/sparkify-etl/internal/domain"
)

type artistRepository struct {
	db        DBTX
	insertSQL string
}

// NewArtistRepository creates an artists repository bound to db.
func NewArtistRepository(db DBTX, stmts Statements) ArtistRepository {
	return &artistRepository{db: db, insertSQL: stmts.ArtistInsert}
}

func (r *artistRepository) Insert(ctx context.Context, artist domain.Artist) error {
	_, err := r.db.Exec(ctx, r.insertSQL,
		artist.ArtistID,
		artist.Name,
		artist.Location,
		artist.Latitude,
		artist.Longitude,
	)
	if err != nil {
		return fmt.Errorf("failed to insert artist %s: %w", artist.ArtistID, err)
	}
	return nil
}
