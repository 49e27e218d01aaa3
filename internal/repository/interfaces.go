package repository

import (
	"context"

	"github.com/rpattn/sparkify-etl/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx.Tx the repositories need.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SongRepository defines the interface for songs operations
type SongRepository interface {
	Insert(ctx context.Context, song domain.Song) error
	// FindSongArtist resolves a play to a loaded song and artist. It reports
	// false when there is no single exact match.
	FindSongArtist(ctx context.Context, title, artistName *string, duration *float64) (domain.SongArtistMatch, bool, error)
}

// ArtistRepository defines the interface for artists operations
type ArtistRepository interface {
	Insert(ctx context.Context, artist domain.Artist) error
}

// TimeRepository defines the interface for time dimension operations
type TimeRepository interface {
	Insert(ctx context.Context, row domain.TimeRow) error
}

// UserRepository defines the interface for users operations
type UserRepository interface {
	Insert(ctx context.Context, user domain.User) error
}

// SongplayRepository defines the interface for songplays operations
type SongplayRepository interface {
	Insert(ctx context.Context, play domain.Songplay) error
}

// Repositories groups the warehouse tables written within one transaction.
type Repositories struct {
	Songs     SongRepository
	Artists   ArtistRepository
	Times     TimeRepository
	Users     UserRepository
	Songplays SongplayRepository
}

// New binds every warehouse repository to db.
func New(db DBTX, stmts Statements) Repositories {
	return Repositories{
		Songs:     NewSongRepository(db, stmts),
		Artists:   NewArtistRepository(db, stmts),
		Times:     NewTimeRepository(db, stmts),
		Users:     NewUserRepository(db, stmts),
		Songplays: NewSongplayRepository(db, stmts),
	}
}
