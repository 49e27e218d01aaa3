package repository

import (
	"context"
	"fmt"

	"github.com/rpattn/sparkify-etl/internal/domain"
)

type timeRepository struct {
	db        DBTX
	insertSQL string
}

// NewTimeRepository creates a time dimension repository bound to db.
func NewTimeRepository(db DBTX, stmts Statements) TimeRepository {
	return &timeRepository{db: db, insertSQL: stmts.TimeInsert}
}

func (r *timeRepository) Insert(ctx context.Context, row domain.TimeRow) error {
	_, err := r.db.Exec(ctx, r.insertSQL,
		row.StartTime,
		row.Hour,
		row.Day,
		row.Week,
		row.Month,
		row.Year,
		row.Weekday,
	)
	if err != nil {
		return fmt.Errorf("failed to insert time row %s: %w", row.StartTime, err)
	}
	return nil
}

type userRepository struct {
	db        DBTX
	insertSQL string
}

// NewUserRepository creates a users repository bound to db.
func NewUserRepository(db DBTX, stmts Statements) UserRepository {
	return &userRepository{db: db, insertSQL: stmts.UserInsert}
}

func (r *userRepository) Insert(ctx context.Context, user domain.User) error {
	_, err := r.db.Exec(ctx, r.insertSQL,
		user.UserID,
		user.FirstName,
		user.LastName,
		user.Gender,
		user.Level,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

type songplayRepository struct {
	db        DBTX
	insertSQL string
}

// NewSongplayRepository creates a songplays repository bound to db.
func NewSongplayRepository(db DBTX, stmts Statements) SongplayRepository {
	return &songplayRepository{db: db, insertSQL: stmts.SongplayInsert}
}

func (r *songplayRepository) Insert(ctx context.Context, play domain.Songplay) error {
	_, err := r.db.Exec(ctx, r.insertSQL,
		play.StartTime,
		play.UserID,
		play.Level,
		play.SongID,
		play.ArtistID,
		play.SessionID,
		play.Location,
		play.UserAgent,
	)
	if err != nil {
		return fmt.Errorf("failed to insert songplay: %w", err)
	}
	return nil
}
