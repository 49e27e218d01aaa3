package ingestion

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rpattn/sparkify-etl/internal/domain"
	"github.com/rpattn/sparkify-etl/internal/repository"

	"github.com/stretchr/testify/require"
)

// memWarehouse keeps warehouse rows in memory. Its song lookup joins the
// loaded songs and artists the same way the SQL lookup does.
type memWarehouse struct {
	songs     []domain.Song
	artists   []domain.Artist
	times     []domain.TimeRow
	users     []domain.User
	songplays []domain.Songplay
	lookups   int
	failOn    string
}

func (w *memWarehouse) clone() *memWarehouse {
	return &memWarehouse{
		songs:     append([]domain.Song(nil), w.songs...),
		artists:   append([]domain.Artist(nil), w.artists...),
		times:     append([]domain.TimeRow(nil), w.times...),
		users:     append([]domain.User(nil), w.users...),
		songplays: append([]domain.Songplay(nil), w.songplays...),
		lookups:   w.lookups,
		failOn:    w.failOn,
	}
}

func (w *memWarehouse) repos() repository.Repositories {
	return repository.Repositories{
		Songs:     memSongs{w},
		Artists:   memArtists{w},
		Times:     memTimes{w},
		Users:     memUsers{w},
		Songplays: memSongplays{w},
	}
}

var errInsertFailed = errors.New("insert failed")

type memSongs struct{ w *memWarehouse }

func (m memSongs) Insert(ctx context.Context, song domain.Song) error {
	if m.w.failOn == "songs" {
		return errInsertFailed
	}
	m.w.songs = append(m.w.songs, song)
	return nil
}

func (m memSongs) FindSongArtist(ctx context.Context, title, artistName *string, duration *float64) (domain.SongArtistMatch, bool, error) {
	m.w.lookups++
	if title == nil || artistName == nil || duration == nil {
		return domain.SongArtistMatch{}, false, nil
	}

	var matches []domain.SongArtistMatch
	for _, s := range m.w.songs {
		for _, a := range m.w.artists {
			if a.ArtistID == s.ArtistID && s.Title == *title && a.Name == *artistName && s.Duration == *duration {
				matches = append(matches, domain.SongArtistMatch{SongID: s.SongID, ArtistID: a.ArtistID})
			}
		}
	}
	if len(matches) != 1 {
		return domain.SongArtistMatch{}, false, nil
	}
	return matches[0], true, nil
}

type memArtists struct{ w *memWarehouse }

func (m memArtists) Insert(ctx context.Context, artist domain.Artist) error {
	if m.w.failOn == "artists" {
		return errInsertFailed
	}
	m.w.artists = append(m.w.artists, artist)
	return nil
}

type memTimes struct{ w *memWarehouse }

func (m memTimes) Insert(ctx context.Context, row domain.TimeRow) error {
	m.w.times = append(m.w.times, row)
	return nil
}

type memUsers struct{ w *memWarehouse }

func (m memUsers) Insert(ctx context.Context, user domain.User) error {
	m.w.users = append(m.w.users, user)
	return nil
}

type memSongplays struct{ w *memWarehouse }

func (m memSongplays) Insert(ctx context.Context, play domain.Songplay) error {
	if m.w.failOn == "songplays" {
		return errInsertFailed
	}
	m.w.songplays = append(m.w.songplays, play)
	return nil
}

// memScope stages each unit of work on a copy and publishes it on commit.
type memScope struct {
	committed *memWarehouse
	commits   int
	rollbacks int
}

func newMemScope() *memScope {
	return &memScope{committed: &memWarehouse{}}
}

func (s *memScope) Within(ctx context.Context, fn func(repository.Repositories) error) error {
	pending := s.committed.clone()
	if err := fn(pending.repos()); err != nil {
		s.rollbacks++
		return err
	}
	s.committed = pending
	s.commits++
	return nil
}

func writeFixture(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func strPtr(s string) *string { return &s }
