package ingestion

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/rpattn/sparkify-etl/internal/repository"

	"go.uber.org/zap/zapcore"
)

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Extractor transforms one input file into warehouse rows written through repos.
type Extractor func(ctx context.Context, repos repository.Repositories, path string) (Counts, error)

// Counts tallies rows inserted per warehouse table.
type Counts struct {
	Songs     int
	Artists   int
	Times     int
	Users     int
	Songplays int
}

// Add accumulates other into c.
func (c *Counts) Add(other Counts) {
	c.Songs += other.Songs
	c.Artists += other.Artists
	c.Times += other.Times
	c.Users += other.Users
	c.Songplays += other.Songplays
}

// MarshalLogObject implements zapcore.ObjectMarshaler
func (c Counts) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("songs", c.Songs)
	enc.AddInt("artists", c.Artists)
	enc.AddInt("time", c.Times)
	enc.AddInt("users", c.Users)
	enc.AddInt("songplays", c.Songplays)
	return nil
}

// newBOMSkippingReader drops a leading UTF-8 byte order mark.
func newBOMSkippingReader(r io.Reader) *bufio.Reader {
	reader := bufio.NewReader(r)
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}
	return reader
}
