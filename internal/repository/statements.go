package repository

// Statements holds the parameterized SQL run against the warehouse. The
// positional parameters of each insert follow the column order of its table.
type Statements struct {
	SongInsert     string `mapstructure:"song_insert"`
	ArtistInsert   string `mapstructure:"artist_insert"`
	TimeInsert     string `mapstructure:"time_insert"`
	UserInsert     string `mapstructure:"user_insert"`
	SongplayInsert string `mapstructure:"songplay_insert"`
	SongSelect     string `mapstructure:"song_select"`
}

// DefaultStatements returns the statements for the sparkify star schema.
func DefaultStatements() Statements {
	return Statements{
		SongInsert: `INSERT INTO songs (song_id, title, artist_id, year, duration)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (song_id) DO NOTHING`,
		ArtistInsert: `INSERT INTO artists (artist_id, name, location, latitude, longitude)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (artist_id) DO NOTHING`,
		TimeInsert: `INSERT INTO time (start_time, hour, day, week, month, year, weekday)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (start_time) DO NOTHING`,
		UserInsert: `INSERT INTO users (user_id, first_name, last_name, gender, level)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET level = EXCLUDED.level`,
		SongplayInsert: `INSERT INTO songplays (start_time, user_id, level, song_id, artist_id, session_id, location, user_agent)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		SongSelect: `SELECT s.song_id, a.artist_id
		 FROM songs s
		 INNER JOIN artists a ON a.artist_id = s.artist_id
		 WHERE s.title = $1 AND a.name = $2 AND s.duration = $3`,
	}
}

// WithDefaults fills empty statements from DefaultStatements.
func (s Statements) WithDefaults() Statements {
	def := DefaultStatements()
	fill := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	fill(&s.SongInsert, def.SongInsert)
	fill(&s.ArtistInsert, def.ArtistInsert)
	fill(&s.TimeInsert, def.TimeInsert)
	fill(&s.UserInsert, def.UserInsert)
	fill(&s.SongplayInsert, def.SongplayInsert)
	fill(&s.SongSelect, def.SongSelect)
	return s
}
