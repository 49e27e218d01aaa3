package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/rpattn/sparkify-etl/internal/db"
	"github.com/rpattn/sparkify-etl/internal/discovery"
	"github.com/rpattn/sparkify-etl/internal/repository"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. SPARKIFY_DATABASE_HOST.
const EnvPrefix = "SPARKIFY"

// Config is the process level configuration of a load run.
type Config struct {
	Database   db.Config             `mapstructure:"database"`
	Data       DataConfig            `mapstructure:"data"`
	Log        LogConfig             `mapstructure:"log"`
	Statements repository.Statements `mapstructure:"statements"`

	// ConfigFile is the config.yaml that was read, empty when none was found.
	ConfigFile string `mapstructure:"-"`
}

// DataConfig locates the two datasets.
type DataConfig struct {
	SongDir string `mapstructure:"song_dir"`
	LogDir  string `mapstructure:"log_dir"`
	Suffix  string `mapstructure:"suffix"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// RegisterFlags adds the command line overrides understood by Load.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("config", ".", "directory containing config.yaml and .env")
	flags.String("song-dir", "", "root directory of the song dataset")
	flags.String("log-dir", "", "root directory of the event log dataset")
	flags.String("suffix", "", "file name suffix of input files")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
}

var flagKeys = map[string]string{
	"song-dir":  "data.song_dir",
	"log-dir":   "data.log_dir",
	"suffix":    "data.suffix",
	"log-level": "log.level",
}

// Load resolves configuration from defaults, config.yaml in configPath, .env
// in configPath and the environment, then flags (highest priority). flags may
// be nil.
func Load(configPath string, flags *pflag.FlagSet) (Config, error) {
	if configPath == "" {
		configPath = "."
	}

	// .env is optional; variables already in the environment win
	envFile := filepath.Join(configPath, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return Config{}, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.Statements = cfg.Statements.WithDefaults()

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	dbCfg := db.DefaultConfig()
	v.SetDefault("database.host", dbCfg.Host)
	v.SetDefault("database.port", dbCfg.Port)
	v.SetDefault("database.user", dbCfg.User)
	v.SetDefault("database.password", dbCfg.Password)
	v.SetDefault("database.dbname", dbCfg.DBName)
	v.SetDefault("database.sslmode", dbCfg.SSLMode)

	v.SetDefault("data.song_dir", "data/song_data")
	v.SetDefault("data.log_dir", "data/log_data")
	v.SetDefault("data.suffix", discovery.DefaultSuffix)

	v.SetDefault("log.level", "info")

	stmts := repository.DefaultStatements()
	v.SetDefault("statements.song_insert", stmts.SongInsert)
	v.SetDefault("statements.artist_insert", stmts.ArtistInsert)
	v.SetDefault("statements.time_insert", stmts.TimeInsert)
	v.SetDefault("statements.user_insert", stmts.UserInsert)
	v.SetDefault("statements.songplay_insert", stmts.SongplayInsert)
	v.SetDefault("statements.song_select", stmts.SongSelect)
}
