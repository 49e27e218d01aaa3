package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Config holds database configuration
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the config as a libpq keyword/value connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Connection wraps the single long-lived connection shared by a load run.
type Connection struct {
	Conn *pgx.Conn
}

// NewConnection opens one connection and pings it.
func NewConnection(ctx context.Context, config Config) (*Connection, error) {
	connConfig, err := pgx.ParseConfig(config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	conn, err := pgx.ConnectConfig(ctx, connConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Connection{Conn: conn}, nil
}

// Close closes the underlying connection
func (c *Connection) Close(ctx context.Context) error {
	if c.Conn == nil {
		return nil
	}
	return c.Conn.Close(ctx)
}

// Begin starts a transaction on the underlying connection.
func (c *Connection) Begin(ctx context.Context) (pgx.Tx, error) {
	return c.Conn.Begin(ctx)
}

// DefaultConfig returns the credentials of the local sparkify warehouse.
func DefaultConfig() Config {
	return Config{
		Host:     "127.0.0.1",
		Port:     5432,
		User:     "student",
		Password: "student",
		DBName:   "sparkifydb",
		SSLMode:  "disable",
	}
}
