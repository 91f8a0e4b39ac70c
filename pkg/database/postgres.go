package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/noah-isme/sport-planner-api/pkg/config"
)

// DSN builds a lib/pq connection string. The session time zone is pinned to
// the facility zone so date casts agree with agenda days.
func DSN(cfg config.DatabaseConfig, timezone string) string {
	parts := []string{
		kv("host", cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		kv("user", cfg.User),
		kv("password", cfg.Password),
		kv("dbname", cfg.Name),
		kv("sslmode", cfg.SSLMode),
	}
	if timezone != "" {
		parts = append(parts, kv("timezone", timezone))
	}
	return strings.Join(parts, " ")
}

func kv(key, value string) string {
	if value == "" || strings.ContainsAny(value, ` '\`) {
		value = "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value) + "'"
	}
	return key + "=" + value
}

// NewPostgres opens and pings a PostgreSQL pool.
func NewPostgres(ctx context.Context, cfg config.DatabaseConfig, timezone string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", DSN(cfg, timezone))
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
