package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sport-planner-api/pkg/config"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "planner", Password: "p ss'w", Name: "sport_planner", SSLMode: "disable"}

	assert.Equal(t,
		`host=db port=5432 user=planner password='p ss\'w' dbname=sport_planner sslmode=disable timezone=Europe/Amsterdam`,
		DSN(cfg, "Europe/Amsterdam"))

	cfg.Password = ""
	assert.Equal(t, `host=db port=5432 user=planner password='' dbname=sport_planner sslmode=disable`, DSN(cfg, ""))
}
