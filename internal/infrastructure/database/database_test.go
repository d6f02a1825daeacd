package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRebindPostgresPlaceholders(t *testing.T) {
	db := NewWithDB(nil, "pgx")
	got := db.Rebind(`INSERT INTO users (id, email) VALUES (?, ?)`)
	assert.Equal(t, `INSERT INTO users (id, email) VALUES ($1, $2)`, got)
}

func TestRebindSQLitePassthrough(t *testing.T) {
	db := NewWithDB(nil, "sqlite3")
	query := `SELECT COUNT(*) FROM users WHERE email = ?`
	assert.Equal(t, query, db.Rebind(query))
}
