package database

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConnectionString(t *testing.T) {
	t.Run("plain path gets a query string", func(t *testing.T) {
		conn := buildConnectionString("/data/results.db")
		assert.True(t, strings.HasPrefix(conn, "/data/results.db?_pragma=journal_mode(WAL)"))
		assert.Equal(t, 1, strings.Count(conn, "?"))
	})

	t.Run("file URI keeps its existing query string intact", func(t *testing.T) {
		conn := buildConnectionString("file:results?mode=memory&cache=shared")
		assert.Equal(t, 1, strings.Count(conn, "?"))
		assert.Contains(t, conn, "cache=shared&_pragma=journal_mode(WAL)")
	})
}

func TestOpenInMemory(t *testing.T) {
	db, err := New(Config{
		Path: "file:" + t.Name() + "?mode=memory&cache=shared",
		Name: "results",
	})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.HealthCheck(context.Background()))

	_, err = db.Conn().Exec(`CREATE TABLE smoke (id INTEGER PRIMARY KEY)`)
	assert.NoError(t, err)
}
