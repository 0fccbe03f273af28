package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agenda/config"
)

func TestListMigrationsOrdersAndSkipsBadNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"000002_seed.sql", "000001_init.sql", "README.md", "broken.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}

	migrations, err := ListMigrations(dir, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "000001", migrations[0].Version)
	assert.Equal(t, "init", migrations[0].Name)
	assert.Equal(t, "000002", migrations[1].Version)
	assert.Equal(t, "seed", migrations[1].Name)
}

func TestListMigrationsMissingDir(t *testing.T) {
	_, err := ListMigrations(filepath.Join(t.TempDir(), "absent"), zap.NewNop())
	assert.Error(t, err)
}

func TestRepositoryMigrationsAreListed(t *testing.T) {
	migrations, err := ListMigrations("../../migrations", zap.NewNop())
	require.NoError(t, err)
	assert.NotEmpty(t, migrations)
}

func TestConnStringEscapesCredentials(t *testing.T) {
	dsn := ConnString(config.PostgresConfig{
		Host:     "db",
		Port:     "5432",
		Username: "agenda",
		Password: "p@ss word",
		DBName:   "agenda",
		SSLMode:  "disable",
	})

	assert.Equal(t, "postgres://agenda:p%40ss%20word@db:5432/agenda?sslmode=disable", dsn)
}
