package postgres_test

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/phrazzld/feed-api/internal/platform/logger"
	"github.com/phrazzld/feed-api/internal/platform/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(postgres.Migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.Equal(t, []string{
		"migrations/00001_create_users.sql",
		"migrations/00002_create_posts.sql",
		"migrations/00003_create_user_posts.sql",
	}, files)

	for _, name := range files {
		body, err := fs.ReadFile(postgres.Migrations, name)
		require.NoError(t, err)
		text := string(body)
		assert.True(t, strings.HasPrefix(text, "-- +goose Up"), name)
		assert.Contains(t, text, "-- +goose Down", name)
	}
}

func TestRunMigrationsUnknownCommand(t *testing.T) {
	log, buf := logger.NewTestLogger()

	err := postgres.RunMigrations(context.Background(), nil, "sideways", log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown migration command "sideways"`)
	assert.Empty(t, buf.String())
}
