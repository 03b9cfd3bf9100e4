package postgres

import (
	"context"
	"io/fs"
	"testing"

	"github.com/phrazzld/lexicon/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_UnknownCommand(t *testing.T) {
	t.Parallel()

	log, _ := logger.NewTestLogger()
	err := RunMigrations(context.Background(), nil, "sideways", log)
	assert.ErrorIs(t, err, ErrUnknownMigrationCommand)
}

func TestEmbeddedMigrations(t *testing.T) {
	t.Parallel()

	names, err := fs.Glob(embedMigrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"migrations/00001_create_terms.sql",
		"migrations/00002_create_attempts.sql",
		"migrations/00003_create_tasks.sql",
	}, names)
}
