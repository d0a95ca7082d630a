package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@localhost:5432/workhub?sslmode=disable":   "pgx5://u:p@localhost:5432/workhub?sslmode=disable",
		"postgresql://u:p@localhost:5432/workhub":                 "pgx5://u:p@localhost:5432/workhub",
		"pgx5://already/converted":                                "pgx5://already/converted",
	}
	for in, want := range tests {
		assert.Equal(t, want, MigrateURL(in))
	}
}

func TestMigrationsArePaired(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	ups, downs := 0, 0
	for _, f := range files {
		switch {
		case strings.HasSuffix(f, ".up.sql"):
			ups++
		case strings.HasSuffix(f, ".down.sql"):
			downs++
		}
	}
	assert.Equal(t, ups, downs)
}

func TestInitMigrationEnforcesAcceptedUniqueness(t *testing.T) {
	b, err := fs.ReadFile(migrations, "migrations/0001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(b), "WHERE status = 'accepted'")
	assert.Contains(t, string(b), "balance >= 0")
}
