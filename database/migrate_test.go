package database_test

import (
	"testing"

	"warden/database"
	"warden/repository/testutil"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp_ReportsUpToDateSchema(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	t.Setenv("DATABASE_URL", testDB.URL)
	t.Setenv("DATABASE_NAME", "")

	hook := logtest.NewGlobal()
	defer hook.Reset()

	// The container is already migrated, so a second run has nothing to do
	// and must say so instead of reporting a fresh migration
	require.NoError(t, database.MigrateUp())

	messages := make([]string, 0, len(hook.AllEntries()))
	for _, entry := range hook.AllEntries() {
		messages = append(messages, entry.Message)
	}
	assert.Contains(t, messages, "No new migrations to apply")
}

func TestRunMigrationsWithURL_Idempotent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	// Setup already migrated once; a repeat run is a no-op success
	require.NoError(t, database.RunMigrationsWithURL(testDB.URL))
}
