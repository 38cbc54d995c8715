package postgresql

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHelper provides common testing utilities
type TestHelper struct {
	Container *TestContainer
	T         *testing.T
}

// NewTestHelperWithMigrations starts a container, applies migrations and
// terminates the container when the test ends. Skipped in short mode.
func NewTestHelperWithMigrations(t *testing.T, migrations fs.FS) *TestHelper {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	config := DefaultTestContainerConfig()
	config.Migrations = migrations

	container, err := NewTestContainer(context.Background(), config)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Close(); err != nil {
			t.Logf("Failed to close test container: %v", err)
		}
	})

	return &TestHelper{
		Container: container,
		T:         t,
	}
}

// CleanupTables truncates the given tables between tests
func (h *TestHelper) CleanupTables(tables ...string) {
	require.NoError(h.T, h.Container.TruncateTables(tables...))
}

// GetClient returns the PostgreSQL client
func (h *TestHelper) GetClient() PostgreSQLClient {
	return h.Container.Client
}
