package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "data", "db", "portal.db")

	require.NoError(t, EnsureParentDir(path))

	fi, err := os.Stat(filepath.Join(tmp, "data", "db"))
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")
}

func TestEnsureParentDir_BareFilenameIsNoop(t *testing.T) {
	require.NoError(t, EnsureParentDir("portal.db"))
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "data", "portal.db")

	require.NoError(t, EnsureParentDir(path))
	require.NoError(t, EnsureParentDir(path))
}

func TestEnsureParentDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o660))

	err := EnsureParentDir(filepath.Join(blocker, "portal.db"))
	require.Error(t, err, "should fail when a file exists with the same name")
}
