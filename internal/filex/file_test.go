package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureParentDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "state", "cli", "session.db")

	got, err := EnsureParentDir(path)
	require.NoError(t, err)
	require.Equal(t, path, got)

	fi, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, fi.IsDir())

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}

	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err), "the file itself must not be created")
}

func TestEnsureParentDir_RelativeToWorkingDir(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureParentDir("session.db")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.Equal(t, filepath.Join(wd, "session.db"), got)
}

func TestEnsureParentDir_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.db")

	first, err := EnsureParentDir(path)
	require.NoError(t, err)
	second, err := EnsureParentDir(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEnsureParentDir_FailsIfFileBlocksDirectory(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "state")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureParentDir(filepath.Join(blocker, "session.db"))
	require.Error(t, err)
}
