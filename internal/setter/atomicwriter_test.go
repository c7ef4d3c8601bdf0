package setter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitWritesRegularFiles(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "name.txt")
	files := []PlannedFile{{
		Key:             "name",
		DestinationPath: dest,
		BackupPath:      dest + ".backup",
		Value:           "row7",
		Kind:            FileRegular,
	}}

	require.NoError(t, Commit(files))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "row7", string(got))
	_, err = os.Stat(dest + ".backup")
	assert.True(t, os.IsNotExist(err))
}

func TestCommitRollsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "name.txt")
	require.NoError(t, os.WriteFile(existing, []byte("old"), 0o644))

	// A destination whose parent directory doesn't exist fails the
	// temp-file stage, forcing rollback of the file staged before it.
	badDest := filepath.Join(dir, "missing-subdir", "other.txt")
	files := []PlannedFile{
		{
			Key:             "name",
			DestinationPath: existing,
			BackupPath:      existing + ".backup",
			Value:           "new",
			Kind:            FileRegular,
		},
		{
			Key:             "other",
			DestinationPath: badDest,
			BackupPath:      badDest + ".backup",
			Value:           "x",
			Kind:            FileRegular,
		},
	}

	err := Commit(files)
	require.Error(t, err)

	got, readErr := os.ReadFile(existing)
	require.NoError(t, readErr)
	assert.Equal(t, "old", string(got), "rollback should have restored the original file")
}

func TestCommitPreservesExistingMode(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "name.txt")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0o600))

	files := []PlannedFile{{
		Key:             "name",
		DestinationPath: dest,
		BackupPath:      dest + ".backup",
		Value:           "new",
		Kind:            FileRegular,
	}}
	require.NoError(t, Commit(files))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCommitSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))
	dest := filepath.Join(dir, "link")

	files := []PlannedFile{{
		Key:             "link",
		DestinationPath: dest,
		BackupPath:      dest + ".backup",
		Value:           target,
		Kind:            FileSymlink,
	}}
	require.NoError(t, Commit(files))

	resolved, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, target, resolved)
}
