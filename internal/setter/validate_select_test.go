package setter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBaseFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "base.txt")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func TestSelectValidatorExactAndPrefix(t *testing.T) {
	path := writeBaseFile(t, "# comment\nalpha\nbeta\n\n  gamma  \n")
	v := SelectValidator{BaseFiles: []string{path}}

	canon, err := v.Validate("beta")
	assert.NoError(t, err)
	assert.Equal(t, "beta", canon)

	canon, err = v.Validate("gam")
	assert.NoError(t, err)
	assert.Equal(t, "gamma", canon)
}

func TestSelectValidatorAmbiguous(t *testing.T) {
	path := writeBaseFile(t, "alpha\nalphabet\n")
	v := SelectValidator{BaseFiles: []string{path}}
	_, err := v.Validate("alph")
	assert.Error(t, err)
}

func TestSelectValidatorOptionalNone(t *testing.T) {
	path := writeBaseFile(t, "alpha\n")
	v := SelectValidator{BaseFiles: []string{path}, Optional: true}
	canon, err := v.Validate("none")
	assert.NoError(t, err)
	assert.Equal(t, "none", canon)
}

func TestSymlinkValidatorResolvesTarget(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "router1.txt"), []byte("x"), 0o644))
	v := SymlinkValidator{BaseDirs: []string{dir}, Suffix: ".txt"}

	canon, err := v.Validate("router1")
	assert.NoError(t, err)
	assert.Contains(t, canon, "router1.txt")
}
