// Row directory allocation for Add mode: each row is a UUID-named
// directory under a command's sysconf path.
package setter

import (
	"os"
	"path/filepath"

	"github.com/gofrs/uuid"

	"github.com/ncsh/ncsh/internal/shellerr"
)

// newRowUUID generates the UUID that names a fresh row directory.
func newRowUUID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", shellerr.IOFailure("generating row UUID", err)
	}
	return id.String(), nil
}

// allocateRowDir creates "<sysconf>/<uuid>/" and returns its path. The
// caller removes it again on rollback if a later step fails.
func allocateRowDir(sysconf string) (path string, err error) {
	id, err := newRowUUID()
	if err != nil {
		return "", err
	}
	path = filepath.Join(sysconf, id)
	if err := os.Mkdir(path, 0o755); err != nil {
		return "", shellerr.IOFailure("creating row directory "+path, err)
	}
	return path, nil
}
