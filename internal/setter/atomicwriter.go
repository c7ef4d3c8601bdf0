// Atomic file writer: two-phase commit/rollback over a PlannedFile set,
// grounded on Aureuma-si's
// internal/vault/dotenv.go:WriteDotenvFileAtomic (rename-existing →
// write-temp → chmod → rename-into-place), generalised from one file
// to a whole planned set with symlink support and rollback.
package setter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ncsh/ncsh/internal/ncshlog"
	"github.com/ncsh/ncsh/internal/shellerr"
)

// staged records what Commit has done so far, so Rollback can reverse
// exactly the completed steps if a later step fails.
type staged struct {
	file         PlannedFile
	backedUp     bool   // destination was renamed to BackupPath
	stagePath    string // temp file or "<dest>;<pid>" symlink path, once created
	stageCreated bool
}

// Commit executes phase 1 (rename-aside + write-temp/symlink) for every
// planned file, then phase 2 (rename-into-place, remove backups) only
// once every file staged cleanly. If phase 1 fails partway, it rolls
// back everything staged so far and returns the original error. Once
// phase 2 begins, a failure is logged but not rolled back: the
// filesystem is now past the point of atomicity.
func Commit(files []PlannedFile) error {
	log := ncshlog.For("setter")
	var done []staged

	for _, f := range files {
		s := staged{file: f}

		if _, err := os.Lstat(f.DestinationPath); err == nil {
			if err := os.Rename(f.DestinationPath, f.BackupPath); err != nil {
				rollback(done)
				return shellerr.IOFailure("backing up "+f.DestinationPath, err)
			}
			s.backedUp = true
		}

		switch f.Kind {
		case FileRegular:
			stagePath, err := writeStageFile(f)
			if err != nil {
				done = append(done, s)
				rollback(done)
				return err
			}
			s.stagePath = stagePath
			s.stageCreated = true
		case FileSymlink:
			stagePath := fmt.Sprintf("%s;%d", f.DestinationPath, os.Getpid())
			if err := os.Symlink(f.Value, stagePath); err != nil {
				done = append(done, s)
				rollback(done)
				return shellerr.IOFailure("creating symlink "+stagePath, err)
			}
			s.stagePath = stagePath
			s.stageCreated = true
		}

		done = append(done, s)
	}

	for _, s := range done {
		if err := os.Rename(s.stagePath, s.file.DestinationPath); err != nil {
			log.WithField("path", s.file.DestinationPath).WithField("error", err).
				Warn("final rename failed after commit point; partial commit accepted")
			continue
		}
		if s.backedUp {
			if err := os.Remove(s.file.BackupPath); err != nil {
				log.WithField("path", s.file.BackupPath).WithField("error", err).
					Warn("removing backup failed; leaving stray backup file")
			}
		}
	}
	return nil
}

func writeStageFile(f PlannedFile) (string, error) {
	dir := filepath.Dir(f.DestinationPath)
	mode := os.FileMode(0o644)
	// By this point Commit has already renamed any pre-existing
	// destination aside to BackupPath, so the mode to preserve lives
	// there, not at the now-vacated DestinationPath.
	if info, err := os.Stat(f.BackupPath); err == nil {
		mode = info.Mode().Perm()
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.DestinationPath)+".*")
	if err != nil {
		return "", shellerr.IOFailure("creating temp file", err)
	}
	if _, err := tmp.WriteString(f.Value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", shellerr.IOFailure("writing temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", shellerr.IOFailure("closing temp file", err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		os.Remove(tmp.Name())
		return "", shellerr.IOFailure("chmod temp file", err)
	}
	return tmp.Name(), nil
}

// rollback reverses every step recorded in done, in reverse order:
// remove stage files/symlinks, restore backups.
func rollback(done []staged) {
	log := ncshlog.For("setter")
	for i := len(done) - 1; i >= 0; i-- {
		s := done[i]
		if s.stageCreated {
			if err := os.Remove(s.stagePath); err != nil && !os.IsNotExist(err) {
				log.WithField("path", s.stagePath).WithField("error", err).Warn("rollback: removing stage file failed")
			}
		}
		if s.backedUp {
			if err := os.Rename(s.file.BackupPath, s.file.DestinationPath); err != nil {
				log.WithField("path", s.file.BackupPath).WithField("error", err).Warn("rollback: restoring backup failed")
			}
		}
	}
}
