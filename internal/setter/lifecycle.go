// Lifecycle orchestration: the four setter modes: Set, Add, Remove,
// Mark.
package setter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ncsh/ncsh/internal/shellerr"
)

// markerMode is the zero-length marker files' permission: the default
// 0o666 with the 0o113 bits (owner execute, group execute, other write
// and execute) cleared, i.e. 0o664.
const markerMode = os.FileMode(0o666 &^ 0o113)

// Request is one setter invocation's full input: the registered pairs,
// the values supplied for them (by key), the mode, and the row
// directory the mode operates against (empty for Add, which allocates
// its own).
type Request struct {
	Mode    Mode
	Pairs   []Pair
	Values  map[string]string // key -> raw input value
	RowDir  string            // existing row directory (Set/Remove/Mark)
	Sysconf string            // row's parent directory (Add)
}

// Result reports what Apply did, for --dry-run reporting and for the
// caller to log.
type Result struct {
	RowDir string
	Plan   []PlannedFile
	Marker string
}

// Validators maps a Pair's TypeTag to the Validator that checks it.
// Callers build this from command-specific configuration (select base
// files, symlink base dirs, bytes bounds, etc.) since those bounds
// aren't knowable from the Pair alone.
type Validators map[string]Validator

// Apply executes the requested lifecycle mode. Add and Set first
// validate every pair's supplied value; Remove and Mark validate
// nothing.
func Apply(req Request, validators Validators) (Result, error) {
	switch req.Mode {
	case ModeAdd:
		return applyAdd(req, validators)
	case ModeSet:
		return applySet(req, validators)
	case ModeRemove:
		return applyRemove(req)
	case ModeMark:
		return applyMark(req)
	default:
		return Result{}, shellerr.New(shellerr.KindInvalid, fmt.Sprintf("unknown mode %v", req.Mode))
	}
}

func validateAll(req Request, validators Validators) (map[string]string, error) {
	canonical := make(map[string]string, len(req.Pairs))
	for _, p := range req.Pairs {
		raw, supplied := req.Values[p.Key]
		if !supplied {
			if p.Optional {
				continue
			}
			return nil, shellerr.Invalid(p.Key, "required pair not supplied")
		}
		v, ok := validators[p.TypeTag]
		if !ok {
			return nil, shellerr.New(shellerr.KindInvalid, fmt.Sprintf("no validator registered for type %q", p.TypeTag))
		}
		canon, err := v.Validate(raw)
		if err != nil {
			return nil, err
		}
		canonical[p.Key] = canon
	}
	return canonical, nil
}

func plannedFilesFor(dir string, pairs []Pair, canonical map[string]string) []PlannedFile {
	var files []PlannedFile
	for _, p := range pairs {
		val, ok := canonical[p.Key]
		if !ok {
			continue
		}
		dest := filepath.Join(dir, p.Key+p.Suffix)
		files = append(files, PlannedFile{
			Key:             p.Key,
			DestinationPath: dest,
			BackupPath:      dest + ".backup",
			Value:           val,
			Kind:            FileRegular,
			IsIndex:         p.IsIndex,
		})
	}
	return files
}

func applyAdd(req Request, validators Validators) (Result, error) {
	canonical, err := validateAll(req, validators)
	if err != nil {
		return Result{}, err
	}

	var indexKey, indexValue string
	for _, p := range req.Pairs {
		if p.IsIndex {
			indexKey = p.Key
			indexValue = canonical[p.Key]
		}
	}

	rowDir, err := allocateRowDir(req.Sysconf)
	if err != nil {
		return Result{}, err
	}

	files := plannedFilesFor(rowDir, req.Pairs, canonical)
	if err := Commit(files); err != nil {
		os.RemoveAll(rowDir)
		return Result{}, err
	}

	if err := writeMarker(rowDir, "added"); err != nil {
		os.RemoveAll(rowDir)
		return Result{}, err
	}

	if indexKey != "" {
		link := filepath.Join(req.Sysconf, indexValue)
		if err := os.Symlink(rowDir, link); err != nil {
			os.RemoveAll(rowDir)
			return Result{}, shellerr.IOFailure("creating index symlink "+link, err)
		}
	}

	return Result{RowDir: rowDir, Plan: files, Marker: "added"}, nil
}

func applySet(req Request, validators Validators) (Result, error) {
	if req.RowDir == "" {
		return Result{}, shellerr.New(shellerr.KindNotFound, "set requires an identified target row")
	}
	canonical, err := validateAll(req, validators)
	if err != nil {
		return Result{}, err
	}

	if err := writeMarker(req.RowDir, "updated"); err != nil {
		return Result{}, err
	}

	files := plannedFilesFor(req.RowDir, req.Pairs, canonical)
	if err := Commit(files); err != nil {
		os.Remove(filepath.Join(req.RowDir, "updated"))
		return Result{}, err
	}
	return Result{RowDir: req.RowDir, Plan: files, Marker: "updated"}, nil
}

func applyRemove(req Request) (Result, error) {
	if req.RowDir == "" {
		return Result{}, shellerr.New(shellerr.KindNotFound, "remove requires an identified target row")
	}
	if err := checkNoUnexpectedEntries(req.RowDir, req.Pairs); err != nil {
		return Result{}, err
	}

	aside := fmt.Sprintf("%s;%d", req.RowDir, os.Getpid())
	if err := os.Rename(req.RowDir, aside); err != nil {
		return Result{}, shellerr.IOFailure("renaming row aside", err)
	}
	if err := os.RemoveAll(aside); err != nil {
		return Result{}, shellerr.IOFailure("removing renamed row", err)
	}
	return Result{RowDir: req.RowDir}, nil
}

func applyMark(req Request) (Result, error) {
	if req.RowDir == "" {
		return Result{}, shellerr.New(shellerr.KindNotFound, "mark requires an identified target row")
	}
	if err := writeMarker(req.RowDir, "removed"); err != nil {
		return Result{}, err
	}
	return Result{RowDir: req.RowDir, Marker: "removed"}, nil
}

// checkNoUnexpectedEntries refuses removal if the row directory
// contains hidden files or subdirectories beyond the registered pairs
// and markers.
func checkNoUnexpectedEntries(dir string, pairs []Pair) error {
	expected := map[string]bool{"added": true, "updated": true, "removed": true}
	for _, p := range pairs {
		expected[p.Key+p.Suffix] = true
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return shellerr.IOFailure("reading row directory "+dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if len(name) > 0 && name[0] == '.' {
			return shellerr.Invalid(dir, fmt.Sprintf("unexpected hidden entry %q", name))
		}
		if e.IsDir() {
			return shellerr.Invalid(dir, fmt.Sprintf("unexpected subdirectory %q", name))
		}
		if !expected[name] {
			return shellerr.Invalid(dir, fmt.Sprintf("unexpected entry %q", name))
		}
	}
	return nil
}

func writeMarker(dir, name string) error {
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, markerMode)
	if err != nil {
		return shellerr.IOFailure("writing marker "+path, err)
	}
	return f.Close()
}
