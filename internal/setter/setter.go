// Package setter implements the typed name=value validation and
// atomic-write engine: eleven value validators, add/set/remove/mark
// lifecycle modes, and a two-phase commit writer with rollback.
package setter

import (
	"github.com/ncsh/ncsh/internal/shellerr"
)

// Mode selects one of the four lifecycle operations.
type Mode int

const (
	ModeSet Mode = iota
	ModeAdd
	ModeRemove
	ModeMark
)

func (m Mode) String() string {
	switch m {
	case ModeSet:
		return "set"
	case ModeAdd:
		return "add"
	case ModeRemove:
		return "remove"
	case ModeMark:
		return "mark"
	default:
		return "unknown"
	}
}

// Pair is a registered key: the argument-parsing-time declaration of
// one name=value slot a command accepts.
type Pair struct {
	Key      string
	Suffix   string // file suffix under the row directory, e.g. ".txt"; "" for index files
	TypeTag  string // key into Validators: a validator name such as "index", or the pair's own key as Schema.Build sets it
	Optional bool
	IsIndex  bool // true for the pair whose value names the row (symlinked to the UUID dir)
}

// PlannedFile is one file the atomic writer will stage and commit.
type PlannedFile struct {
	Key             string
	DestinationPath string
	TemplatePath    string // not read by Commit: writeStageFile derives its own "<dest-base>.*" CreateTemp pattern
	BackupPath      string
	Value           string
	Kind            FileKind
	IsIndex         bool
}

// FileKind distinguishes a regular file write from a symlink creation.
type FileKind int

const (
	FileRegular FileKind = iota
	FileSymlink
)

// Candidate is one completion-mode output line: a key (shell-escaped
// by the caller), its required/optional marker, and an optional value.
type Candidate struct {
	Key      string
	Value    string
	HasValue bool
	Required bool
}

// Validator is the common contract every one of the eleven value types
// implements: check an input value and return its canonical form, or
// list completion candidates for a prefix.
type Validator interface {
	// Validate checks input and returns its canonical form.
	Validate(input string) (canonical string, err error)
	// Complete returns completion candidates for the given (possibly
	// empty) prefix. Validators with no enumerable domain (index, port,
	// bytes without close bounds) may return nil.
	Complete(prefix string) ([]string, error)
}

// optionalNone is the pseudo-value every optional validator accepts to
// mean "no file for this key" (select, symlink, user).
const optionalNone = "none"

func invalidf(value, reason string) error {
	return shellerr.Invalid(value, reason)
}
