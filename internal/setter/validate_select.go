package setter

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// SelectValidator matches a value (exact, else unambiguous prefix)
// against the non-blank, non-comment, whitespace-stripped lines of one
// or more "select base" files.
type SelectValidator struct {
	BaseFiles []string
	Optional  bool
}

func (v SelectValidator) candidates() ([]string, error) {
	var out []string
	for _, path := range v.BaseFiles {
		f, err := os.Open(path)
		if err != nil {
			return nil, invalidf(path, "cannot read select base: "+err.Error())
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			out = append(out, line)
		}
		err = scanner.Err()
		f.Close()
		if err != nil {
			return nil, invalidf(path, "reading select base: "+err.Error())
		}
	}
	return out, nil
}

func (v SelectValidator) Validate(input string) (string, error) {
	if v.Optional && input == optionalNone {
		return optionalNone, nil
	}
	cands, err := v.candidates()
	if err != nil {
		return "", err
	}
	return matchCandidate(input, cands)
}

func (v SelectValidator) Complete(prefix string) ([]string, error) {
	cands, err := v.candidates()
	if err != nil {
		return nil, err
	}
	if v.Optional {
		cands = append(cands, optionalNone)
	}
	return completeCandidates(prefix, cands), nil
}

// SymlinkValidator matches a name (exact, else unambiguous prefix)
// against entries of one or more base directories, optionally filtered
// by a required filename suffix that is stripped from the match. The
// canonical value is the absolute target path.
type SymlinkValidator struct {
	BaseDirs []string
	Suffix   string // required filename suffix, stripped from candidate names; "" = no filter
	Optional bool
}

func (v SymlinkValidator) candidates() (names []string, targets map[string]string, err error) {
	targets = make(map[string]string)
	for _, dir := range v.BaseDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, nil, invalidf(dir, "cannot read symlink base: "+err.Error())
		}
		for _, e := range entries {
			name := e.Name()
			if v.Suffix != "" {
				if !strings.HasSuffix(name, v.Suffix) {
					continue
				}
				name = strings.TrimSuffix(name, v.Suffix)
			}
			abs, err := filepath.Abs(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, nil, invalidf(dir, "resolving absolute path: "+err.Error())
			}
			names = append(names, name)
			targets[name] = abs
		}
	}
	return names, targets, nil
}

func (v SymlinkValidator) Validate(input string) (string, error) {
	if v.Optional && input == optionalNone {
		return optionalNone, nil
	}
	names, targets, err := v.candidates()
	if err != nil {
		return "", err
	}
	matched, err := matchCandidate(input, names)
	if err != nil {
		return "", err
	}
	return targets[matched], nil
}

func (v SymlinkValidator) Complete(prefix string) ([]string, error) {
	names, _, err := v.candidates()
	if err != nil {
		return nil, err
	}
	if v.Optional {
		names = append(names, optionalNone)
	}
	return completeCandidates(prefix, names), nil
}
