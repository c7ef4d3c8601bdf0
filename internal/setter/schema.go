package setter

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ncsh/ncsh/internal/shellerr"
)

// SchemaPair is one pair registration as the setter CLI reads it from
// a command's schema file: the fields of Pair plus whatever bounds the
// named validator needs. Unused fields for a given Type are ignored.
type SchemaPair struct {
	Key      string `yaml:"key"`
	Suffix   string `yaml:"suffix"`
	Type     string `yaml:"type"`
	Optional bool   `yaml:"optional"`
	Index    bool   `yaml:"index"`

	// bytes
	Min *int64 `yaml:"min"`
	Max *int64 `yaml:"max"`

	// sql-id
	Delimited bool `yaml:"delimited"`
	MinLen    int  `yaml:"min_len"`
	MaxLen    int  `yaml:"max_len"`

	// select / symlink
	BaseFiles []string `yaml:"base_files"`
	BaseDirs  []string `yaml:"base_dirs"`

	// user
	Groups []string `yaml:"groups"`
}

// Schema is a command's full pair registration, read from a YAML file
// named on the setter CLI's --schema flag.
type Schema struct {
	Pairs []SchemaPair `yaml:"pairs"`
}

// LoadSchema reads and parses a pair-registration file.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, shellerr.IOFailure("reading schema "+path, err)
	}
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Schema{}, shellerr.Wrap(shellerr.KindInvalid, "parsing schema "+path, err)
	}
	return s, nil
}

// Build turns a Schema into the Pairs/Validators Apply needs.
func (s Schema) Build() ([]Pair, Validators, error) {
	pairs := make([]Pair, 0, len(s.Pairs))
	validators := make(Validators, len(s.Pairs))
	for _, sp := range s.Pairs {
		v, err := sp.validator()
		if err != nil {
			return nil, nil, err
		}
		pairs = append(pairs, Pair{
			Key:      sp.Key,
			Suffix:   sp.Suffix,
			TypeTag:  sp.Key, // one validator instance per key, keyed by key
			Optional: sp.Optional,
			IsIndex:  sp.Index,
		})
		validators[sp.Key] = v
	}
	return pairs, validators, nil
}

func (sp SchemaPair) validator() (Validator, error) {
	switch sp.Type {
	case "index":
		return IndexValidator{}, nil
	case "port":
		return PortValidator{}, nil
	case "unprivileged-port":
		return UnprivilegedPortValidator{}, nil
	case "hostname":
		return HostnameValidator{}, nil
	case "fqdn":
		return FQDNValidator{}, nil
	case "select":
		return SelectValidator{BaseFiles: sp.BaseFiles, Optional: sp.Optional}, nil
	case "bytes":
		return BytesValidator{Min: sp.Min, Max: sp.Max}, nil
	case "symlink":
		return SymlinkValidator{BaseDirs: sp.BaseDirs, Suffix: sp.Suffix, Optional: sp.Optional}, nil
	case "sql-id":
		return SQLIdentifierValidator{Delimited: sp.Delimited, Min: sp.MinLen, Max: sp.MaxLen}, nil
	case "user":
		return UserValidator{Groups: sp.Groups, Optional: sp.Optional}, nil
	case "dn":
		return DNValidator{}, nil
	default:
		return nil, shellerr.New(shellerr.KindInvalid, fmt.Sprintf("unknown pair type %q for key %q", sp.Type, sp.Key))
	}
}
