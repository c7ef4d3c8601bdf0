package setter

import (
	"fmt"
	"strings"
)

// HostnameValidator accepts 1..63 chars of [0-9a-z-], not leading with
// '-'.
type HostnameValidator struct{}

func (HostnameValidator) Validate(input string) (string, error) {
	if err := validateHostnameLabel(input); err != nil {
		return "", err
	}
	return input, nil
}

func (HostnameValidator) Complete(string) ([]string, error) { return nil, nil }

func validateHostnameLabel(label string) error {
	if len(label) == 0 || len(label) > 63 {
		return invalidf(label, "must be 1..63 characters")
	}
	if label[0] == '-' {
		return invalidf(label, "cannot start with '-'")
	}
	for _, r := range label {
		if !isHostnameChar(r) {
			return invalidf(label, "only [0-9a-z-] allowed")
		}
	}
	return nil
}

func isHostnameChar(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || r == '-'
}

// FQDNValidator accepts dot-separated hostname labels, total length
// <=253, no consecutive dots, no leading dot.
type FQDNValidator struct{}

func (FQDNValidator) Validate(input string) (string, error) {
	if len(input) == 0 || len(input) > 253 {
		return "", invalidf(input, "must be 1..253 characters")
	}
	if strings.HasPrefix(input, ".") {
		return "", invalidf(input, "cannot start with '.'")
	}
	if strings.Contains(input, "..") {
		return "", invalidf(input, "no consecutive dots")
	}
	for _, label := range strings.Split(input, ".") {
		if err := validateHostnameLabel(label); err != nil {
			return "", invalidf(input, fmt.Sprintf("label %q: %v", label, err))
		}
	}
	return input, nil
}

func (FQDNValidator) Complete(string) ([]string, error) { return nil, nil }
