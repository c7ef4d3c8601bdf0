package setter

import (
	"fmt"
	"unicode/utf8"
)

// SQLIdentifierValidator implements both the "regular" and "delimited"
// sql-id validators: length-bounded, regular identifiers further
// restricted to a narrow byte-level grammar that is NOT the same as SQL
// engines' Unicode identifier classes (xid.Start/xid.Continue, as
// vippsas-sqlcode's T-SQL scanner uses) — this is a deliberately
// narrower rule, so it is implemented directly against stdlib
// byte/rune classification rather than pulling in a Unicode
// identifier-class library that would accept more than this grammar
// allows.
type SQLIdentifierValidator struct {
	Delimited bool
	Min, Max  int // defaults 1, 63 when zero
}

func (v SQLIdentifierValidator) bounds() (min, max int) {
	min, max = v.Min, v.Max
	if min == 0 {
		min = 1
	}
	if max == 0 {
		max = 63
	}
	return min, max
}

func (v SQLIdentifierValidator) Validate(input string) (string, error) {
	if !utf8.ValidString(input) {
		return "", invalidf(input, "not valid UTF-8")
	}
	min, max := v.bounds()
	n := utf8.RuneCountInString(input)
	if n < min || n > max {
		return "", invalidf(input, fmt.Sprintf("length must be %d..%d", min, max))
	}
	if v.Delimited {
		for i := 0; i < len(input); i++ {
			if input[i] == 0x00 {
				return "", invalidf(input, "NUL byte not allowed")
			}
		}
		return input, nil
	}
	if err := v.validateRegular(input); err != nil {
		return "", err
	}
	return input, nil
}

func (v SQLIdentifierValidator) validateRegular(input string) error {
	for i, b := range []byte(input) {
		switch {
		case b >= 0x80:
			continue
		case b >= 'a' && b <= 'z':
			continue
		case b == '_':
			continue
		case b >= '0' && b <= '9':
			if i == 0 {
				return invalidf(input, "cannot start with a digit")
			}
			continue
		default:
			return invalidf(input, fmt.Sprintf("illegal character %q", string(rune(b))))
		}
	}
	return nil
}

func (SQLIdentifierValidator) Complete(string) ([]string, error) { return nil, nil }
