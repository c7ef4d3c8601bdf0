package setter

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

// IndexValidator accepts any signed 64-bit integer.
type IndexValidator struct{}

func (IndexValidator) Validate(input string) (string, error) {
	n, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return "", invalidf(input, "not a valid 64-bit integer")
	}
	return strconv.FormatInt(n, 10), nil
}

func (IndexValidator) Complete(string) ([]string, error) { return nil, nil }

// PortValidator accepts 0..65535.
type PortValidator struct{}

func (PortValidator) Validate(input string) (string, error) {
	return validatePortRange(input, 0, 65535)
}

func (PortValidator) Complete(string) ([]string, error) { return nil, nil }

// UnprivilegedPortValidator accepts 1025..49151.
type UnprivilegedPortValidator struct{}

func (UnprivilegedPortValidator) Validate(input string) (string, error) {
	return validatePortRange(input, 1025, 49151)
}

func (UnprivilegedPortValidator) Complete(string) ([]string, error) { return nil, nil }

func validatePortRange(input string, min, max int) (string, error) {
	n, err := strconv.Atoi(input)
	if err != nil {
		return "", invalidf(input, "not a valid port number")
	}
	if n < min || n > max {
		return "", invalidf(input, fmt.Sprintf("out of range %d..%d", min, max))
	}
	return strconv.Itoa(n), nil
}

// byteSuffixes lists the thirteen SI/IEC suffixes completion offers,
// in the order it offers them.
var byteSuffixes = []string{"B", "kB", "KiB", "MB", "MiB", "GB", "GiB", "TB", "TiB", "PB", "PiB", "EB", "EiB"}

// BytesValidator accepts a non-negative decimal byte count, optionally
// suffixed with an SI (1000^n) or IEC (1024^n) unit, bounded by an
// optional [Min,Max]. humanize.ParseBytes already expands this suffix
// set, so canonicalisation reuses it rather than reimplementing
// 1000^n/1024^n expansion by hand. ParseBytes also accepts input beyond
// byteSuffixes (any letter case, short forms such as "k" or "Mi", and
// fractional counts), and Validate passes all of it through.
type BytesValidator struct {
	Min, Max *int64
}

func (v BytesValidator) Validate(input string) (string, error) {
	if len(input) > 18 && isAllDigits(input) {
		return "", invalidf(input, "at most 18 digits")
	}
	n, err := humanize.ParseBytes(input)
	if err != nil {
		return "", invalidf(input, "not a valid byte count")
	}
	if v.Min != nil && int64(n) < *v.Min {
		return "", invalidf(input, fmt.Sprintf("below minimum %d", *v.Min))
	}
	if v.Max != nil && int64(n) > *v.Max {
		return "", invalidf(input, fmt.Sprintf("above maximum %d", *v.Max))
	}
	return strconv.FormatUint(n, 10), nil
}

// Complete lists the suffixes whose expansion fits within Max;
// suffixes that would overflow or exceed Max are silently omitted.
func (v BytesValidator) Complete(prefix string) ([]string, error) {
	var out []string
	for _, suf := range byteSuffixes {
		sample := "1" + suf
		n, err := humanize.ParseBytes(sample)
		if err != nil {
			continue
		}
		if v.Max != nil && int64(n) > *v.Max {
			continue
		}
		if hasPrefix(suf, prefix) {
			out = append(out, suf)
		}
	}
	return out, nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func hasPrefix(s, prefix string) bool {
	if len(prefix) > len(s) {
		return false
	}
	return s[:len(prefix)] == prefix
}
