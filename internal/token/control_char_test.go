package token

import "testing"

// Dedicated table for the \cX control-character mapping, resolving the
// Open Question recorded in DESIGN.md: standard ASCII/POSIX semantics,
// toupper(X) & 0x1F.
func TestControlCharMapping(t *testing.T) {
	cases := []struct {
		selector byte
		want     byte
	}{
		{'@', 0x00},
		{'A', 0x01},
		{'a', 0x01}, // lowercase canonicalises the same as uppercase
		{'Z', 0x1A},
		{'z', 0x1A},
		{'[', 0x1B},
		{'\\', 0x1C},
		{']', 0x1D},
		{'^', 0x1E},
		{'_', 0x1F},
	}
	for _, c := range cases {
		got := controlCharValue(c.selector)
		if got != c.want {
			t.Errorf("controlCharValue(%q) = %#02x, want %#02x", c.selector, got, c.want)
		}
	}
}

func TestControlCharViaTokenize(t *testing.T) {
	argv, _, _, _, err := Tokenize([]byte(`\c_`), Initial())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if argv[0] != "\x1f" {
		t.Errorf("argv[0] = %q, want 0x1f", argv[0])
	}
}

func TestControlCharRejectsIllegalSelector(t *testing.T) {
	_, _, _, errAt, err := Tokenize([]byte(`\c1`), Initial())
	if err == nil {
		t.Fatal("expected a syntax error: '1' is not a legal control selector")
	}
	if errAt != 2 {
		t.Errorf("errAt = %d, want 2", errAt)
	}
}
