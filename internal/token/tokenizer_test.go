package token

import (
	"reflect"
	"testing"
)

func mustTokenize(t *testing.T, src string) ([]string, []OffsetRecord, State) {
	t.Helper()
	argv, offsets, final, errAt, err := Tokenize([]byte(src), Initial())
	if err != nil {
		t.Fatalf("Tokenize(%q) unexpected error at byte %d: %v", src, errAt, err)
	}
	return argv, offsets, final
}

func TestTokenizeQuotedAndEscapedSpace(t *testing.T) {
	argv, _, final := mustTokenize(t, `foo "bar baz" qux\ quux`)
	want := []string{"foo", "bar baz", "qux quux"}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("argv = %v, want %v", argv, want)
	}
	if final.InToken {
		t.Error("final state should be outside any token")
	}
}

// The double quotes are syntactic, not escaped literals, so they are
// stripped from output like any other quoted region — see DESIGN.md.
func TestTokenizeKeyEqualsQuotedValue(t *testing.T) {
	argv, offsets, _ := mustTokenize(t, `key="val ue"`)
	if len(argv) != 1 {
		t.Fatalf("argv = %v, want exactly one token", argv)
	}
	if argv[0] != "key=val ue" {
		t.Errorf("argv[0] = %q, want %q", argv[0], "key=val ue")
	}
	if offsets[0].EqualsColumn != 3 {
		t.Errorf("EqualsColumn = %d, want 3", offsets[0].EqualsColumn)
	}
}

// Unterminated double quote persists state, no error, and does not
// close the token.
func TestTokenizeUnterminatedQuote(t *testing.T) {
	// The first word closes normally on the space; only the quoted
	// second token is left open.
	argv, _, final := mustTokenize(t, `unterminated "abc`)
	if !reflect.DeepEqual(argv, []string{"unterminated"}) {
		t.Fatalf("argv = %v, want [unterminated]", argv)
	}
	if final.Quote != QuoteDouble {
		t.Errorf("final.Quote = %v, want QuoteDouble", final.Quote)
	}
	if !final.InToken {
		t.Error("final.InToken should be true: the second token is still open")
	}
}

func TestTokenizeResumeAcrossCalls(t *testing.T) {
	argv1, _, state1, errAt, err := Tokenize([]byte(`unterminated "abc`), Initial())
	if err != nil {
		t.Fatalf("first call: unexpected error at %d: %v", errAt, err)
	}
	if !reflect.DeepEqual(argv1, []string{"unterminated"}) {
		t.Fatalf("first call argv = %v, want [unterminated]", argv1)
	}

	argv2, _, state2, errAt, err := Tokenize([]byte(`def" next`), state1)
	if err != nil {
		t.Fatalf("second call: unexpected error at %d: %v", errAt, err)
	}
	want := []string{"abcdef", "next"}
	if !reflect.DeepEqual(argv2, want) {
		t.Fatalf("argv2 = %v, want %v", argv2, want)
	}
	if state2.InToken {
		t.Error("should be outside any token after 'next'")
	}
}

func TestSecondEqualsIsLiteral(t *testing.T) {
	argv, offsets, _ := mustTokenize(t, "a=b=c")
	if argv[0] != "a=b=c" {
		t.Fatalf("argv[0] = %q, want %q", argv[0], "a=b=c")
	}
	if offsets[0].EqualsColumn != 1 {
		t.Errorf("EqualsColumn = %d, want 1 (only the first '=')", offsets[0].EqualsColumn)
	}
}

func TestSingleQuoteHonorsNoEscapes(t *testing.T) {
	argv, _, _ := mustTokenize(t, `'a\nb'`)
	if argv[0] != `a\nb` {
		t.Fatalf("argv[0] = %q, want literal %q (no escape in single quotes)", argv[0], `a\nb`)
	}
}

func TestEscapeSequences(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`\n`, "\n"},
		{`\t`, "\t"},
		{`\\`, `\`},
		{`\101`, "A"},       // octal 101 = 'A'
		{`\x41`, "A"},       // hex 41 = 'A'
		{"\\u0041", "\x00A"},             // 16-bit codepoint 0x0041 emitted as two bytes, big-endian
		{"\\U00000041", "\x00\x00\x00A"}, // 32-bit codepoint emitted as four bytes, big-endian
		{`\cA`, "\x01"},     // control-A
		{`\c@`, "\x00"},     // control-@
	}
	for _, c := range cases {
		argv, _, _ := mustTokenize(t, c.src)
		if len(argv) != 1 || argv[0] != c.want {
			t.Errorf("Tokenize(%q) = %q, want %q", c.src, argv, c.want)
		}
	}
}

func TestBadEscapeIsSyntaxError(t *testing.T) {
	_, _, _, errAt, err := Tokenize([]byte(`\q`), Initial())
	if err == nil {
		t.Fatal("expected a syntax error for \\q")
	}
	if errAt != 1 {
		t.Errorf("errAt = %d, want 1 (the offending byte)", errAt)
	}
}

// Idempotence property: for ASCII input without quotes/escapes/'=',
// re-joining tokens with single spaces and re-tokenizing yields the
// same argv.
func TestTokenizerIdempotence(t *testing.T) {
	src := "show interface eth0 status"
	argv1, _, _ := mustTokenize(t, src)
	argv2, _, _ := mustTokenize(t, joinSpaces(argv1))
	if !reflect.DeepEqual(argv1, argv2) {
		t.Fatalf("not idempotent: %v != %v", argv1, argv2)
	}
}

func joinSpaces(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}
