// Package token implements the byte-level tokenizer state machine that
// turns one line of shell-like input into argv, per-token byte offsets,
// and an exit state that can be resumed across an unterminated token.
package token

// EscapeState names where the escape sub-machine sits. It is exported so
// an interactive caller can persist it across an unterminated
// multi-line token.
type EscapeState int

const (
	EscapeNone       EscapeState = iota // ground state, no escape pending
	EscapeWasEscape                     // an escape sequence just completed; returns to EscapeNone on the next byte
	EscapeBackslash                     // saw '\', waiting to classify the next byte
	EscapeOctal2                        // consumed 1 of 3 octal digits, expect digit 2
	EscapeOctal3                        // consumed 2 of 3 octal digits, expect digit 3
	EscapeHex1                          // \x, expect hex digit 1
	EscapeHex2                          // \x, consumed digit 1, expect digit 2
	EscapeUTF16_1                       // \u, expect hex digit 1 of 4
	EscapeUTF16_2
	EscapeUTF16_3
	EscapeUTF16_4
	EscapeUTF32_1 // \U, expect hex digit 1 of 8
	EscapeUTF32_2
	EscapeUTF32_3
	EscapeUTF32_4
	EscapeUTF32_5
	EscapeUTF32_6
	EscapeUTF32_7
	EscapeUTF32_8
	EscapeControlSeq // \c, expect the control-selector byte
)

// QuoteState names which quoting region the scanner is in.
type QuoteState int

const (
	QuoteNone   QuoteState = iota // unquoted
	QuoteWas                      // a quote just closed; returns to QuoteNone on the next byte
	QuoteSingle                   // inside '...'
	QuoteDouble                   // inside "..."
)

// State is the tokenizer's persisted state: everything needed to resume
// scanning an unterminated token across input boundaries.
type State struct {
	Escape     EscapeState
	Quote      QuoteState
	InToken    bool // inside vs. outside a token
	EqualsSeen bool // an unquoted '=' has already been consumed in the current token

	// pending accumulates the partial numeric value of an in-progress
	// octal/hex/\u/\U escape across bytes, required to resume mid-escape;
	// it is meaningless whenever Escape == EscapeNone.
	pending uint32

	// builder holds the in-progress token's accumulated output when a
	// call to Tokenize ends mid-token (unterminated quote or escape).
	// See the tokenBuilder doc comment in tokenizer.go.
	builder *tokenBuilder
}

// Initial is the zero-value starting state: outside any token, no quote,
// no escape, equals not yet seen.
func Initial() State { return State{} }

// OffsetRecord is the per-token position record: the source byte range
// the token was read from, the output-byte column of its '=' (-1 if
// absent), and a per-output-byte map back to source bytes.
type OffsetRecord struct {
	Start        int   // source byte offset the token started at
	End          int   // source byte offset one past the token's last byte
	EqualsColumn int   // output-byte index of '=' within the token, or -1
	PerByte      []int // PerByte[i] = source byte index that produced output byte i
}
