package token

import (
	"github.com/ncsh/ncsh/internal/ncshlog"
	"github.com/ncsh/ncsh/internal/shellerr"
)

// tokenBuilder accumulates the in-progress token's output bytes and the
// per-output-byte map back to source positions. It is carried inside
// State (unexported) so an unterminated token can resume across calls
// to Tokenize, persisting across an unterminated token for multi-line
// input. The named fields (Escape/Quote/InToken/EqualsSeen) describe
// the state machine's *mode*, not its accumulated output, so this
// buffer is a necessary addition alongside them.
type tokenBuilder struct {
	start        int
	output       []byte
	perByte      []int
	equalsColumn int
	escapeStart  int // source index of the '\' that opened the current escape
}

// Tokenize turns data into argv, one OffsetRecord per token, and the
// state the scanner ended in. If the input contains a byte the escape
// grammar cannot interpret, err is a *shellerr.Error of KindSyntax and
// errByteIndex names the offending source byte; no token buffer
// allocation happens beyond what was already produced for prior tokens
// in this call.
func Tokenize(data []byte, initial State) (argv []string, offsets []OffsetRecord, final State, errByteIndex int, err error) {
	log := ncshlog.For("tokenizer")
	st := initial
	tb := &tokenBuilder{equalsColumn: -1}
	if st.InToken && st.builder != nil {
		tb = st.builder
	}

	emit := func(i int, bs ...byte) {
		for _, b := range bs {
			tb.output = append(tb.output, b)
			tb.perByte = append(tb.perByte, i)
		}
	}

	startToken := func(i int) {
		if !st.InToken {
			st.InToken = true
			st.EqualsSeen = false
			tb = &tokenBuilder{start: i, equalsColumn: -1}
		}
	}

	endToken := func(i int) {
		if st.InToken {
			argv = append(argv, string(tb.output))
			offsets = append(offsets, OffsetRecord{
				Start:        tb.start,
				End:          i,
				EqualsColumn: tb.equalsColumn,
				PerByte:      tb.perByte,
			})
			st.InToken = false
			st.Quote = QuoteNone
			st.builder = nil
			tb = &tokenBuilder{equalsColumn: -1}
		}
	}

	fail := func(i int, reason string) (int, *shellerr.Error) {
		log.WithField("byte", i).Debug("syntax error: " + reason)
		return i, shellerr.Syntax(i, reason)
	}

	for i := 0; i < len(data); i++ {
		b := data[i]

		// Transient "just closed/completed" markers normalize on the
		// very next byte, before that byte is otherwise interpreted.
		if st.Quote == QuoteWas {
			st.Quote = QuoteNone
		}
		if st.Escape == EscapeWasEscape {
			st.Escape = EscapeNone
		}

		if st.Escape != EscapeNone {
			code, serr := stepEscape(&st, tb, i, b)
			if serr != nil {
				return nil, nil, State{}, code, serr
			}
			continue
		}

		switch st.Quote {
		case QuoteSingle:
			if b == '\'' {
				st.Quote = QuoteWas
			} else {
				emit(i, b)
			}
			continue
		case QuoteDouble:
			switch b {
			case '"':
				st.Quote = QuoteWas
			case '\\':
				st.Escape = EscapeBackslash
				tb.escapeStart = i
			default:
				emit(i, b)
			}
			continue
		}

		// Unquoted, no escape pending.
		switch {
		case isTokenWhitespace(b):
			if st.InToken {
				endToken(i)
			}
		case b == '\'':
			startToken(i)
			st.Quote = QuoteSingle
		case b == '"':
			startToken(i)
			st.Quote = QuoteDouble
		case b == '\\':
			startToken(i)
			st.Escape = EscapeBackslash
			tb.escapeStart = i
		case b == '=' && !st.EqualsSeen:
			startToken(i)
			st.EqualsSeen = true
			tb.equalsColumn = len(tb.output)
			emit(i, b)
		default:
			startToken(i)
			emit(i, b)
		}
	}

	// A quote or escape that closed on the very last byte leaves a
	// transient "just closed" marker with no following byte left to
	// normalize it; treat those the same as the ground state here.
	quoteClosed := st.Quote == QuoteNone || st.Quote == QuoteWas
	escapeClosed := st.Escape == EscapeNone || st.Escape == EscapeWasEscape

	if st.InToken {
		if quoteClosed && escapeClosed {
			// A plain token simply ran out of input without trailing
			// whitespace (e.g. "foo" at end of line) — it is complete.
			st.Quote = QuoteNone
			st.Escape = EscapeNone
			endToken(len(data))
		} else {
			// Mid-quote or mid-escape: the token is not finished.
			// Persist its accumulated output so the next call to
			// Tokenize (fed the continuation line) can resume it.
			st.builder = tb
		}
	}

	return argv, offsets, st, -1, nil
}

// stepEscape advances the escape sub-machine by one byte. It returns a
// non-nil error exactly when b cannot legally continue the current
// escape sequence.
func stepEscape(st *State, tb *tokenBuilder, i int, b byte) (int, *shellerr.Error) {
	switch st.Escape {
	case EscapeBackslash:
		if out, ok := simpleEscape[b]; ok {
			tb.output = append(tb.output, out)
			tb.perByte = append(tb.perByte, tb.escapeStart)
			st.Escape = EscapeWasEscape
			return 0, nil
		}
		switch {
		case isOctalFirstDigit(b):
			st.pending = uint32(b - '0')
			st.Escape = EscapeOctal2
		case b == 'x':
			st.pending = 0
			st.Escape = EscapeHex1
		case b == 'u':
			st.pending = 0
			st.Escape = EscapeUTF16_1
		case b == 'U':
			st.pending = 0
			st.Escape = EscapeUTF32_1
		case b == 'c':
			st.Escape = EscapeControlSeq
		default:
			return i, shellerr.Syntax(i, "unrecognized escape sequence")
		}
		return 0, nil

	case EscapeOctal2, EscapeOctal3:
		if !isOctalDigit(b) {
			return i, shellerr.Syntax(i, "incomplete octal escape")
		}
		st.pending = st.pending*8 + uint32(b-'0')
		if st.Escape == EscapeOctal2 {
			st.Escape = EscapeOctal3
			return 0, nil
		}
		tb.output = append(tb.output, byte(st.pending))
		tb.perByte = append(tb.perByte, tb.escapeStart)
		st.Escape = EscapeWasEscape
		return 0, nil

	case EscapeHex1, EscapeHex2:
		if !isHexDigit(b) {
			return i, shellerr.Syntax(i, "incomplete hex escape")
		}
		st.pending = st.pending*16 + hexValue(b)
		if st.Escape == EscapeHex1 {
			st.Escape = EscapeHex2
			return 0, nil
		}
		tb.output = append(tb.output, byte(st.pending))
		tb.perByte = append(tb.perByte, tb.escapeStart)
		st.Escape = EscapeWasEscape
		return 0, nil

	case EscapeUTF16_1, EscapeUTF16_2, EscapeUTF16_3, EscapeUTF16_4:
		if !isHexDigit(b) {
			return i, shellerr.Syntax(i, "incomplete \\u escape")
		}
		st.pending = st.pending*16 + hexValue(b)
		if st.Escape != EscapeUTF16_4 {
			st.Escape++
			return 0, nil
		}
		bs := utf16Bytes(st.pending)
		tb.output = append(tb.output, bs[0], bs[1])
		tb.perByte = append(tb.perByte, tb.escapeStart, tb.escapeStart)
		st.Escape = EscapeWasEscape
		return 0, nil

	case EscapeUTF32_1, EscapeUTF32_2, EscapeUTF32_3, EscapeUTF32_4,
		EscapeUTF32_5, EscapeUTF32_6, EscapeUTF32_7, EscapeUTF32_8:
		if !isHexDigit(b) {
			return i, shellerr.Syntax(i, "incomplete \\U escape")
		}
		st.pending = st.pending*16 + hexValue(b)
		if st.Escape != EscapeUTF32_8 {
			st.Escape++
			return 0, nil
		}
		bs := utf32Bytes(st.pending)
		tb.output = append(tb.output, bs[0], bs[1], bs[2], bs[3])
		tb.perByte = append(tb.perByte, tb.escapeStart, tb.escapeStart, tb.escapeStart, tb.escapeStart)
		st.Escape = EscapeWasEscape
		return 0, nil

	case EscapeControlSeq:
		if !isControlSelector(b) {
			return i, shellerr.Syntax(i, "invalid control-character selector")
		}
		tb.output = append(tb.output, controlCharValue(b))
		tb.perByte = append(tb.perByte, tb.escapeStart)
		st.Escape = EscapeWasEscape
		return 0, nil
	}
	return i, shellerr.Syntax(i, "internal: unknown escape state")
}

func isTokenWhitespace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\f', '\n':
		return true
	default:
		return false
	}
}
