package token

// simpleEscape maps a single byte following '\' directly to its output
// byte, for the fixed-width escapes: a b e f n r t v \ ' " ? and a
// literal space.
var simpleEscape = map[byte]byte{
	'a':  0x07,
	'b':  0x08,
	'e':  0x1B,
	'f':  0x0C,
	'n':  0x0A,
	'r':  0x0D,
	't':  0x09,
	'v':  0x0B,
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'?':  '?',
	' ':  ' ',
}

// isOctalFirstDigit reports whether b is a valid first digit ([0-3]) of
// an octal escape; isOctalDigit whether it is a valid subsequent digit
// ([0-7]).
func isOctalFirstDigit(b byte) bool { return b >= '0' && b <= '3' }
func isOctalDigit(b byte) bool      { return b >= '0' && b <= '7' }

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) uint32 {
	switch {
	case b >= '0' && b <= '9':
		return uint32(b - '0')
	case b >= 'a' && b <= 'f':
		return uint32(b-'a') + 10
	default:
		return uint32(b-'A') + 10
	}
}

// isControlSelector reports whether b is a legal \c selector character:
// @ A-Z [ \ ] ^ _, plus lowercase a-z
func isControlSelector(b byte) bool {
	switch {
	case b == '@', b == '[', b == '\\', b == ']', b == '^', b == '_':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true // accept lowercase, canonicalised below
	default:
		return false
	}
}

// controlCharValue implements \cX per the Open Question resolution in
// DESIGN.md: the standard ASCII/POSIX control mapping, X & 0x1F after
// upper-casing. A disagreeing 0x24-0x2F table seen elsewhere is treated
// as a bug and not reproduced here.
func controlCharValue(x byte) byte {
	if x >= 'a' && x <= 'z' {
		x -= 'a' - 'A'
	}
	return x & 0x1F
}

// utf16Bytes splits a 16-bit codepoint into its two emitted bytes,
// big-endian.
func utf16Bytes(v uint32) [2]byte {
	return [2]byte{byte(v >> 8), byte(v)}
}

// utf32Bytes splits a 32-bit codepoint into its four emitted bytes,
// big-endian.
func utf32Bytes(v uint32) [4]byte {
	return [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}
