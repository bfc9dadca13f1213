package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Metacharacters lists the characters that have a special meaning outside a
// bracket expression. Each of them is matched literally when preceded by a
// backslash.
const Metacharacters = `\.+*?()|[]{}^$`

// IsMeta reports whether c must be escaped to match itself.
func IsMeta(c byte) bool {
	return strings.IndexByte(Metacharacters, c) >= 0
}

// RawByte is the character value given to a byte that is not part of a
// valid UTF-8 sequence. Such bytes decode to RawByte+b, above
// unicode.MaxRune, so they never equal a real character or each other.
const RawByte = unicode.MaxRune + 1

// maxChar is the largest value DecodeChar returns.
const maxChar = RawByte + 0xFF

// DecodeChar decodes the first character of s like utf8.DecodeRuneInString,
// except that an invalid byte b yields RawByte+b with width 1 rather than
// utf8.RuneError. An empty s yields (utf8.RuneError, 0).
func DecodeChar(s string) (rune, int) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 1 {
		return RawByte + rune(s[0]), 1
	}
	return r, size
}

// IsRawByte reports whether r stands for an invalid UTF-8 byte and returns
// that byte.
func IsRawByte(r rune) (byte, bool) {
	if r < RawByte || r > maxChar {
		return 0, false
	}
	return byte(r - RawByte), true
}
