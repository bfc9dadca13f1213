// Package regrep provides a small backtracking regular-expression engine with
// capturing groups and backreferences, and the pieces of a grep built on it.
//
// The API follows the standard library regexp package where the two
// overlap, so switching a caller over is mostly a matter of changing the
// import.
//
// Basic usage:
//
//	re, err := regrep.Compile(`(cat|dog) and \1`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	re.MatchString("cat and cat") // true
//	re.MatchString("cat and dog") // false
//
// Matching is unanchored: a pattern matches when it matches any substring,
// unless it begins with ^ or ends with $.
//
// Limitations:
//   - Character classes (\d, \w, \s) are ASCII-only
//   - Quantifiers are greedy only
//   - No step limit: nested unbounded quantifiers can take exponential time
package regrep

import (
	"strings"
	"unicode/utf8"

	"github.com/coregx/regrep/backtrack"
	"github.com/coregx/regrep/syntax"
)

// Matcher reports whether a line of text is selected. *Regex and
// *literal.Set implement it.
type Matcher interface {
	MatchString(s string) bool
}

// Regex represents a compiled regular expression.
//
// A Regex is immutable and safe to use concurrently from multiple goroutines.
type Regex struct {
	prog *syntax.Pattern
}

// Compile compiles a regular expression pattern.
//
// Returns a *syntax.PatternError if the pattern is invalid.
//
// Example:
//
//	re, err := regrep.Compile(`\d+-\d+`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// MustCompile compiles a regular expression pattern and panics if it fails.
//
// Example:
//
//	var wordPair = regrep.MustCompile(`(\w+) \1`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("regexp: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with custom limits.
//
// Example:
//
//	config := regrep.DefaultConfig()
//	config.MaxNestingDepth = 10
//	re, err := regrep.CompileWithConfig("((a))", config)
func CompileWithConfig(pattern string, config Config) (*Regex, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	prog, err := syntax.CompileWithOptions(pattern, config.options())
	if err != nil {
		return nil, err
	}
	return &Regex{prog: prog}, nil
}

// QuoteMeta puts a backslash before every byte of s listed in
// syntax.Metacharacters. The result compiles to a pattern that matches s
// literally, e.g. QuoteMeta("1+1=2?") is `1\+1=2\?`.
func QuoteMeta(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if syntax.IsMeta(s[i]) {
			if b.Len() == 0 {
				b.Grow(len(s) + len(s)/2)
				b.WriteString(s[:i])
			}
			b.WriteByte('\\')
			b.WriteByte(s[i])
		} else if b.Len() > 0 {
			b.WriteByte(s[i])
		}
	}
	if b.Len() == 0 {
		return s
	}
	return b.String()
}

// Match reports whether the byte slice b contains any match of the pattern.
func (r *Regex) Match(b []byte) bool {
	return r.MatchString(string(b))
}

// MatchString reports whether the string s contains any match of the pattern.
//
// Example:
//
//	re := regrep.MustCompile(`^abc`)
//	re.MatchString("abcxyz") // true
//	re.MatchString("xabc")   // false
func (r *Regex) MatchString(s string) bool {
	return backtrack.Match(r.prog, s)
}

// FindStringIndex returns a two-element slice of integers defining the
// location of the leftmost match in s. The match is at s[loc[0]:loc[1]].
// Returns nil if no match is found.
//
// Among matches starting at the same position, the one found first by the
// backtracking order wins (greedy quantifiers, alternatives left to right).
func (r *Regex) FindStringIndex(s string) []int {
	start, end, ok := backtrack.Find(r.prog, s)
	if !ok {
		return nil
	}
	return []int{start, end}
}

// FindAllStringIndex returns the locations of successive non-overlapping
// matches in s. If n > 0, it returns at most n matches. If n <= 0, it returns
// all matches. An empty match directly after the previous match is skipped,
// as in the standard library.
//
// Example:
//
//	re := regrep.MustCompile(`\d+`)
//	re.FindAllStringIndex("a1 b22", -1) // [[1 2] [4 6]]
func (r *Regex) FindAllStringIndex(s string, n int) [][]int {
	if n == 0 {
		return nil
	}

	var matches [][]int
	pos := 0
	prevEnd := -1
	for pos <= len(s) {
		start, end, ok := backtrack.FindAt(r.prog, s, pos)
		if !ok {
			break
		}
		if start == end && start == prevEnd {
			// Empty match abutting the previous one: advance one character.
			if start >= len(s) {
				break
			}
			_, size := utf8.DecodeRuneInString(s[start:])
			pos = start + size
			continue
		}
		matches = append(matches, []int{start, end})
		prevEnd = end

		if end > start {
			pos = end
		} else {
			if end >= len(s) {
				break
			}
			_, size := utf8.DecodeRuneInString(s[end:])
			pos = end + size
		}

		if n > 0 && len(matches) >= n {
			break
		}
	}
	return matches
}

// NumSubexp returns the number of parenthesized subexpressions in this Regex.
func (r *Regex) NumSubexp() int {
	return r.prog.NumGroups()
}

// String returns the source text used to compile the regular expression.
func (r *Regex) String() string {
	return r.prog.String()
}

// Syntax returns the compiled node tree.
func (r *Regex) Syntax() *syntax.Pattern {
	return r.prog
}
