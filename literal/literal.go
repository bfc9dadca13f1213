// Package literal matches lines against a set of fixed strings, the way
// grep -F does. All strings are searched in a single pass with an
// Aho-Corasick automaton.
package literal

import (
	"errors"
	"fmt"

	"github.com/coregx/ahocorasick"
)

// ErrNoPatterns is returned by New when called without patterns.
var ErrNoPatterns = errors.New("literal: no patterns")

// Set is a compiled set of fixed strings. It is safe for concurrent use.
type Set struct {
	patterns []string

	// auto is nil when every pattern is empty.
	auto *ahocorasick.Automaton

	// matchEmpty is set when one of the patterns is "", which occurs in
	// every line.
	matchEmpty bool
}

// New builds a Set from patterns. Duplicates are allowed.
func New(patterns ...string) (*Set, error) {
	if len(patterns) == 0 {
		return nil, ErrNoPatterns
	}
	s := &Set{patterns: append([]string(nil), patterns...)}

	builder := ahocorasick.NewBuilder()
	added := 0
	for _, p := range patterns {
		if p == "" {
			s.matchEmpty = true
			continue
		}
		builder.AddPattern([]byte(p))
		added++
	}
	if added == 0 {
		return s, nil
	}
	auto, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("literal: build automaton: %w", err)
	}
	s.auto = auto
	return s, nil
}

// Patterns returns a copy of the strings the set was built from.
func (s *Set) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Match reports whether b contains any of the patterns.
func (s *Set) Match(b []byte) bool {
	if s.matchEmpty {
		return true
	}
	return s.auto.IsMatch(b)
}

// MatchString reports whether str contains any of the patterns.
func (s *Set) MatchString(str string) bool {
	return s.Match([]byte(str))
}

// FindStringIndex returns the location of the leftmost occurrence of any
// pattern in str, or nil. An empty pattern yields an empty match at 0.
func (s *Set) FindStringIndex(str string) []int {
	if s.matchEmpty {
		return []int{0, 0}
	}
	m := s.auto.Find([]byte(str), 0)
	if m == nil {
		return nil
	}
	return []int{m.Start, m.End}
}

// FindAllStringIndex returns successive non-overlapping occurrences in str.
// If n > 0, at most n are returned.
func (s *Set) FindAllStringIndex(str string, n int) [][]int {
	if n == 0 || s.auto == nil {
		return nil
	}
	hay := []byte(str)
	var out [][]int
	for at := 0; at < len(hay); {
		m := s.auto.Find(hay, at)
		if m == nil {
			break
		}
		out = append(out, []int{m.Start, m.End})
		if n > 0 && len(out) >= n {
			break
		}
		at = m.End
	}
	return out
}
