// Package backtrack executes compiled patterns against text by recursive
// backtracking.
//
// Every node is matched with a continuation: the function that matches the
// rest of the enclosing sequence. A node succeeds only if its continuation
// succeeds, so quantifiers and alternatives can retry with fewer repetitions
// or the next branch when what follows them fails. Alternatives are tried in
// declaration order and quantifiers take the most repetitions first; the first
// complete match wins.
//
// Worst-case time is exponential in pattern nesting. There is no step limit.
package backtrack

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/coregx/regrep/syntax"
)

// Span is the byte range of text captured by a group. Start is -1 while the
// group is unset.
type Span struct {
	Start, End int
}

var unset = Span{Start: -1, End: -1}

// cont matches the remainder of a pattern from pos.
type cont func(pos int) bool

// matcher holds the state of one search. It is never shared between calls.
type matcher struct {
	text string
	caps []Span
}

// Match reports whether p matches text or any substring of it.
func Match(p *syntax.Pattern, text string) bool {
	_, _, ok := FindAt(p, text, 0)
	return ok
}

// Find returns the byte offsets of the leftmost match of p in text.
func Find(p *syntax.Pattern, text string) (start, end int, ok bool) {
	return FindAt(p, text, 0)
}

// FindAt is like Find but only tries start positions at or after from.
// Anchors still refer to the boundaries of the whole text.
func FindAt(p *syntax.Pattern, text string, from int) (start, end int, ok bool) {
	if from < 0 || from > len(text) {
		return -1, -1, false
	}
	m := &matcher{
		text: text,
		caps: make([]Span, p.NumGroups()+1),
	}
	nodes := p.Nodes()
	for pos := from; ; {
		m.reset()
		end := -1
		if m.matchSeq(nodes, 0, pos, func(e int) bool {
			end = e
			return true
		}) {
			return pos, end, true
		}
		if p.Anchored() || pos >= len(text) {
			break
		}
		_, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
	}
	return -1, -1, false
}

func (m *matcher) reset() {
	for i := range m.caps {
		m.caps[i] = unset
	}
}

// matchSeq matches nodes[i:] at pos and then k.
func (m *matcher) matchSeq(nodes []syntax.Node, i, pos int, k cont) bool {
	if i == len(nodes) {
		return k(pos)
	}
	n := &nodes[i]
	next := func(p int) bool {
		return m.matchSeq(nodes, i+1, p, k)
	}
	switch {
	case n.Quant == syntax.Exactly1:
		return m.matchOne(n, pos, next)
	case n.SingleChar():
		return m.repeatChar(n, pos, next)
	default:
		return m.repeat(n, 0, pos, next)
	}
}

// matchOne matches a single occurrence of n, ignoring its quantifier.
func (m *matcher) matchOne(n *syntax.Node, pos int, k cont) bool {
	switch n.Op {
	case syntax.OpLiteral, syntax.OpAnyChar, syntax.OpCharClass:
		if size := m.step(n, pos); size > 0 {
			return k(pos + size)
		}
		return false
	case syntax.OpStartAnchor:
		return pos == 0 && k(pos)
	case syntax.OpEndAnchor:
		return pos == len(m.text) && k(pos)
	case syntax.OpGroup:
		return m.matchGroup(n, pos, k)
	case syntax.OpBackreference:
		return m.matchBackref(n, pos, k)
	}
	panic(fmt.Sprintf("backtrack: unexpected op %v", n.Op))
}

// step returns the width of the character at pos if n accepts it, or 0.
func (m *matcher) step(n *syntax.Node, pos int) int {
	if pos >= len(m.text) {
		return 0
	}
	r, size := syntax.DecodeChar(m.text[pos:])
	switch n.Op {
	case syntax.OpLiteral:
		if r != n.Rune {
			return 0
		}
	case syntax.OpCharClass:
		if !n.Class.Matches(r) {
			return 0
		}
	}
	return size
}

// matchGroup tries each alternative in order. The capture is recorded when
// an alternative completes and rolled back if the continuation fails.
func (m *matcher) matchGroup(n *syntax.Node, pos int, k cont) bool {
	for _, alt := range n.Alternatives {
		matched := m.matchSeq(alt, 0, pos, func(end int) bool {
			saved := m.caps[n.Group]
			m.caps[n.Group] = Span{Start: pos, End: end}
			if k(end) {
				return true
			}
			m.caps[n.Group] = saved
			return false
		})
		if matched {
			return true
		}
	}
	return false
}

func (m *matcher) matchBackref(n *syntax.Node, pos int, k cont) bool {
	sp := m.caps[n.Group]
	if sp.Start < 0 {
		return false
	}
	captured := m.text[sp.Start:sp.End]
	if !strings.HasPrefix(m.text[pos:], captured) {
		return false
	}
	return k(pos + len(captured))
}

// repeatChar handles quantified single-character nodes: consume the longest
// run allowed, then give characters back one at a time until k succeeds or
// the run drops below the minimum.
func (m *matcher) repeatChar(n *syntax.Node, pos int, k cont) bool {
	q := n.Quant
	var stops []int // stops[i] is the position after i+1 repetitions
	end := pos
	for q.Max == syntax.Unbounded || len(stops) < q.Max {
		size := m.step(n, end)
		if size == 0 {
			break
		}
		end += size
		stops = append(stops, end)
	}
	for count := len(stops); count >= q.Min; count-- {
		at := pos
		if count > 0 {
			at = stops[count-1]
		}
		if k(at) {
			return true
		}
	}
	return false
}

// repeat handles quantified groups and backreferences, whose width varies.
// It recurses one repetition at a time, trying another repetition before
// handing over to k. Once the minimum is met, a repetition that consumes
// nothing ends the loop.
func (m *matcher) repeat(n *syntax.Node, count, pos int, k cont) bool {
	q := n.Quant
	if q.Max == syntax.Unbounded || count < q.Max {
		more := m.matchOne(n, pos, func(next int) bool {
			if next == pos && count >= q.Min {
				return false
			}
			return m.repeat(n, count+1, next, k)
		})
		if more {
			return true
		}
	}
	return count >= q.Min && k(pos)
}
