// Package syntax compiles regular-expression pattern strings into a tree of
// typed match nodes.
//
// The tree is a closed sum type: every Node carries an Op selecting which of
// its fields are meaningful. Matchers switch on Op exhaustively instead of
// dispatching through interfaces.
//
// Supported syntax:
//
//	c         literal character
//	.         any character
//	[abc]     character class, ranges allowed: [a-z0-9]
//	[^abc]    negated character class
//	\d \w \s  ASCII digit, word and space classes (\D \W \S negate them)
//	^ $       start and end of text
//	(re)      capturing group, alternatives separated by |
//	\1 .. \9  backreference to an earlier group
//	x* x+ x?  greedy repetition
//	x{n} x{n,} x{n,m}
package syntax

import "fmt"

// Op identifies the variant of a Node.
type Op uint8

const (
	// OpLiteral matches Node.Rune exactly.
	OpLiteral Op = iota + 1
	// OpAnyChar matches any single character.
	OpAnyChar
	// OpCharClass matches one character that is a member of Node.Class.
	OpCharClass
	// OpStartAnchor matches the empty string at the start of text.
	OpStartAnchor
	// OpEndAnchor matches the empty string at the end of text.
	OpEndAnchor
	// OpGroup matches one of Node.Alternatives and captures the matched
	// text under Node.Group.
	OpGroup
	// OpBackreference matches the text most recently captured by group
	// Node.Group.
	OpBackreference
)

var opNames = [...]string{
	OpLiteral:       "Literal",
	OpAnyChar:       "AnyChar",
	OpCharClass:     "CharClass",
	OpStartAnchor:   "StartAnchor",
	OpEndAnchor:     "EndAnchor",
	OpGroup:         "Group",
	OpBackreference: "Backreference",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", op)
}

// Unbounded is the Quantifier.Max value for repetitions without an upper
// limit.
const Unbounded = -1

// MaxRepeat is the largest count accepted in {n,m} repetitions.
const MaxRepeat = 1000

// Quantifier bounds how many consecutive times a node must match.
// All quantifiers are greedy.
type Quantifier struct {
	Min int
	Max int // Unbounded for no limit
}

// Standard quantifiers.
var (
	Exactly1   = Quantifier{Min: 1, Max: 1}
	ZeroOrOne  = Quantifier{Min: 0, Max: 1}         // ?
	OneOrMore  = Quantifier{Min: 1, Max: Unbounded} // +
	ZeroOrMore = Quantifier{Min: 0, Max: Unbounded} // *
)

// String returns the pattern suffix that produces q.
func (q Quantifier) String() string {
	switch q {
	case Exactly1:
		return ""
	case ZeroOrOne:
		return "?"
	case OneOrMore:
		return "+"
	case ZeroOrMore:
		return "*"
	}
	switch {
	case q.Max == Unbounded:
		return fmt.Sprintf("{%d,}", q.Min)
	case q.Min == q.Max:
		return fmt.Sprintf("{%d}", q.Min)
	default:
		return fmt.Sprintf("{%d,%d}", q.Min, q.Max)
	}
}

// Node is one compiled unit of a pattern.
type Node struct {
	Op    Op
	Quant Quantifier

	// Rune is the character matched by OpLiteral.
	Rune rune

	// Class is the set matched by OpCharClass.
	Class *CharClass

	// Group is the capture id of an OpGroup, or the id referenced by an
	// OpBackreference.
	Group int

	// Alternatives of an OpGroup, tried in order. Never empty for a group;
	// an individual alternative may be empty.
	Alternatives [][]Node
}

// SingleChar reports whether n always consumes exactly one character when it
// matches.
func (n *Node) SingleChar() bool {
	switch n.Op {
	case OpLiteral, OpAnyChar, OpCharClass:
		return true
	}
	return false
}

// Pattern is a compiled pattern. It is immutable and safe for concurrent use.
type Pattern struct {
	source    string
	nodes     []Node
	numGroups int
	anchored  bool
}

// String returns the source text of the pattern.
func (p *Pattern) String() string { return p.source }

// Nodes returns the root node sequence. The result must not be modified.
func (p *Pattern) Nodes() []Node { return p.nodes }

// NumGroups returns the number of capturing groups written in the pattern.
// The implicit group 0 created for top-level alternation is not counted.
func (p *Pattern) NumGroups() int { return p.numGroups }

// Anchored reports whether every match must start at position 0.
func (p *Pattern) Anchored() bool { return p.anchored }

func isAnchored(nodes []Node) bool {
	if len(nodes) == 0 {
		return false
	}
	first := nodes[0]
	switch first.Op {
	case OpStartAnchor:
		return true
	case OpGroup:
		if first.Quant != Exactly1 {
			return false
		}
		for _, alt := range first.Alternatives {
			if !isAnchored(alt) {
				return false
			}
		}
		return true
	}
	return false
}
