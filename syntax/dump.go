package syntax

import (
	"fmt"
	"strconv"
	"strings"
)

// Dump returns a deterministic s-expression of the compiled tree.
//
//	a*(b|c)\1  =>  {(* 'a') (group 1 {'b'} {'c'}) \1}
func (p *Pattern) Dump() string {
	var b strings.Builder
	dumpSeq(&b, p.nodes)
	return b.String()
}

func dumpSeq(b *strings.Builder, nodes []Node) {
	b.WriteByte('{')
	for i := range nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		dumpNode(b, &nodes[i])
	}
	b.WriteByte('}')
}

func dumpNode(b *strings.Builder, n *Node) {
	switch n.Quant {
	case Exactly1:
		dumpAtom(b, n)
		return
	case ZeroOrOne, OneOrMore, ZeroOrMore:
		b.WriteByte('(')
		b.WriteString(n.Quant.String())
		b.WriteByte(' ')
		dumpAtom(b, n)
		b.WriteByte(')')
	default:
		b.WriteString("(repeat ")
		dumpAtom(b, n)
		b.WriteByte(' ')
		b.WriteString(n.Quant.String())
		b.WriteByte(')')
	}
}

func dumpAtom(b *strings.Builder, n *Node) {
	switch n.Op {
	case OpLiteral:
		if raw, ok := IsRawByte(n.Rune); ok {
			fmt.Fprintf(b, `'\x%02x'`, raw)
		} else {
			b.WriteString(strconv.QuoteRune(n.Rune))
		}
	case OpAnyChar:
		b.WriteByte('.')
	case OpCharClass:
		b.WriteString(n.Class.String())
	case OpStartAnchor:
		b.WriteByte('^')
	case OpEndAnchor:
		b.WriteByte('$')
	case OpGroup:
		b.WriteString("(group ")
		b.WriteString(strconv.Itoa(n.Group))
		for _, alt := range n.Alternatives {
			b.WriteByte(' ')
			dumpSeq(b, alt)
		}
		b.WriteByte(')')
	case OpBackreference:
		b.WriteByte('\\')
		b.WriteString(strconv.Itoa(n.Group))
	default:
		b.WriteString("<" + n.Op.String() + ">")
	}
}
