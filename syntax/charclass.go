package syntax

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Range is an inclusive range of characters.
type Range struct {
	Lo, Hi rune
}

// CharClass is a set of characters resolved at compile time. ASCII members
// live in a bitmap; anything above ASCII is kept as sorted, non-overlapping
// ranges.
type CharClass struct {
	ascii  [2]uint64
	ranges []Range

	// Negated inverts membership.
	Negated bool
}

// Predefined ASCII classes.
var (
	digitClass = newClass(Range{'0', '9'})
	wordClass  = newClass(Range{'0', '9'}, Range{'A', 'Z'}, Range{'_', '_'}, Range{'a', 'z'})
	spaceClass = newClass(Range{'\t', '\n'}, Range{'\f', '\r'}, Range{' ', ' '})
)

func newClass(rs ...Range) *CharClass {
	c := &CharClass{}
	for _, r := range rs {
		c.addRange(r.Lo, r.Hi)
	}
	c.normalize()
	return c
}

// Matches reports whether r is accepted by the class.
func (c *CharClass) Matches(r rune) bool {
	return c.contains(r) != c.Negated
}

func (c *CharClass) contains(r rune) bool {
	if r < 0 {
		return false
	}
	if r < utf8.RuneSelf {
		return c.ascii[r>>6]&(1<<(uint(r)&63)) != 0
	}
	i := sort.Search(len(c.ranges), func(i int) bool { return c.ranges[i].Hi >= r })
	return i < len(c.ranges) && c.ranges[i].Lo <= r
}

func (c *CharClass) addRune(r rune) {
	c.addRange(r, r)
}

func (c *CharClass) addRange(lo, hi rune) {
	for ; lo <= hi && lo < utf8.RuneSelf; lo++ {
		c.ascii[lo>>6] |= 1 << (uint(lo) & 63)
	}
	if lo <= hi {
		c.ranges = append(c.ranges, Range{lo, hi})
	}
}

// addClass merges the members of o into c. Negated classes contribute their
// complement.
func (c *CharClass) addClass(o *CharClass) {
	if !o.Negated {
		c.ascii[0] |= o.ascii[0]
		c.ascii[1] |= o.ascii[1]
		c.ranges = append(c.ranges, o.ranges...)
		return
	}
	c.ascii[0] |= ^o.ascii[0]
	c.ascii[1] |= ^o.ascii[1]
	next := rune(utf8.RuneSelf)
	for _, r := range o.ranges {
		if r.Lo > next {
			c.ranges = append(c.ranges, Range{next, r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= maxChar {
		c.ranges = append(c.ranges, Range{next, maxChar})
	}
}

// normalize sorts and merges the non-ASCII ranges.
func (c *CharClass) normalize() {
	if len(c.ranges) < 2 {
		return
	}
	sort.Slice(c.ranges, func(i, j int) bool { return c.ranges[i].Lo < c.ranges[j].Lo })
	out := c.ranges[:1]
	for _, r := range c.ranges[1:] {
		last := &out[len(out)-1]
		if r.Lo <= last.Hi+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	c.ranges = out
}

func (c *CharClass) negate() *CharClass {
	n := *c
	n.Negated = !c.Negated
	return &n
}

// Ranges returns the members of the class, ignoring Negated, as sorted
// inclusive ranges.
func (c *CharClass) Ranges() []Range {
	var out []Range
	for r := rune(0); r < utf8.RuneSelf; r++ {
		if !c.contains(r) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Hi == r-1 {
			out[n-1].Hi = r
		} else {
			out = append(out, Range{r, r})
		}
	}
	for _, r := range c.ranges {
		if n := len(out); n > 0 && out[n-1].Hi == r.Lo-1 {
			out[n-1].Hi = r.Hi
		} else {
			out = append(out, r)
		}
	}
	return out
}

// String renders the class in bracket syntax.
func (c *CharClass) String() string {
	var b strings.Builder
	b.WriteByte('[')
	if c.Negated {
		b.WriteByte('^')
	}
	for _, r := range c.Ranges() {
		switch {
		case r.Lo == r.Hi:
			writeClassRune(&b, r.Lo)
		case r.Lo+1 == r.Hi:
			writeClassRune(&b, r.Lo)
			writeClassRune(&b, r.Hi)
		default:
			writeClassRune(&b, r.Lo)
			b.WriteByte('-')
			writeClassRune(&b, r.Hi)
		}
	}
	b.WriteByte(']')
	return b.String()
}

func writeClassRune(sb *strings.Builder, r rune) {
	switch r {
	case '\\', ']', '[', '-', '^':
		sb.WriteByte('\\')
		sb.WriteRune(r)
	case '\t':
		sb.WriteString(`\t`)
	case '\n':
		sb.WriteString(`\n`)
	case '\f':
		sb.WriteString(`\f`)
	case '\r':
		sb.WriteString(`\r`)
	case '\v':
		sb.WriteString(`\v`)
	default:
		if b, ok := IsRawByte(r); ok {
			fmt.Fprintf(sb, `\x%02x`, b)
		} else if unicode.IsPrint(r) {
			sb.WriteRune(r)
		} else {
			fmt.Fprintf(sb, `\x{%x}`, r)
		}
	}
}
