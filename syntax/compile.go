package syntax

import "unicode/utf8"

// Default compilation limits.
const (
	DefaultMaxNestingDepth = 1000
	DefaultMaxGroups       = 1000
)

// Options limits the shape of patterns accepted by CompileWithOptions.
// Zero fields take their defaults.
type Options struct {
	// MaxNestingDepth caps how deeply groups may nest.
	MaxNestingDepth int

	// MaxGroups caps the number of capturing groups.
	MaxGroups int
}

// DefaultOptions returns the limits used by Compile.
func DefaultOptions() Options {
	return Options{
		MaxNestingDepth: DefaultMaxNestingDepth,
		MaxGroups:       DefaultMaxGroups,
	}
}

// Compile parses pattern into a Pattern using DefaultOptions.
func Compile(pattern string) (*Pattern, error) {
	return CompileWithOptions(pattern, DefaultOptions())
}

// CompileWithOptions parses pattern into a Pattern. On failure it returns a
// *PatternError and no partial result.
func CompileWithOptions(pattern string, opts Options) (*Pattern, error) {
	if opts.MaxNestingDepth <= 0 {
		opts.MaxNestingDepth = DefaultMaxNestingDepth
	}
	if opts.MaxGroups <= 0 {
		opts.MaxGroups = DefaultMaxGroups
	}
	c := compiler{src: pattern, opts: opts}
	return c.compile()
}

// frame is an open group context. The bottom frame is the pattern itself.
type frame struct {
	id   int
	open int // offset of '('
	alts [][]Node
	seq  []Node

	// repeatable is set while the last node of seq may take a quantifier.
	repeatable bool
	// lastRepeat is the offset of the quantifier applied to the last node.
	lastRepeat int
}

type compiler struct {
	src    string
	pos    int
	opts   Options
	stack  []*frame
	groups int // group ids assigned so far
}

func (c *compiler) compile() (*Pattern, error) {
	c.stack = []*frame{{}}
	for c.pos < len(c.src) {
		start := c.pos
		r, size := DecodeChar(c.src[c.pos:])
		c.pos += size

		var err error
		switch r {
		case '(':
			err = c.openGroup(start)
		case ')':
			err = c.closeGroup(start)
		case '|':
			f := c.top()
			f.alts = append(f.alts, f.seq)
			f.seq = nil
			f.repeatable = false
		case '*':
			err = c.repeat(ZeroOrMore, start)
		case '+':
			err = c.repeat(OneOrMore, start)
		case '?':
			err = c.repeat(ZeroOrOne, start)
		case '{':
			if lo, hi, width, ok := parseRepeat(c.src[c.pos:]); ok {
				c.pos += width
				err = c.repeat(Quantifier{Min: lo, Max: hi}, start)
			} else {
				c.push(literal('{'))
			}
		case '^':
			if len(c.top().seq) > 0 {
				err = c.fail(ErrMisplacedAnchor, start, c.pos)
			} else {
				c.push(Node{Op: OpStartAnchor, Quant: Exactly1})
			}
		case '$':
			if !c.atAlternativeEnd() {
				err = c.fail(ErrMisplacedAnchor, start, c.pos)
			} else {
				c.push(Node{Op: OpEndAnchor, Quant: Exactly1})
			}
		case '.':
			c.push(Node{Op: OpAnyChar, Quant: Exactly1})
		case '[':
			var n Node
			if n, err = c.parseClass(start); err == nil {
				c.push(n)
			}
		case '\\':
			var n Node
			if n, err = c.parseEscape(start); err == nil {
				c.push(n)
			}
		default:
			c.push(literal(r))
		}
		if err != nil {
			return nil, err
		}
	}

	if len(c.stack) > 1 {
		return nil, c.fail(ErrMissingParen, c.top().open, len(c.src))
	}
	root := c.stack[0]
	nodes := root.seq
	if len(root.alts) > 0 {
		nodes = []Node{{
			Op:           OpGroup,
			Quant:        Exactly1,
			Group:        0,
			Alternatives: append(root.alts, root.seq),
		}}
	}
	return &Pattern{
		source:    c.src,
		nodes:     nodes,
		numGroups: c.groups,
		anchored:  isAnchored(nodes),
	}, nil
}

func (c *compiler) fail(err error, begin, end int) *PatternError {
	return &PatternError{
		Pattern: c.src,
		Offset:  begin,
		Expr:    c.src[begin:end],
		Err:     err,
	}
}

func (c *compiler) top() *frame {
	return c.stack[len(c.stack)-1]
}

func (c *compiler) push(n Node) {
	f := c.top()
	f.seq = append(f.seq, n)
	f.repeatable = n.Op != OpStartAnchor && n.Op != OpEndAnchor
}

func (c *compiler) atAlternativeEnd() bool {
	if c.pos >= len(c.src) {
		return true
	}
	switch c.src[c.pos] {
	case '|', ')':
		return true
	}
	return false
}

func (c *compiler) openGroup(start int) error {
	if len(c.stack) > c.opts.MaxNestingDepth {
		return c.fail(ErrNestingDepth, start, c.pos)
	}
	if c.groups >= c.opts.MaxGroups {
		return c.fail(ErrTooManyGroups, start, c.pos)
	}
	c.groups++
	c.stack = append(c.stack, &frame{id: c.groups, open: start})
	return nil
}

func (c *compiler) closeGroup(start int) error {
	if len(c.stack) == 1 {
		err := c.fail(ErrUnexpectedParen, 0, c.pos)
		err.Offset = start
		return err
	}
	f := c.top()
	c.stack = c.stack[:len(c.stack)-1]
	c.push(Node{
		Op:           OpGroup,
		Quant:        Exactly1,
		Group:        f.id,
		Alternatives: append(f.alts, f.seq),
	})
	return nil
}

// repeat applies q to the last node of the current sequence.
func (c *compiler) repeat(q Quantifier, start int) error {
	f := c.top()
	if len(f.seq) == 0 {
		return c.fail(ErrMissingRepeatArgument, start, c.pos)
	}
	if !f.repeatable {
		switch f.seq[len(f.seq)-1].Op {
		case OpStartAnchor, OpEndAnchor:
			return c.fail(ErrMissingRepeatArgument, start, c.pos)
		}
		return c.fail(ErrInvalidRepeatOp, f.lastRepeat, c.pos)
	}
	if q.Min > MaxRepeat || q.Max > MaxRepeat || (q.Max != Unbounded && q.Max < q.Min) {
		return c.fail(ErrInvalidRepeatSize, start, c.pos)
	}
	f.seq[len(f.seq)-1].Quant = q
	f.repeatable = false
	f.lastRepeat = start
	return nil
}

// parseRepeat parses the remainder of {n}, {n,} or {n,m} after the opening
// brace. ok is false when s does not spell a repetition, in which case the
// brace is a literal.
func parseRepeat(s string) (lo, hi, width int, ok bool) {
	lo, i := parseCount(s, 0)
	if lo < 0 {
		return 0, 0, 0, false
	}
	hi = lo
	if i < len(s) && s[i] == ',' {
		i++
		if i < len(s) && s[i] == '}' {
			hi = Unbounded
		} else if hi, i = parseCount(s, i); hi < 0 {
			return 0, 0, 0, false
		}
	}
	if i >= len(s) || s[i] != '}' {
		return 0, 0, 0, false
	}
	return lo, hi, i + 1, true
}

// parseCount reads decimal digits from s[i:]. Values above MaxRepeat are
// clamped to a value that still fails the size check.
func parseCount(s string, i int) (int, int) {
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		if n <= MaxRepeat {
			n = n*10 + int(s[i]-'0')
		}
		i++
	}
	if i == start {
		return -1, i
	}
	return n, i
}

func (c *compiler) parseEscape(start int) (Node, error) {
	if c.pos >= len(c.src) {
		return Node{}, c.fail(ErrTrailingBackslash, start, c.pos)
	}
	r, size := DecodeChar(c.src[c.pos:])
	c.pos += size

	if r >= '0' && r <= '9' {
		id := int(r - '0')
		if id == 0 || id > c.groups {
			return Node{}, c.fail(ErrInvalidBackref, start, c.pos)
		}
		return Node{Op: OpBackreference, Quant: Exactly1, Group: id}, nil
	}
	if cc := escapeClass(r); cc != nil {
		return Node{Op: OpCharClass, Quant: Exactly1, Class: cc}, nil
	}
	lit, ok := escapeLiteral(r)
	if !ok {
		return Node{}, c.fail(ErrInvalidEscape, start, c.pos)
	}
	return literal(lit), nil
}

func (c *compiler) parseClass(start int) (Node, error) {
	cc := &CharClass{}
	if c.pos < len(c.src) && c.src[c.pos] == '^' {
		cc.Negated = true
		c.pos++
	}
	for {
		if c.pos >= len(c.src) {
			return Node{}, c.fail(ErrMissingBracket, start, len(c.src))
		}
		if c.src[c.pos] == ']' {
			c.pos++
			break
		}
		itemStart := c.pos
		lo, class, err := c.classAtom(start)
		if err != nil {
			return Node{}, err
		}
		if class != nil {
			cc.addClass(class)
			continue
		}
		if c.pos+1 < len(c.src) && c.src[c.pos] == '-' && c.src[c.pos+1] != ']' {
			c.pos++
			hi, hiClass, err := c.classAtom(start)
			if err != nil {
				return Node{}, err
			}
			if hiClass != nil || hi < lo {
				return Node{}, c.fail(ErrInvalidCharRange, itemStart, c.pos)
			}
			cc.addRange(lo, hi)
			continue
		}
		cc.addRune(lo)
	}
	cc.normalize()
	return Node{Op: OpCharClass, Quant: Exactly1, Class: cc}, nil
}

// classAtom reads one member of a bracket expression: either a single
// character or an escaped predefined class.
func (c *compiler) classAtom(classStart int) (rune, *CharClass, error) {
	r, size := DecodeChar(c.src[c.pos:])
	c.pos += size
	if r != '\\' {
		return r, nil, nil
	}
	if c.pos >= len(c.src) {
		return 0, nil, c.fail(ErrMissingBracket, classStart, len(c.src))
	}
	escStart := c.pos - 1
	esc, size := DecodeChar(c.src[c.pos:])
	c.pos += size
	if cc := escapeClass(esc); cc != nil {
		return 0, cc, nil
	}
	if lit, ok := escapeLiteral(esc); ok {
		return lit, nil, nil
	}
	return 0, nil, c.fail(ErrInvalidEscape, escStart, c.pos)
}

func escapeClass(r rune) *CharClass {
	switch r {
	case 'd':
		return digitClass
	case 'D':
		return digitClass.negate()
	case 'w':
		return wordClass
	case 'W':
		return wordClass.negate()
	case 's':
		return spaceClass
	case 'S':
		return spaceClass.negate()
	}
	return nil
}

// escapeLiteral resolves \r to the character it stands for. Escaped
// metacharacters and other punctuation are themselves; other letters and
// digits are not valid escapes.
func escapeLiteral(r rune) (rune, bool) {
	if r < utf8.RuneSelf && IsMeta(byte(r)) {
		return r, true
	}
	switch r {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case 'f':
		return '\f', true
	case 'v':
		return '\v', true
	}
	if r < utf8.RuneSelf && isAlphanumeric(byte(r)) {
		return 0, false
	}
	return r, true
}

func isAlphanumeric(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

func literal(r rune) Node {
	return Node{Op: OpLiteral, Quant: Exactly1, Rune: r}
}
