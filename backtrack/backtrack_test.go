package backtrack

import (
	"strings"
	"testing"

	"github.com/coregx/regrep/syntax"
)

func mustCompile(t testing.TB, pattern string) *syntax.Pattern {
	t.Helper()
	p, err := syntax.Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q) error = %v", pattern, err)
	}
	return p
}

// TestFind tests match positions for leftmost-first search.
func TestFind(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		text       string
		ok         bool
		start, end int
	}{
		// literals
		{"literal", "abc", "xxabcxx", true, 2, 5},
		{"literal after partial", "abc", "abxabc_", true, 3, 6},
		{"literal no match", "abd", "abc", false, -1, -1},
		{"empty pattern", "", "abc", true, 0, 0},
		{"empty pattern empty text", "", "", true, 0, 0},
		{"empty text", "a", "", false, -1, -1},

		// anchors
		{"start anchor", "^abc", "abcxyz", true, 0, 3},
		{"start anchor fail", "^abc", "xabc", false, -1, -1},
		{"end anchor", "xyz$", "abcxyz", true, 3, 6},
		{"end anchor fail", "xyz$", "xyzabc", false, -1, -1},
		{"both anchors", "^abc$", "abc", true, 0, 3},
		{"both anchors longer", "^abc$", "abcc", false, -1, -1},
		{"empty line", "^$", "", true, 0, 0},
		{"empty line fail", "^$", "a", false, -1, -1},
		{"bare end", "$", "abc", true, 3, 3},
		{"anchor in one alternative", "^a|b", "cb", true, 1, 2},
		{"anchored group", "^(a|b)", "cb", false, -1, -1},
		{"anchor inside group", "(^a|b)c", "ac", true, 0, 2},
		{"end anchor inside group", "a(b$|c)", "abxac", true, 3, 5},

		// any character and classes
		{"dot", "a.c", "abc", true, 0, 3},
		{"dot multibyte", "a.c", "a世c", true, 0, 5},
		{"dot invalid byte", "a.c", "a\xffc", true, 0, 3},
		{"invalid byte literal", "\xff", "a\xfe\xff", true, 2, 3},
		{"invalid byte is not U+FFFD", "\xff", "\uFFFD", false, -1, -1},
		{"U+FFFD is not an invalid byte", "\uFFFD", "\x80\xef\xbf", false, -1, -1},
		{"negated class invalid byte", "[^a]", "a\xff", true, 1, 2},
		{"class excludes invalid byte", "[a-z]", "\xff", false, -1, -1},
		{"dot empty", ".", "", false, -1, -1},
		{"negated class", "[^abc]", "d", true, 0, 1},
		{"negated class fail", "[^abc]", "a", false, -1, -1},
		{"digits", `\d+`, "foo123", true, 3, 6},
		{"word", `\w+`, "--ab_9--", true, 2, 6},
		{"space", `a\sb`, "a\tb", true, 0, 3},
		{"range", "[a-c]+", "xxbcaz", true, 2, 5},
		{"unicode range", "[α-ω]+", "abγδe", true, 2, 6},
		{"empty class", "[]", "abc", false, -1, -1},
		{"any class", "[^]", "abc", true, 0, 1},

		// quantifiers
		{"star backtracks", "a*a", "aaa", true, 0, 3},
		{"plus backtracks", "a+ab", "aaab", true, 0, 4},
		{"optional", "colou?r", "color", true, 0, 5},
		{"optional present", "colou?r", "colour", true, 0, 6},
		{"star zero", "x*", "aaa", true, 0, 0},
		{"dot star", "a.*b", "a1b2b3", true, 0, 5},
		{"bounded", "a{2,3}", "aa", true, 0, 2},
		{"bounded short", "a{2,3}", "a", false, -1, -1},
		{"bounded greedy", "a{2,3}", "aaaa", true, 0, 3},
		{"exact anchored", "^a{2}$", "aaa", false, -1, -1},
		{"exact anchored ok", "^a{2}$", "aa", true, 0, 2},
		{"at least", "a{2,}", "aaaaa", true, 0, 5},
		{"group bounded", "(ab){2}", "ababab", true, 0, 4},
		{"group bounded short", "(ab){2}", "ab", false, -1, -1},
		{"group star", "(a{2})*", "aaaaa", true, 0, 4},

		// alternation
		{"alternation", "cat|dog", "hotdog", true, 3, 6},
		{"alternation order", "a|ab", "ab", true, 0, 1},
		{"alternation backtrack", "(a|ab)(c|bcd)(d*)", "abcd", true, 0, 4},
		{"empty alternative", "a(b|)c", "ac", true, 0, 2},

		// empty iterations
		{"nested star", "(a*)*b", "b", true, 0, 1},
		{"nested star run", "(a*)*b", "aaab", true, 0, 4},
		{"nested plus", "(a*)+", "b", true, 0, 0},
		{"empty branch star", "(|a)*b", "aab", true, 0, 3},
		{"nested plus fail", "(a+)+b", "aaaaaaaaaaaa", false, -1, -1},

		// backreferences
		{"backref", `(cat|dog) and \1`, "cat and cat", true, 0, 11},
		{"backref mismatch", `(cat|dog) and \1`, "cat and dog", false, -1, -1},
		{"backref in text", `(\w+) \1`, "say hello hello", true, 4, 15},
		{"backref repeat", `(a)\1{2}`, "aaa", true, 0, 3},
		{"backref repeat short", `(a)\1{2}`, "aa", false, -1, -1},
		{"backref empty capture", `(b*)a\1`, "a", true, 0, 1},
		{"backref nested", `((a)b)\2\1`, "abaab", true, 0, 5},
		{"backref unset", `(a)|b\1`, "b", false, -1, -1},
		{"backref unset other alternative", `(a)|b\1`, "ba", true, 1, 2},
		{"backref unset optional", `(a)?b\1`, "ab", false, -1, -1},
		{"backref optional", `(a)?b\1`, "aba", true, 0, 3},
		{"backref self", `(a\1)`, "aa", false, -1, -1},
		{"capture restored", `(a|ab)c\1`, "abca", false, -1, -1},
		{"capture second alternative", `(a|ab)c\1`, "abcab", true, 0, 5},
		{"last iteration wins", `(a|b)*c\1`, "abbcb", true, 0, 5},
		{"last iteration wins fail", `(a|b)*c\1`, "abbca", false, -1, -1},
		{"multiple groups", `(\d)(\d)-\2\1`, "x12-21", true, 1, 6},
		{"backref multibyte", `(é+)x\1`, "ééxéé", true, 0, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustCompile(t, tt.pattern)
			start, end, ok := Find(p, tt.text)
			if ok != tt.ok || start != tt.start || end != tt.end {
				t.Errorf("Find(%q, %q) = (%d, %d, %v), want (%d, %d, %v)",
					tt.pattern, tt.text, start, end, ok, tt.start, tt.end, tt.ok)
			}
			if got := Match(p, tt.text); got != tt.ok {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.text, got, tt.ok)
			}
		})
	}
}

func TestFindAt(t *testing.T) {
	tests := []struct {
		pattern    string
		text       string
		from       int
		ok         bool
		start, end int
	}{
		{"a", "aba", 1, true, 2, 3},
		{"a", "aba", 3, false, -1, -1},
		{"", "ab", 2, true, 2, 2},
		{"^a", "aa", 1, false, -1, -1},
		{"a$", "aa", 0, true, 1, 2},
		{"a", "a", 2, false, -1, -1},
		{"a", "a", -1, false, -1, -1},
		{`(a)b\1`, "abaXaba", 1, true, 4, 7},
	}
	for _, tt := range tests {
		p := mustCompile(t, tt.pattern)
		start, end, ok := FindAt(p, tt.text, tt.from)
		if ok != tt.ok || start != tt.start || end != tt.end {
			t.Errorf("FindAt(%q, %q, %d) = (%d, %d, %v), want (%d, %d, %v)",
				tt.pattern, tt.text, tt.from, start, end, ok, tt.start, tt.end, tt.ok)
		}
	}
}

// TestLiteralSubstring checks that a pattern without metacharacters matches
// exactly the texts that contain it. Bytes that are not valid UTF-8 only
// match the same byte.
func TestLiteralSubstring(t *testing.T) {
	literals := []string{
		"a", "ab", "abc", "ba", "hello", "lo w", "世界", "aaa",
		"\xff", "\uFFFD", "a\xfeb",
	}
	texts := []string{
		"", "a", "ab", "cab", "abcabc", "hello world", "say 世界", "aa", "baaab",
		"\xfe", "\xff", "\uFFFD", "\x80", "x\xffy", "a\xfeb", "a\uFFFDb", "a\xffb",
	}

	for _, lit := range literals {
		p := mustCompile(t, lit)
		for _, text := range texts {
			want := strings.Contains(text, lit)
			if got := Match(p, text); got != want {
				t.Errorf("Match(%q, %q) = %v, want %v", lit, text, got, want)
			}
		}
	}
}

// TestCompileTwice checks that two compilations of one pattern behave the
// same.
func TestCompileTwice(t *testing.T) {
	patterns := []string{`(cat|dog) and \1`, "^a+b?$", `[^x]{2,}`, "(a|b)*c"}
	texts := []string{"", "cat and cat", "dog and cat", "aab", "ab", "xyz", "xx", "abac", "c"}

	for _, pattern := range patterns {
		p1 := mustCompile(t, pattern)
		p2 := mustCompile(t, pattern)
		if p1.Dump() != p2.Dump() {
			t.Errorf("%q: trees differ: %s vs %s", pattern, p1.Dump(), p2.Dump())
		}
		for _, text := range texts {
			if Match(p1, text) != Match(p2, text) {
				t.Errorf("%q on %q: results differ", pattern, text)
			}
		}
	}
}

// TestLongInput checks that long runs do not blow up recursion.
func TestLongInput(t *testing.T) {
	text := strings.Repeat("a", 10000) + "b"
	for _, pattern := range []string{"a*b", ".*b$", "^[a]+b", "(a)*b"} {
		p := mustCompile(t, pattern)
		start, end, ok := Find(p, text)
		if !ok || start != 0 || end != len(text) {
			t.Errorf("Find(%q) = (%d, %d, %v), want (0, %d, true)", pattern, start, end, ok, len(text))
		}
	}
}

func BenchmarkMatch(b *testing.B) {
	benchmarks := []struct {
		name    string
		pattern string
		text    string
	}{
		{"literal", "needle", strings.Repeat("hay ", 256) + "needle"},
		{"class", `\d{3}-\d{4}`, strings.Repeat("call ", 64) + "555-1234"},
		{"backref", `(\w+) \1`, strings.Repeat("one two ", 32) + "three three"},
	}
	for _, bm := range benchmarks {
		p := mustCompile(b, bm.pattern)
		b.Run(bm.name, func(b *testing.B) {
			b.SetBytes(int64(len(bm.text)))
			for i := 0; i < b.N; i++ {
				if !Match(p, bm.text) {
					b.Fatal("no match")
				}
			}
		})
	}
}
