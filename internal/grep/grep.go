// Package grep selects lines from files, directory trees and standard input
// with a regrep.Matcher and prints them in grep's output format.
package grep

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/coregx/regrep"
)

// Finder is a Matcher that can also locate matches, which -o and colour
// output need.
type Finder interface {
	regrep.Matcher
	FindAllStringIndex(s string, n int) [][]int
}

// FilenameMode controls the "name:" prefix on output lines.
type FilenameMode int

const (
	// FilenameAuto prefixes names when searching more than one file or a
	// directory tree.
	FilenameAuto FilenameMode = iota
	// FilenameAlways always prefixes names.
	FilenameAlways
	// FilenameNever never prefixes names.
	FilenameNever
)

// StdinName is the name reported for standard input.
const StdinName = "(standard input)"

// MaxLineSize is the longest line the searcher accepts.
const MaxLineSize = 1 << 20

// SGR sequences used to highlight matches.
const (
	colorStart = "\x1b[01;31m\x1b[K"
	colorEnd   = "\x1b[m\x1b[K"
)

// Options selects what is printed.
type Options struct {
	Invert       bool // select non-matching lines
	Count        bool // print per-file counts instead of lines
	LineNumber   bool // prefix lines with their 1-based number
	OnlyMatching bool // print only the matched parts of lines
	Quiet        bool // print nothing, stop at the first selected line
	Color        bool // highlight matches
	Recursive    bool // descend into directories
	Filename     FilenameMode
}

// Stats summarises a search.
type Stats struct {
	Files    int // inputs read
	Selected int // lines selected
	Errors   int // inputs that could not be read
}

// Searcher runs one matcher over many inputs. It is not safe for concurrent
// use; the Matcher it wraps is.
type Searcher struct {
	m    Finder
	opts Options
	log  *slog.Logger
}

// New returns a Searcher. A nil logger discards diagnostics.
func New(m Finder, opts Options, log *slog.Logger) *Searcher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Searcher{m: m, opts: opts, log: log}
}

// Search reads every path (or stdin when paths is empty or a path is "-")
// and writes selected lines to w. Unreadable inputs are logged and counted
// in Stats.Errors; the search carries on with the next one. The returned
// error is reserved for cancellation and write failures.
func (s *Searcher) Search(ctx context.Context, paths []string, stdin io.Reader, w io.Writer) (Stats, error) {
	var st Stats
	withName := s.opts.Filename == FilenameAlways ||
		(s.opts.Filename == FilenameAuto && (s.opts.Recursive || len(paths) > 1))

	if len(paths) == 0 {
		paths = []string{"-"}
	}
	for _, p := range paths {
		if s.done(st) {
			break
		}
		if p == "-" {
			if err := s.searchOne(ctx, StdinName, stdin, w, withName, &st); err != nil {
				return st, err
			}
			continue
		}
		if err := s.searchPath(ctx, p, w, withName, &st); err != nil {
			return st, err
		}
	}
	return st, nil
}

// done reports whether quiet mode has already found what it needs.
func (s *Searcher) done(st Stats) bool {
	return s.opts.Quiet && st.Selected > 0
}

func (s *Searcher) searchPath(ctx context.Context, root string, w io.Writer, withName bool, st *Stats) error {
	info, err := os.Stat(root)
	if err != nil {
		s.log.Error("cannot read input", "path", root, "error", err)
		st.Errors++
		return nil
	}
	if !info.IsDir() {
		return s.searchFile(ctx, root, w, withName, st)
	}
	if !s.opts.Recursive {
		s.log.Error("is a directory", "path", root)
		st.Errors++
		return nil
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.log.Error("cannot walk", "path", path, "error", err)
			st.Errors++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if s.done(*st) {
			return fs.SkipAll
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return s.searchFile(ctx, path, w, withName, st)
	})
}

func (s *Searcher) searchFile(ctx context.Context, path string, w io.Writer, withName bool, st *Stats) error {
	f, err := os.Open(path)
	if err != nil {
		s.log.Error("cannot open file", "path", path, "error", err)
		st.Errors++
		return nil
	}
	defer f.Close()
	return s.searchOne(ctx, path, f, w, withName, st)
}

func (s *Searcher) searchOne(ctx context.Context, name string, r io.Reader, w io.Writer, withName bool, st *Stats) error {
	s.log.Debug("searching", "input", name)
	st.Files++
	n, err := s.SearchReader(ctx, name, r, w, withName)
	st.Selected += n
	if err == nil {
		return nil
	}
	var readErr *ReadError
	if errors.As(err, &readErr) {
		s.log.Error("read failed", "input", name, "error", readErr.Err)
		st.Errors++
		return nil
	}
	return err
}

// ReadError reports a failure reading an input, as opposed to writing
// output.
type ReadError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ReadError) Unwrap() error {
	return e.Err
}

// scanLines splits on \n only. Unlike bufio.ScanLines it keeps a trailing
// \r, so CRLF lines are matched and printed unchanged.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// SearchReader scans r line by line and writes the selected lines to w,
// prefixed with name when withName is set. It returns the number of selected
// lines. Read failures are returned as *ReadError.
func (s *Searcher) SearchReader(ctx context.Context, name string, r io.Reader, w io.Writer, withName bool) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	sc.Split(scanLines)

	selected := 0
	for lineno := 1; sc.Scan(); lineno++ {
		if err := ctx.Err(); err != nil {
			return selected, err
		}
		line := sc.Text()
		if s.m.MatchString(line) == s.opts.Invert {
			continue
		}
		selected++
		if s.opts.Quiet {
			return selected, nil
		}
		if s.opts.Count {
			continue
		}
		if err := s.writeLine(w, name, withName, lineno, line); err != nil {
			return selected, err
		}
	}
	if err := sc.Err(); err != nil {
		return selected, &ReadError{Name: name, Err: err}
	}

	if s.opts.Count && !s.opts.Quiet {
		var err error
		if withName {
			_, err = fmt.Fprintf(w, "%s:%d\n", name, selected)
		} else {
			_, err = fmt.Fprintf(w, "%d\n", selected)
		}
		if err != nil {
			return selected, err
		}
	}
	return selected, nil
}

func (s *Searcher) writeLine(w io.Writer, name string, withName bool, lineno int, line string) error {
	var prefix []byte
	if withName {
		prefix = append(prefix, name...)
		prefix = append(prefix, ':')
	}
	if s.opts.LineNumber {
		prefix = strconv.AppendInt(prefix, int64(lineno), 10)
		prefix = append(prefix, ':')
	}

	if s.opts.OnlyMatching {
		if s.opts.Invert {
			return nil
		}
		for _, loc := range s.m.FindAllStringIndex(line, -1) {
			if loc[0] == loc[1] {
				continue
			}
			out := append([]byte(nil), prefix...)
			out = s.appendMatch(out, line[loc[0]:loc[1]])
			out = append(out, '\n')
			if _, err := w.Write(out); err != nil {
				return err
			}
		}
		return nil
	}

	out := prefix
	if s.opts.Color && !s.opts.Invert {
		last := 0
		for _, loc := range s.m.FindAllStringIndex(line, -1) {
			if loc[0] == loc[1] {
				continue
			}
			out = append(out, line[last:loc[0]]...)
			out = s.appendMatch(out, line[loc[0]:loc[1]])
			last = loc[1]
		}
		out = append(out, line[last:]...)
	} else {
		out = append(out, line...)
	}
	out = append(out, '\n')
	_, err := w.Write(out)
	return err
}

func (s *Searcher) appendMatch(out []byte, text string) []byte {
	if !s.opts.Color {
		return append(out, text...)
	}
	out = append(out, colorStart...)
	out = append(out, text...)
	return append(out, colorEnd...)
}
