// Command regrep prints lines that match a regular expression.
//
//	regrep [flags] [-E] PATTERN [PATH...]
//	regrep [flags] -e PATTERN [-e PATTERN...] [PATH...]
//
// With no PATH, or a PATH of "-", standard input is searched. The exit
// status is 0 if any line was selected, 1 if none was, and 2 on error.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/coregx/regrep"
	"github.com/coregx/regrep/internal/grep"
	"github.com/coregx/regrep/internal/logging"
	"github.com/coregx/regrep/internal/term"
	"github.com/coregx/regrep/literal"
)

const version = "0.1.0"

// Exit statuses.
const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

var errNoPattern = errors.New("no pattern given")

// CLI defines the command-line interface for regrep.
type CLI struct {
	Extended bool     `short:"E" name:"extended-regexp" help:"Interpret patterns as extended regular expressions (the default and only regex syntax)."`
	Fixed    bool     `short:"F" name:"fixed-strings" help:"Interpret patterns as fixed strings."`
	Regexp   []string `short:"e" name:"regexp" placeholder:"PATTERN" help:"Use PATTERN for matching. May be repeated."`

	Recursive    bool `short:"r" name:"recursive" help:"Search directories recursively."`
	Invert       bool `short:"v" name:"invert-match" help:"Select non-matching lines."`
	Count        bool `short:"c" name:"count" help:"Print only a count of selected lines per input."`
	LineNumber   bool `short:"n" name:"line-number" help:"Prefix each line with its line number."`
	OnlyMatching bool `short:"o" name:"only-matching" help:"Print only the matched parts of lines."`
	Quiet        bool `short:"q" name:"quiet" help:"Print nothing; exit on the first match."`
	WithFilename bool `short:"H" name:"with-filename" help:"Print the file name for each match." xor:"filename"`
	NoFilename   bool `name:"no-filename" help:"Never print file names." xor:"filename"`

	Color     string `name:"color" enum:"auto,always,never" default:"auto" env:"REGREP_COLOR" help:"Highlight matches (${enum})."`
	LogLevel  string `name:"log-level" enum:"debug,info,warn,error" default:"warn" env:"REGREP_LOG_LEVEL" help:"Diagnostic log level (${enum})."`
	LogFormat string `name:"log-format" enum:"text,json" default:"text" env:"REGREP_LOG_FORMAT" help:"Diagnostic log format (${enum})."`

	DebugPattern bool             `name:"debug-pattern" help:"Print the compiled pattern tree to stderr."`
	Version      kong.VersionFlag `name:"version" help:"Print version information."`

	Args []string `arg:"" optional:"" name:"args" help:"PATTERN (unless -e is given) followed by files or directories."`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Exit)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns its exit status. exit is called
// by the argument parser after --help and --version.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, exit func(int)) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("regrep"),
		kong.Description("Print lines that match a regular expression."),
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
		kong.Vars{"version": version},
	)
	if err != nil {
		fmt.Fprintf(stderr, "regrep: %v\n", err)
		return exitError
	}
	if _, err := parser.Parse(args); err != nil {
		fmt.Fprintf(stderr, "regrep: %v\nTry 'regrep --help' for more information.\n", err)
		return exitError
	}

	level, err := logging.ParseLevel(cli.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "regrep: %v\n", err)
		return exitError
	}
	format, err := logging.ParseFormat(cli.LogFormat)
	if err != nil {
		fmt.Fprintf(stderr, "regrep: %v\n", err)
		return exitError
	}
	logging.InitLogger(level, format, stderr)

	patterns, paths, err := cli.split()
	if err != nil {
		logging.Error("usage", "error", err)
		return exitError
	}

	m, err := cli.matcher(patterns, stderr)
	if err != nil {
		logging.Error("invalid pattern", "error", err)
		return exitError
	}

	out := bufio.NewWriter(stdout)
	s := grep.New(m, cli.options(stdout), logging.GetLogger())
	st, err := s.Search(ctx, paths, stdin, out)
	if ferr := out.Flush(); err == nil {
		err = ferr
	}
	logging.Info("search finished", "files", st.Files, "selected", st.Selected, "errors", st.Errors)
	if err != nil {
		logging.Error("search failed", "error", err)
		return exitError
	}

	switch {
	case cli.Quiet && st.Selected > 0:
		return exitMatch
	case st.Errors > 0:
		return exitError
	case st.Selected > 0:
		return exitMatch
	default:
		return exitNoMatch
	}
}

// split separates patterns from paths in the positional arguments.
func (c *CLI) split() (patterns, paths []string, err error) {
	if len(c.Regexp) > 0 {
		return c.Regexp, c.Args, nil
	}
	if len(c.Args) == 0 {
		return nil, nil, errNoPattern
	}
	return c.Args[:1], c.Args[1:], nil
}

func (c *CLI) matcher(patterns []string, stderr io.Writer) (grep.Finder, error) {
	if c.Fixed {
		set, err := literal.New(patterns...)
		if err != nil {
			return nil, err
		}
		return set, nil
	}

	var res grep.AnyOf
	for _, p := range patterns {
		re, err := regrep.Compile(p)
		if err != nil {
			return nil, err
		}
		tree := re.Syntax().Dump()
		logging.Debug("compiled pattern", "pattern", p, "tree", tree)
		if c.DebugPattern {
			fmt.Fprintf(stderr, "%s\t%s\n", p, tree)
		}
		res = append(res, re)
	}
	if len(res) == 1 {
		return res[0], nil
	}
	return res, nil
}

func (c *CLI) options(stdout io.Writer) grep.Options {
	opts := grep.Options{
		Invert:       c.Invert,
		Count:        c.Count,
		LineNumber:   c.LineNumber,
		OnlyMatching: c.OnlyMatching,
		Quiet:        c.Quiet,
		Recursive:    c.Recursive,
	}
	switch {
	case c.WithFilename:
		opts.Filename = grep.FilenameAlways
	case c.NoFilename:
		opts.Filename = grep.FilenameNever
	}
	switch c.Color {
	case "always":
		opts.Color = true
	case "auto":
		f, ok := stdout.(*os.File)
		opts.Color = ok && term.IsTerminal(f)
	}
	return opts
}
