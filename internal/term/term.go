// Package term reports whether output goes to a terminal, which decides
// whether --color=auto highlights matches.
package term

import "os"

// IsTerminal reports whether f refers to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isTerminal(f.Fd())
}
