//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package term

func isTerminal(fd uintptr) bool {
	return false
}
