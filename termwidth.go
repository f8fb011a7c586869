package reql

import (
	"os"

	"golang.org/x/term"
)

// DebugString renders t.String(), wrapping to the terminal width when
// stderr is a TTY so long query trees stay readable in interactive
// sessions; it falls back to the unwrapped string otherwise.
func DebugString(t Term) string {
	s := t.String()

	fd := int(os.Stderr.Fd())
	if !term.IsTerminal(fd) {
		return s
	}

	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return s
	}

	return wrapToWidth(s, width)
}

func wrapToWidth(s string, width int) string {
	if len(s) <= width {
		return s
	}
	var out []byte
	for len(s) > width {
		out = append(out, s[:width]...)
		out = append(out, '\n')
		s = s[width:]
	}
	out = append(out, s...)
	return string(out)
}
