package views

import (
	"regexp"
	"strings"
)

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// Overlay draws popup at (x, y) over a greyed-out copy of base, which is
// clipped or padded to height lines.
func Overlay(base, popup string, x, y, height int, s *Styles) string {
	baseLines := strings.Split(base, "\n")
	popupLines := strings.Split(popup, "\n")

	out := make([]string, height)
	for i := range out {
		if i >= y && i < y+len(popupLines) {
			out[i] = strings.Repeat(" ", x) + popupLines[i-y]
			continue
		}
		if i < len(baseLines) {
			plain := ansiRE.ReplaceAllString(baseLines[i], "")
			out[i] = s.Backdrop.Render(plain)
		}
	}
	return strings.Join(out, "\n")
}
