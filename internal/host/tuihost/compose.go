package tuihost

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// splice writes a rendered box over base at the given cell, ANSI-aware.
// Lines falling outside the screen are clipped.
func splice(base, box string, row, col, screenCols int) string {
	baseLines := strings.Split(base, "\n")
	for i, boxLine := range strings.Split(box, "\n") {
		r := row + i
		if r < 0 {
			continue
		}
		for r >= len(baseLines) {
			baseLines = append(baseLines, "")
		}
		w := ansi.StringWidth(ansi.Strip(boxLine))
		c := col
		if c < 0 {
			boxLine = ansi.Cut(boxLine, -c, w)
			w += c
			c = 0
		}
		if w <= 0 || c >= screenCols {
			continue
		}
		if c+w > screenCols {
			boxLine = ansi.Cut(boxLine, 0, screenCols-c)
			w = screenCols - c
		}
		baseLines[r] = spliceLine(padLine(baseLines[r], screenCols), boxLine, c, w, screenCols)
	}
	return strings.Join(baseLines, "\n")
}

// spliceLine replaces width display columns of base at col with content,
// keeping the ANSI sequences of both sides intact. Cutting through a wide
// character leaves a space in its place rather than shifting columns.
func spliceLine(base, content string, col, width, totalWidth int) string {
	prefix := ansi.Cut(base, 0, col)
	if pw := ansi.StringWidth(ansi.Strip(prefix)); pw < col {
		prefix += strings.Repeat(" ", col-pw)
	}

	result := prefix + content
	end := col + width
	if end < totalWidth {
		suffix := ansi.Cut(base, end, totalWidth)
		sw := ansi.StringWidth(ansi.Strip(suffix))
		if want := totalWidth - end; sw > want {
			suffix = " " + ansi.Cut(suffix, sw-want+1, sw)
		} else if sw < want {
			suffix += strings.Repeat(" ", want-sw)
		}
		result += suffix
	}
	return result
}

// padLine extends a line with spaces to the exact display width.
func padLine(s string, width int) string {
	if w := ansi.StringWidth(ansi.Strip(s)); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
