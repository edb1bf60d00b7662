// Package textwrap breaks message lines to a target display width.
package textwrap

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Wrap splits line into pieces no wider than width display cells.
//
// With atWords set, whitespace-delimited words are packed greedily onto
// lines; a single word wider than width is force-split by grapheme
// cluster. Without atWords the line is sliced at raw byte boundaries.
// A width <= 0 disables wrapping and returns the line unchanged.
func Wrap(line string, width int, atWords bool) []string {
	if width <= 0 || runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	if !atWords {
		return splitBytes(line, width)
	}
	return wrapWords(line, width)
}

func wrapWords(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{line}
	}

	var out []string
	var cur strings.Builder
	curWidth := 0

	flush := func() {
		if curWidth > 0 {
			out = append(out, cur.String())
			cur.Reset()
			curWidth = 0
		}
	}

	for _, word := range words {
		w := runewidth.StringWidth(word)
		if w > width {
			// Over-long word: flush what we have and hard-split it.
			flush()
			out = append(out, splitClusters(word, width)...)
			continue
		}
		sep := 0
		if curWidth > 0 {
			sep = 1
		}
		if curWidth+sep+w > width {
			flush()
			sep = 0
		}
		if sep > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(word)
		curWidth += w
	}
	flush()

	return out
}

// splitClusters breaks s at grapheme-cluster boundaries so a wide glyph is
// never cut in half.
func splitClusters(s string, width int) []string {
	var out []string
	var cur strings.Builder
	curWidth := 0

	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cluster := gr.Str()
		w := runewidth.StringWidth(cluster)
		if curWidth > 0 && curWidth+w > width {
			out = append(out, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteString(cluster)
		curWidth += w
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// splitBytes slices s into width-sized byte chunks regardless of word or
// cluster boundaries. Kept for callers that opt out of word wrapping.
func splitBytes(s string, width int) []string {
	var out []string
	for len(s) > width {
		out = append(out, s[:width])
		s = s[width:]
	}
	if len(s) > 0 {
		out = append(out, s)
	}
	return out
}
