// Package icons provides the per-level notification glyph sets.
package icons

// Style represents the icon style to use.
type Style string

const (
	StyleNerd    Style = "nerd"
	StyleUnicode Style = "unicode"
	StyleText    Style = "text"
	StyleNone    Style = "none"
)

var (
	nerdIcons = map[string]string{
		"trace": "", // nf-fa-search
		"debug": "", // nf-fa-bug
		"info":  "", // nf-fa-info_circle
		"warn":  "", // nf-fa-exclamation_triangle
		"error": "", // nf-fa-times_circle
	}

	unicodeIcons = map[string]string{
		"trace": "✎",
		"debug": "●",
		"info":  "ℹ",
		"warn":  "▲",
		"error": "✗",
	}

	textIcons = map[string]string{
		"trace": "TRC",
		"debug": "DBG",
		"info":  "INF",
		"warn":  "WRN",
		"error": "ERR",
	}
)

// Set returns the level name → glyph map for a style. Unknown styles fall
// back to unicode; "none" yields an empty map so no icons render.
func Set(style string) map[string]string {
	var src map[string]string
	switch Style(style) {
	case StyleNerd:
		src = nerdIcons
	case StyleText:
		src = textIcons
	case StyleNone:
		return map[string]string{}
	default:
		src = unicodeIcons
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
