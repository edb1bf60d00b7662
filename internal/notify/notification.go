// Package notify implements the notification lifecycle engine: the group
// store, the upsert API, the debounced renderer, the fade animator, the
// expiry sweeper, and the history view.
package notify

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/marout/chime/internal/format"
)

// Level is an ordinal message severity.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lowercase level name, also the icon config key.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "info"
}

// Code returns the three-letter code used by the history view.
func (l Level) Code() string {
	switch l {
	case LevelTrace:
		return "TRC"
	case LevelDebug:
		return "DBG"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	}
	return "INF"
}

// Highlight returns the style name carrying the level's default color.
func (l Level) Highlight() string {
	switch l {
	case LevelTrace:
		return "ChimeTrace"
	case LevelDebug:
		return "ChimeDebug"
	case LevelWarn:
		return "ChimeWarn"
	case LevelError:
		return "ChimeError"
	}
	return "ChimeInfo"
}

// ParseLevel coerces loosely-typed caller input to a Level. Unknown values
// become info; out-of-range ordinals clamp. The notify path never rejects
// bad input.
func ParseLevel(v any) Level {
	switch x := v.(type) {
	case Level:
		return clampLevel(x)
	case int:
		return clampLevel(Level(x))
	case int64:
		return clampLevel(Level(x))
	case float64:
		return clampLevel(Level(int(x)))
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "trace":
			return LevelTrace
		case "debug":
			return LevelDebug
		case "info":
			return LevelInfo
		case "warn", "warning":
			return LevelWarn
		case "error", "err":
			return LevelError
		}
		if n, err := strconv.Atoi(x); err == nil {
			return clampLevel(Level(n))
		}
	}
	return LevelInfo
}

func clampLevel(l Level) Level {
	if l < LevelTrace || l > LevelError {
		return LevelInfo
	}
	return l
}

// Notification is one displayable message.
type Notification struct {
	ID        string
	Message   string
	Icon      string // override; empty = level icon from config
	Level     Level
	Timeout   time.Duration // 0 = sticky, never auto-expires
	CreatedAt time.Time
	UpdatedAt time.Time
	Highlight string // style override; empty = level default

	Expired   bool
	Animating bool
	Alpha     float64 // 0 invisible .. 1 fully visible

	Formatter format.Formatter // nil = live built-in
	Data      map[string]any   // payload for custom formatters
}

// stamp returns UpdatedAt when set, else CreatedAt. Expiry measures from
// the last touch, so updating a notification restarts its clock.
func (n *Notification) stamp() time.Time {
	if !n.UpdatedAt.IsZero() {
		return n.UpdatedAt
	}
	return n.CreatedAt
}

// Options carries the optional per-call fields of a notify call. Merge
// semantics on an id match: every set field overrides the previous value,
// every unset field keeps it. An empty message also keeps the previous
// message (preserve-on-empty).
type Options struct {
	// ID gives the notification a stable identity for updates. Strings
	// and integers are accepted; anything else is stringified.
	ID any

	// Group is the target position key; unknown or empty falls back to
	// the configured default group.
	Group string

	// Timeout in milliseconds. Nil keeps the previous value (or the
	// configured default for new notifications); negative values are
	// invalid and fall back to the default; 0 means sticky.
	Timeout *int

	Icon      string
	Highlight string

	// Formatter overrides the live formatter for this notification. With
	// an empty message the renderer calls it once per render with an
	// empty line and expects it to build content from Data.
	Formatter format.Formatter
	Data      map[string]any
}

// coerceID normalizes a caller-supplied identifier to a string key.
func coerceID(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatInt(int64(x), 10)
	default:
		return fmt.Sprint(x)
	}
}

// Millis returns a pointer to a millisecond count, for Options.Timeout.
func Millis(ms int) *int { return &ms }
