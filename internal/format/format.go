// Package format renders lead fields for people: durations in days, relative
// timestamps, initials and short previews.
package format

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultTruncate is the preview length used by Truncate callers that have
// no layout constraint of their own.
const DefaultTruncate = 50

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// TimeToClose renders an estimate in days as weeks and days,
// e.g. "2 weeks, 3 days". Negative values render empty.
func TimeToClose(days int) string {
	switch {
	case days < 0:
		return ""
	case days < 7:
		return plural(days, "day")
	}

	weeks, rest := days/7, days%7
	if rest == 0 {
		return plural(weeks, "week")
	}
	return plural(weeks, "week") + ", " + plural(rest, "day")
}

// Date renders t as "Jan 2, 2006", with the clock appended when withTime is
// set. The zero time renders empty.
func Date(t time.Time, withTime bool) string {
	if t.IsZero() {
		return ""
	}
	if withTime {
		return t.Format("Jan 2, 2006, 03:04 PM")
	}
	return t.Format("Jan 2, 2006")
}

// Relative renders t relative to now. Anything four weeks or older falls
// back to Date.
func Relative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	secs := int(now.Sub(t) / time.Second)
	if secs < 60 {
		return "Just now"
	}
	mins := secs / 60
	if mins < 60 {
		return plural(mins, "minute") + " ago"
	}
	hours := mins / 60
	if hours < 24 {
		return plural(hours, "hour") + " ago"
	}
	days := hours / 24
	if days < 7 {
		return plural(days, "day") + " ago"
	}
	if weeks := days / 7; weeks < 4 {
		return plural(weeks, "week") + " ago"
	}
	return Date(t, false)
}

// Initials takes the first letter of the first and last words of name.
func Initials(name string) string {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return strings.ToUpper(firstRune(parts[0]))
	default:
		return strings.ToUpper(firstRune(parts[0]) + firstRune(parts[len(parts)-1]))
	}
}

func firstRune(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	return string(r)
}

// Truncate cuts text to n runes and appends "..." when it had to cut. A
// negative n counts as zero.
func Truncate(text string, n int) string {
	n = max(n, 0)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}

func Tags(tags []string) string {
	return strings.Join(tags, ", ")
}
