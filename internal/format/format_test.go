package format_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/leadboard/internal/format"
)

func TestTimeToClose(t *testing.T) {
	cases := map[int]string{
		0:  "0 days",
		1:  "1 day",
		6:  "6 days",
		7:  "1 week",
		14: "2 weeks",
		17: "2 weeks, 3 days",
		8:  "1 week, 1 day",
		-1: "",
	}
	for days, want := range cases {
		assert.Equal(t, want, format.TimeToClose(days), "days=%d", days)
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2024, 5, 30, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "Just now", format.Relative(now.Add(-30*time.Second), now))
	assert.Equal(t, "1 minute ago", format.Relative(now.Add(-time.Minute), now))
	assert.Equal(t, "5 hours ago", format.Relative(now.Add(-5*time.Hour), now))
	assert.Equal(t, "2 days ago", format.Relative(now.Add(-49*time.Hour), now))
	assert.Equal(t, "3 weeks ago", format.Relative(now.AddDate(0, 0, -21), now))
	assert.Equal(t, "Apr 1, 2024", format.Relative(time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC), now))
	assert.Empty(t, format.Relative(time.Time{}, now))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "JD", format.Initials("jane   middle doe"))
	assert.Equal(t, "A", format.Initials("alice"))
	assert.Equal(t, "ÉB", format.Initials("émile blanc"))
	assert.Empty(t, format.Initials("  "))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", format.Truncate("short", format.DefaultTruncate))
	assert.Equal(t, "abc...", format.Truncate("abcdef", 3))
	assert.Equal(t, "héé...", format.Truncate("hééllo", 3))
	assert.Equal(t, "...", format.Truncate("abc", -2))
	assert.Empty(t, format.Truncate("", -1))
}

func TestTags(t *testing.T) {
	assert.Equal(t, "vip, q3", format.Tags([]string{"vip", "q3"}))
	assert.Empty(t, format.Tags(nil))
}
