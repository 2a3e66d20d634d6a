package habits

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const maxSlugLen = 32

// newHabitID joins a slug of the title, the creation time in base 36, and a
// random suffix: "morning-run-m9x2k1qz-3f9a1c2e".
func newHabitID(title string, now time.Time) string {
	return slugify(title) + "-" + strconv.FormatInt(now.UnixMilli(), 36) + "-" + shortUUID()
}

func newNodeID() string {
	return uuid.NewString()
}

// newCheckID is timestamp based with a random tail so checks added in the
// same nanosecond stay distinct.
func newCheckID(now time.Time) string {
	return strconv.FormatInt(now.UnixNano(), 10) + "-" + shortUUID()
}

func shortUUID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func slugify(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
		if b.Len() >= maxSlugLen {
			break
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "habit"
	}
	return slug
}
