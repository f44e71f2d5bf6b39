package history

import (
	"strings"
	"time"
	"unicode"
)

// DownloadName builds a stable, filesystem-safe filename for a record from
// its prompt and creation time, e.g.
// "2025-03-14T09-26-53Z-a-cat-in-a-hat.png".
func DownloadName(prompt, createdAt string) string {
	slug := promptSlug(prompt)

	timeStr := createdAt
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		timeStr = t.UTC().Format(time.RFC3339)
	}
	timeStr = strings.NewReplacer(":", "-", ".", "-").Replace(timeStr)

	if slug == "" {
		return timeStr + ".png"
	}
	return timeStr + "-" + slug + ".png"
}

// promptSlug keeps the first 30 characters of the prompt, drops everything
// but letters, digits, spaces, and dashes, and collapses spaces to dashes.
func promptSlug(prompt string) string {
	if len(prompt) > 30 {
		prompt = prompt[:30]
	}

	var b strings.Builder
	for _, r := range prompt {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '-':
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), "-")
}
