package annotations

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Apply wraps every exact literal occurrence of each highlight's text in a
// styled span within the chapter's rendered content.
//
// Highlights are applied longest-text-first so a shorter highlight cannot
// eat the middle of a longer one. Replacement goes through opaque
// placeholder tokens: once a stretch of text is claimed by one highlight it
// is invisible to the rest, and inserted markup is never re-matched.
func Apply(content string, highlights []Highlight) string {
	if len(highlights) == 0 {
		return content
	}

	sorted := make([]Highlight, len(highlights))
	copy(sorted, highlights)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Text) > len(sorted[j].Text)
	})

	out := content
	for i, h := range sorted {
		if h.Text == "" {
			continue
		}
		out = strings.ReplaceAll(out, h.Text, token(i))
	}
	for i, h := range sorted {
		out = strings.ReplaceAll(out, token(i), span(h))
	}
	return out
}

func token(i int) string {
	return "\x00hl" + strconv.Itoa(i) + "\x00"
}

func span(h Highlight) string {
	return fmt.Sprintf(
		`<span class="highlighted" style="background-color: %s; color: %s;">%s</span>`,
		h.Color, ContrastTextColor(h.Color), h.Text,
	)
}

// ContrastTextColor picks black or white text for a hex background color
// using the standard luminance formula.
func ContrastTextColor(backgroundColor string) string {
	hex := strings.TrimPrefix(backgroundColor, "#")
	if len(hex) != 6 {
		return "#000000"
	}
	r, err1 := strconv.ParseInt(hex[0:2], 16, 32)
	g, err2 := strconv.ParseInt(hex[2:4], 16, 32)
	b, err3 := strconv.ParseInt(hex[4:6], 16, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		return "#000000"
	}

	// Compare against the scaled threshold so fractional brightness is
	// not truncated away.
	if r*299+g*587+b*114 > 128*1000 {
		return "#000000"
	}
	return "#FFFFFF"
}
