package annotations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyWrapsExactOccurrence(t *testing.T) {
	content := "<p>For God so loved the world</p>"
	out := Apply(content, []Highlight{
		{Text: "so loved", Color: "#FFEB3B"},
	})

	assert.Contains(t, out, `background-color: #FFEB3B`)
	assert.Contains(t, out, `>so loved</span>`)
	// Light yellow background gets dark text.
	assert.Contains(t, out, `color: #000000`)
}

func TestApplyAllOccurrences(t *testing.T) {
	content := "light and light again"
	out := Apply(content, []Highlight{{Text: "light", Color: "#FFEB3B"}})

	assert.Equal(t, 2, strings.Count(out, `class="highlighted"`))
}

func TestApplyLongestTextFirst(t *testing.T) {
	content := "For God so loved the world"
	out := Apply(content, []Highlight{
		{Text: "God", Color: "#FFEB3B"},
		{Text: "God so loved", Color: "#42A5F5"},
	})

	// The longer highlight claims the overlapping stretch; the shorter one
	// finds no free occurrence left and does not nest inside it.
	assert.Equal(t, 1, strings.Count(out, `class="highlighted"`))
	assert.Contains(t, out, `background-color: #42A5F5`)
	assert.NotContains(t, out, `background-color: #FFEB3B`)
}

func TestApplyDoesNotRematchInsertedMarkup(t *testing.T) {
	// "span" appearing in the chapter text must not corrupt the markup the
	// first highlight inserted.
	content := "a span of years"
	out := Apply(content, []Highlight{
		{Text: "span of years", Color: "#FFEB3B"},
		{Text: "span", Color: "#42A5F5"},
	})

	assert.Equal(t, 1, strings.Count(out, `class="highlighted"`))
	assert.Contains(t, out, ">span of years</span>")
}

func TestApplyNoHighlights(t *testing.T) {
	content := "<p>untouched</p>"
	assert.Equal(t, content, Apply(content, nil))
}

func TestContrastTextColor(t *testing.T) {
	tests := []struct {
		background string
		want       string
	}{
		{"#FFEB3B", "#000000"}, // yellow
		{"#FFA726", "#000000"}, // orange
		{"#AB47BC", "#FFFFFF"}, // purple
		{"#EC407A", "#FFFFFF"}, // pink
		{"#808180", "#000000"}, // brightness 128.587, just over the threshold
		{"#808080", "#FFFFFF"}, // brightness exactly 128 stays on the dark side
		{"not-a-color", "#000000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ContrastTextColor(tt.background), tt.background)
	}
}
