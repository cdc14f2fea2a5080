package autosize

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSurface struct {
	value  string
	width  int
	height int
}

func (f *fakeSurface) Value() string   { return f.value }
func (f *fakeSurface) Width() int      { return f.width }
func (f *fakeSurface) SetHeight(h int) { f.height = h }

func TestHeight(t *testing.T) {
	tests := []struct {
		name    string
		content string
		width   int
		want    int
	}{
		{name: "empty is one line", content: "", width: 40, want: 1},
		{name: "short line", content: "hello", width: 40, want: 1},
		{name: "explicit newlines", content: "a\nb\nc", width: 40, want: 3},
		{name: "blank lines count", content: "a\n\n", width: 40, want: 3},
		{name: "splits long word", content: strings.Repeat("x", 25), width: 10, want: 3},
		{name: "just under the edge", content: strings.Repeat("x", 9), width: 10, want: 1},
		{name: "line ending at the edge adds a cursor row", content: strings.Repeat("x", 20), width: 10, want: 3},
		{name: "words move whole", content: "aaaa bbbbbb cccc", width: 10, want: 3},
		{name: "full-width word then short word", content: "first secondword thirdword", width: 10, want: 4},
		{name: "wide runes", content: "日本語日本語", width: 4, want: 4},
		{name: "zero width", content: "abc", width: 0, want: 4},
		{name: "no cap", content: strings.Repeat("line\n", 99) + "end", width: 40, want: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Height(tc.content, tc.width))
		})
	}
}

func TestController_GrowsAndShrinks(t *testing.T) {
	var c Controller
	s := &fakeSurface{value: "one\ntwo\nthree", width: 30}

	assert.Equal(t, 3, c.Fit(s))
	assert.Equal(t, 3, s.height)

	s.value = ""
	assert.Equal(t, 1, c.Fit(s))
	assert.Equal(t, 1, s.height)
}

func newTextarea(width int) textarea.Model {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(width)
	ta.Focus()
	return ta
}

func TestController_FitsTextareaWordWrap(t *testing.T) {
	tests := []struct {
		value string
		words []string
	}{
		{value: "aaaa bbbbbb cccc", words: []string{"aaaa", "bbbbbb", "cccc"}},
		{value: "first secondword thirdword", words: []string{"first", "secondword", "thirdword"}},
		{value: "un mesaj ceva mai lung\ncu doua randuri", words: []string{"un", "lung", "randuri"}},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			ta := newTextarea(10)
			ta.SetValue(tc.value)

			h := Controller{}.Fit(&ta)
			require.Equal(t, h, ta.Height())

			view := ta.View()
			for _, w := range tc.words {
				assert.Contains(t, view, w)
			}
		})
	}
}
