// Package autosize keeps the input surface as tall as its content.
package autosize

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Surface is an input area whose height can be adjusted
type Surface interface {
	Value() string
	Width() int
	SetHeight(h int)
}

// Height returns the natural height of content soft-wrapped at width cells
// the way the bubbles textarea wraps it: at word boundaries, with an extra
// row when a line ends exactly at the edge, since the cursor needs a cell.
// It is at least one line and has no upper bound.
func Height(content string, width int) int {
	if width < 1 {
		width = 1
	}

	rows := 0
	for _, line := range strings.Split(content, "\n") {
		rows += wrappedRows([]rune(line), width)
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// wrappedRows counts the rows one logical line occupies. Words move whole to
// the next row when they do not fit; a word wider than a row is split.
func wrappedRows(line []rune, width int) int {
	rows := 1
	rowWidth := 0
	var word []rune
	spaces := 0

	for _, r := range line {
		if unicode.IsSpace(r) {
			spaces++
		} else {
			word = append(word, r)
		}

		if spaces > 0 {
			w := runewidth.StringWidth(string(word))
			if rowWidth+w+spaces > width {
				rows++
				rowWidth = 0
			}
			rowWidth += w + spaces
			word = word[:0]
			spaces = 0
			continue
		}

		last := runewidth.RuneWidth(word[len(word)-1])
		if runewidth.StringWidth(string(word))+last > width {
			if rowWidth > 0 {
				rows++
			}
			rowWidth = runewidth.StringWidth(string(word))
			word = word[:0]
		}
	}

	if rowWidth+runewidth.StringWidth(string(word))+spaces >= width {
		rows++
	}
	return rows
}

// Controller fits a surface to its content. It holds no state; call Fit on
// every content change and every resize.
type Controller struct{}

// Fit measures the surface content and sets its height, returning it
func (Controller) Fit(s Surface) int {
	h := Height(s.Value(), s.Width())
	s.SetHeight(h)
	return h
}
