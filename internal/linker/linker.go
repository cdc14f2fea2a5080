// Package linker rewrites known institutional phrases in answer text into
// markdown links.
package linker

import (
	"sort"
	"strings"
	"unicode"
)

type entry struct {
	phrase []rune // lower-cased
	url    string
}

// Linker holds a keyword table ordered longest phrase first
type Linker struct {
	entries []entry
}

// New creates a linker for the given keywords
func New(keywords []Keyword) *Linker {
	entries := make([]entry, 0, len(keywords))
	for _, kw := range keywords {
		phrase := strings.Join(strings.Fields(kw.Phrase), " ")
		if phrase == "" {
			continue
		}
		entries = append(entries, entry{
			phrase: []rune(strings.ToLower(phrase)),
			url:    kw.URL,
		})
	}

	// Longest first so a phrase containing another wins the match.
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].phrase) > len(entries[j].phrase)
	})

	return &Linker{entries: entries}
}

// Link replaces each whole-word, case-insensitive occurrence of a known
// phrase with [matched text](url). Markdown links, autolinks and bare URLs
// already in the text are copied unchanged. A space in a phrase matches any
// run of whitespace.
func (l *Linker) Link(text string) string {
	if len(l.entries) == 0 || text == "" {
		return text
	}

	src := []rune(text)
	lower := make([]rune, len(src))
	for i, r := range src {
		lower[i] = unicode.ToLower(r)
	}

	var sb strings.Builder
	sb.Grow(len(text))

	for i := 0; i < len(src); {
		if end := linkSpan(src, i); end > i {
			sb.WriteString(string(src[i:end]))
			i = end
			continue
		}
		if e, end, ok := l.matchAt(lower, i); ok {
			sb.WriteByte('[')
			sb.WriteString(string(src[i:end]))
			sb.WriteString("](")
			sb.WriteString(e.url)
			sb.WriteByte(')')
			i = end
			continue
		}
		sb.WriteRune(src[i])
		i++
	}

	return sb.String()
}

// matchAt returns the longest phrase that starts at i on a word boundary and
// the index just past the matched text
func (l *Linker) matchAt(lower []rune, i int) (entry, int, bool) {
	if i > 0 && isWordRune(lower[i-1]) {
		return entry{}, 0, false
	}

	for _, e := range l.entries {
		end, ok := matchPhrase(lower, i, e.phrase)
		if !ok {
			continue
		}
		if end < len(lower) && isWordRune(lower[end]) {
			continue
		}
		return e, end, true
	}
	return entry{}, 0, false
}

// matchPhrase compares phrase against text at i, letting each phrase space
// consume one or more whitespace runes
func matchPhrase(text []rune, i int, phrase []rune) (int, bool) {
	j := i
	for _, p := range phrase {
		if j >= len(text) {
			return 0, false
		}
		if p == ' ' {
			if !unicode.IsSpace(text[j]) {
				return 0, false
			}
			for j < len(text) && unicode.IsSpace(text[j]) {
				j++
			}
			continue
		}
		if text[j] != p {
			return 0, false
		}
		j++
	}
	return j, true
}

// linkSpan returns the end of a link starting at i, or i when there is none.
// It recognizes [text](dest), <autolink> and bare scheme:// or www. URLs.
func linkSpan(src []rune, i int) int {
	switch src[i] {
	case '[':
		return inlineLinkEnd(src, i)
	case '<':
		return autolinkEnd(src, i)
	}
	if i > 0 && isWordRune(src[i-1]) {
		return i
	}
	return bareURLEnd(src, i)
}

func inlineLinkEnd(src []rune, i int) int {
	depth := 0
	j := i
	for ; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
			continue
		case '[':
			depth++
		case ']':
			depth--
		}
		if depth == 0 {
			break
		}
	}
	if j+1 >= len(src) || src[j] != ']' || src[j+1] != '(' {
		return i
	}

	depth = 0
	for k := j + 1; k < len(src); k++ {
		switch src[k] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return k + 1
			}
		case '\n':
			return i
		}
	}
	return i
}

func autolinkEnd(src []rune, i int) int {
	for j := i + 1; j < len(src); j++ {
		switch {
		case src[j] == '>':
			inner := string(src[i+1 : j])
			if strings.Contains(inner, ":") || strings.Contains(inner, "@") {
				return j + 1
			}
			return i
		case src[j] == '<' || unicode.IsSpace(src[j]):
			return i
		}
	}
	return i
}

func bareURLEnd(src []rune, i int) int {
	j := i
	if hasPrefixFold(src[i:], "www.") {
		j = i + len("www.")
	} else {
		for j < len(src) && (unicode.IsLetter(src[j]) || unicode.IsDigit(src[j]) || src[j] == '+' || src[j] == '-' || src[j] == '.') {
			j++
		}
		if j == i || !hasPrefixFold(src[j:], "://") {
			return i
		}
		j += len("://")
	}
	for j < len(src) && !unicode.IsSpace(src[j]) && src[j] != '<' && src[j] != '>' {
		j++
	}
	return j
}

func hasPrefixFold(src []rune, prefix string) bool {
	p := []rune(prefix)
	if len(src) < len(p) {
		return false
	}
	for k, r := range p {
		if unicode.ToLower(src[k]) != r {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
