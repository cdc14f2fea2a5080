package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML renders markdown to an HTML fragment whose links open in a new context
type HTML struct {
	md goldmark.Markdown
}

// NewHTML creates an HTML renderer
func NewHTML() *HTML {
	return &HTML{
		md: goldmark.New(
			goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
	}
}

// Render converts markdown to HTML
func (h *HTML) Render(markup string) (string, error) {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(markup), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return setLinkTargets(buf.String())
}

// setLinkTargets parses the fragment and marks every anchor to open in a
// new browsing context
func setLinkTargets(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var sb strings.Builder
	for _, n := range nodes {
		walkAnchors(n)
		if err := html.Render(&sb, n); err != nil {
			return "", fmt.Errorf("failed to render HTML: %w", err)
		}
	}
	return sb.String(), nil
}

func walkAnchors(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		setAttr(n, "target", "_blank")
		setAttr(n, "rel", "noopener noreferrer")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkAnchors(c)
	}
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
