package source

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractText returns the page title and its visible prose. Block elements
// become paragraph breaks so the segmenter sees the page's paragraphs. When
// the page has an <article> or <main> element only that subtree is used.
func ExtractText(r io.Reader) (title, text string, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", err
	}

	title = strings.TrimSpace(textOf(findFirst(doc, atom.Title)))

	root := findFirst(doc, atom.Article)
	if root == nil {
		root = findFirst(doc, atom.Main)
	}
	if root == nil {
		root = findFirst(doc, atom.Body)
	}
	if root == nil {
		root = doc
	}

	return title, visibleText(root), nil
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			buf.WriteString(c.Data)
		}
	}
	return buf.String()
}

func skipped(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Noscript, atom.Iframe,
		atom.Nav, atom.Header, atom.Footer, atom.Aside, atom.Form, atom.Template:
		return true
	}
	return false
}

func block(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Main, atom.Blockquote,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Li, atom.Ul, atom.Ol, atom.Pre, atom.Table, atom.Tr, atom.Br:
		return true
	}
	return false
}

// visibleText walks n, collapsing whitespace inside paragraphs and separating
// block elements with blank lines
func visibleText(n *html.Node) string {
	var paragraphs []string
	var current strings.Builder

	flush := func() {
		p := strings.Join(strings.Fields(current.String()), " ")
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipped(n.DataAtom) {
				return
			}
			if block(n.DataAtom) {
				flush()
				defer flush()
			}
		}
		if n.Type == html.TextNode {
			current.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	flush()

	return strings.Join(paragraphs, "\n\n")
}
