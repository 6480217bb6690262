package parser

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/examstyle/internal/content"
	"github.com/dgallion1/examstyle/internal/styling"
)

// HTMLParser handles HTML files. <b>/<strong> are bold, <u>/<ins> underline,
// <mark> highlight, and <kbd> or any element with class "box" is boxed.
// Block elements end a paragraph; <blockquote> raises the indent.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*content.RawPassage, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := baseTitle(filename)
	if t := findTitle(doc); t != "" {
		title = t
	}
	b := newPassageBuilder(title, true)

	var walk func(n *html.Node, f styling.Flags, indent int)
	walk = func(n *html.Node, f styling.Flags, indent int) {
		switch n.Type {
		case html.TextNode:
			b.w.indent = indent
			b.w.write(n.Data, f)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Head, atom.Nav, atom.Footer, atom.Header:
				return
			case atom.Br:
				b.w.lineBreak()
				return
			}
		}

		f = inlineFlags(n, f)
		block := n.Type == html.ElementNode && isBlock(n.DataAtom)
		if block {
			b.end()
			if n.DataAtom == atom.Blockquote {
				indent++
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, f, indent)
		}
		if block {
			b.end()
		}
	}

	root := findBody(doc)
	if root == nil {
		root = doc
	}
	walk(root, styling.Flags{}, 0)
	return b.result(), nil
}

func inlineFlags(n *html.Node, f styling.Flags) styling.Flags {
	if n.Type != html.ElementNode {
		return f
	}
	switch n.DataAtom {
	case atom.B, atom.Strong:
		f.Bold = true
	case atom.U, atom.Ins:
		f.Underline = true
	case atom.Mark:
		f.Highlight = true
	case atom.Kbd:
		f.Box = true
	}
	if hasClass(n, "box") {
		f.Box = true
	}
	return f
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Td, atom.Th, atom.Blockquote, atom.Section, atom.Article,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Pre, atom.Tr, atom.Ul, atom.Ol, atom.Table:
		return true
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
