package parser

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/examstyle/internal/content"
	"github.com/dgallion1/examstyle/internal/styling"
)

// MarkdownParser handles Markdown files using goldmark. Strong emphasis is
// bold, plain emphasis is underline and code spans are boxed. The first
// level-one heading becomes the passage title; other headings are kept as
// bold paragraphs. Block quotes and nested lists raise the indent.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*content.RawPassage, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	b := newPassageBuilder(baseTitle(filename), false)
	titled := false

	var walkBlock func(n ast.Node, indent int)
	walkBlock = func(n ast.Node, indent int) {
		switch node := n.(type) {
		case *ast.Heading:
			b.end()
			if node.Level == 1 && !titled {
				b.passage.Title = inlineText(node, src)
				titled = true
				return
			}
			b.w.indent = indent
			writeInline(&b.w, node, src, styling.Flags{Bold: true})
			b.end()
		case *ast.Paragraph, *ast.TextBlock:
			b.end()
			b.w.indent = indent
			writeInline(&b.w, node, src, styling.Flags{})
			b.end()
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			b.end()
			b.w.indent = indent
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.w.write(string(seg.Value(src)), styling.Flags{})
			}
			b.end()
		case *ast.Blockquote:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				walkBlock(c, indent+1)
			}
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				for c := item.FirstChild(); c != nil; c = c.NextSibling() {
					if _, nested := c.(*ast.List); nested {
						walkBlock(c, indent+1)
						continue
					}
					walkBlock(c, indent)
				}
			}
		case *ast.ThematicBreak, *ast.HTMLBlock:
			b.end()
		default:
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				walkBlock(c, indent)
			}
		}
	}

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		walkBlock(n, 0)
	}
	return b.result(), nil
}

// writeInline writes the inline children of n, layering emphasis onto f.
func writeInline(w *paragraphWriter, n ast.Node, src []byte, f styling.Flags) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			w.write(string(node.Value(src)), f)
			switch {
			case node.HardLineBreak():
				w.lineBreak()
			case node.SoftLineBreak():
				w.write(" ", f)
			}
		case *ast.String:
			w.write(string(node.Value), f)
		case *ast.Emphasis:
			g := f
			if node.Level >= 2 {
				g.Bold = true
			} else {
				g.Underline = true
			}
			writeInline(w, node, src, g)
		case *ast.CodeSpan:
			g := f
			g.Box = true
			writeInline(w, node, src, g)
		case *ast.RawHTML:
			// Inline tags are dropped; their text content is kept as siblings.
		default:
			writeInline(w, node, src, f)
		}
	}
}

// inlineText returns the plain text of n's inline children.
func inlineText(n ast.Node, src []byte) string {
	var w paragraphWriter
	writeInline(&w, n, src, styling.Flags{})
	return strings.TrimSpace(w.buf.String())
}
