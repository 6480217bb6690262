package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/examstyle/internal/content"
	"github.com/dgallion1/examstyle/internal/styling"
)

// BoxRunStyle is the character style name that marks boxed text in .docx
// sources. Matching is case-insensitive.
const BoxRunStyle = "Box"

// twipsPerIndent is the left indentation, in twentieths of a point, that
// counts as one indent level.
const twipsPerIndent = 720

// DOCXParser handles .docx files. Bold, underline and highlight (or cell
// shading) map to the matching flags; runs in the BoxRunStyle character
// style are boxed. A Title or first Heading1 paragraph names the passage.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*content.RawPassage, error) {
	// go-docx needs a ReaderAt and size.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	b := newPassageBuilder(baseTitle(filename), false)
	titled := false
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		if isTitleStyle(para) && !titled {
			if t := docxPlainText(para); t != "" {
				b.passage.Title = t
				titled = true
				continue
			}
		}
		b.w.indent = docxIndent(para)
		for _, child := range para.Children {
			switch c := child.(type) {
			case *docx.Run:
				writeRun(&b.w, c)
			case *docx.Hyperlink:
				writeRun(&b.w, &c.Run)
			}
		}
		b.end()
	}
	return b.result(), nil
}

func writeRun(w *paragraphWriter, run *docx.Run) {
	f := runFlags(run.RunProperties)
	for _, rc := range run.Children {
		switch c := rc.(type) {
		case *docx.Text:
			w.write(c.Text, f)
		case *docx.Tab:
			w.write("\t", f)
		case *docx.BarterRabbet:
			w.lineBreak()
		}
	}
}

func runFlags(props *docx.RunProperties) styling.Flags {
	var f styling.Flags
	if props == nil {
		return f
	}
	f.Bold = props.Bold != nil
	f.Underline = props.Underline != nil && props.Underline.Val != "none"
	f.Highlight = (props.Highlight != nil && props.Highlight.Val != "none") ||
		(props.Shade != nil && props.Shade.Fill != "" && !strings.EqualFold(props.Shade.Fill, "auto"))
	f.Box = props.RunStyle != nil && strings.EqualFold(props.RunStyle.Val, BoxRunStyle)
	return f
}

func isTitleStyle(para *docx.Paragraph) bool {
	if para.Properties == nil || para.Properties.Style == nil {
		return false
	}
	switch strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", "")) {
	case "title", "heading1":
		return true
	}
	return false
}

func docxIndent(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Ind == nil {
		return 0
	}
	return para.Properties.Ind.Left / twipsPerIndent
}

func docxPlainText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
