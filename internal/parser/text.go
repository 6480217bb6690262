package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/examstyle/internal/content"
	"github.com/dgallion1/examstyle/internal/styling"
)

// TextParser handles plain text files. Blank lines separate paragraphs and
// leading tabs (or pairs of spaces) on a paragraph's first line set its indent.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*content.RawPassage, error) {
	return parsePlain(r, baseTitle(filename))
}

// parsePlain splits unstyled text into paragraphs.
func parsePlain(r io.Reader, title string) (*content.RawPassage, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	b := newPassageBuilder(title, false)
	started := false
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r\f")
		if strings.TrimSpace(line) == "" {
			b.end()
			started = false
			continue
		}
		if !started {
			b.w.indent = indentOf(line)
			started = true
		} else {
			b.w.lineBreak()
		}
		b.w.write(strings.TrimLeft(line, " \t"), styling.Flags{})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return b.result(), nil
}

func indentOf(line string) int {
	level, spaces := 0, 0
	for _, r := range line {
		switch r {
		case '\t':
			level++
		case ' ':
			spaces++
			if spaces == 2 {
				level++
				spaces = 0
			}
		default:
			return level
		}
	}
	return level
}
