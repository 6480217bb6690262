package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/examstyle/internal/content"
)

// JSONParser reads a saved generator payload and returns its passage with
// the ranges exactly as the generator wrote them.
type JSONParser struct{}

func (p *JSONParser) Parse(r io.Reader, filename string) (*content.RawPassage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	passage, err := content.DecodePassage(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if passage.Title == "" {
		passage.Title = baseTitle(filename)
	}
	return passage, nil
}
