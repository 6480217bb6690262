package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrMalformedPayload means the payload could not be decoded at all.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrMissingPassage means the payload decoded but carries no passage.
	ErrMissingPassage = errors.New("payload has no passage")
)

// Decode parses a generator payload, tolerating a surrounding Markdown code
// fence. Range-level problems do not fail decoding; see RawStyleRange.
func Decode(data []byte) (*RawResponse, error) {
	text := StripCodeBlock(string(data))
	if text == "" {
		return nil, fmt.Errorf("%w: empty body", ErrMalformedPayload)
	}
	var resp RawResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %s)", ErrMalformedPayload, err, truncate(text, 200))
	}
	return &resp, nil
}

// DecodePassage decodes a payload and returns only its passage.
func DecodePassage(data []byte) (*RawPassage, error) {
	resp, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if resp.Passage == nil {
		return nil, ErrMissingPassage
	}
	return resp.Passage, nil
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// StripCodeBlock removes a ```json fence that generators often wrap around
// their output.
func StripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
