package trends

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var errNotArray = errors.New("expected a JSON array of strings")

// ParseKeywords decodes a JSON array of keyword strings. Elements are kept
// as given; an empty array is valid.
func ParseKeywords(arg string) ([]string, error) {
	trimmed := bytes.TrimSpace([]byte(arg))
	if len(trimmed) == 0 {
		return nil, NewError(KindInput, "parse_keywords", errors.New("empty argument"))
	}

	// null decodes into a string as a no-op, so elements are read as pointers
	var elems []*string
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, NewError(KindInput, "parse_keywords", fmt.Errorf("%w: %v", errNotArray, err))
	}
	if elems == nil {
		return nil, NewError(KindInput, "parse_keywords", errNotArray)
	}

	keywords := make([]string, len(elems))
	for i, kw := range elems {
		if kw == nil {
			return nil, NewError(KindInput, "parse_keywords", fmt.Errorf("%w: element %d is null", errNotArray, i))
		}
		keywords[i] = *kw
	}
	return keywords, nil
}

// Encode writes records as one compact JSON array followed by a newline
func Encode(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}
