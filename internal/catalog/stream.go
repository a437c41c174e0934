package catalog

import (
	"encoding/json"
	"fmt"
	"io"
)

// Stream reads the elements of a top-level JSON array one at a time, so a
// catalog file never has to fit in memory.
//
//	s := NewStream(f)
//	for s.Next() {
//		raw := s.Raw()
//	}
//	if err := s.Err(); err != nil { ... }
type Stream struct {
	dec     *json.Decoder
	started bool
	raw     json.RawMessage
	err     error
}

func NewStream(r io.Reader) *Stream {
	return &Stream{dec: json.NewDecoder(r)}
}

func (s *Stream) Next() bool {
	if s.err != nil {
		return false
	}
	if !s.started {
		s.started = true
		tok, err := s.dec.Token()
		if err != nil {
			s.err = fmt.Errorf("read array start: %w", err)
			return false
		}
		if d, ok := tok.(json.Delim); !ok || d != '[' {
			s.err = fmt.Errorf("expected json array, got %v", tok)
			return false
		}
	}
	if !s.dec.More() {
		if _, err := s.dec.Token(); err != nil {
			s.err = fmt.Errorf("read array end: %w", err)
		}
		return false
	}

	var raw json.RawMessage
	if err := s.dec.Decode(&raw); err != nil {
		s.err = fmt.Errorf("decode element: %w", err)
		return false
	}
	s.raw = raw
	return true
}

// Raw is the element read by the last successful Next.
func (s *Stream) Raw() json.RawMessage { return s.raw }

func (s *Stream) Err() error { return s.err }
