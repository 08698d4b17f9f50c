// Package sax adapts encoding/xml's token stream into the four-event
// surface the engine consumes: document start, tag open, tag close,
// document end. Character data, comments, processing instructions and
// directives are skipped - the transformation language only reacts to
// tag structure.
//
// The adapter is lazy and forward-only; nothing beyond the decoder's
// own buffering is held, so memory use stays bounded by document
// depth regardless of document size.
package sax

import (
	"encoding/xml"
	"fmt"
	"io"

	"golang.org/x/text/encoding/htmlindex"
)

// EventKind identifies a parse event.
type EventKind int

const (
	// DocumentStart is synthesized once, before the first tag.
	DocumentStart EventKind = iota

	// DocumentEnd is synthesized once, at end of input.
	DocumentEnd

	// TagOpen carries the tag name and its attributes.
	TagOpen

	// TagClose carries the tag name.
	TagClose
)

// Event is one parse event. Name and Attrs are populated for tag
// events; Attrs only for TagOpen.
type Event struct {
	Kind  EventKind
	Name  string
	Attrs map[string]string
}

// Source is a lazy, forward-only event stream. Next returns io.EOF
// after DocumentEnd has been delivered.
type Source interface {
	Next() (Event, error)
}

// Reader turns an XML byte stream into a Source.
type Reader struct {
	dec     *xml.Decoder
	started bool
	done    bool
}

// NewReader wraps r in an event stream. Documents that declare a
// non-UTF-8 encoding are decoded via the charset registry.
func NewReader(r io.Reader) *Reader {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = CharsetReader
	return &Reader{dec: dec}
}

// Next returns the next parse event.
//
// Well-formedness is the decoder's responsibility: mismatched or
// unclosed tags surface here as tokenizer errors, not as events.
func (r *Reader) Next() (Event, error) {
	if !r.started {
		r.started = true
		return Event{Kind: DocumentStart}, nil
	}
	if r.done {
		return Event{}, io.EOF
	}

	for {
		tok, err := r.dec.Token()
		if err == io.EOF {
			r.done = true
			return Event{Kind: DocumentEnd}, nil
		}
		if err != nil {
			return Event{}, fmt.Errorf("xml tokenizer: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[a.Name.Local] = a.Value
			}
			return Event{Kind: TagOpen, Name: t.Name.Local, Attrs: attrs}, nil

		case xml.EndElement:
			return Event{Kind: TagClose, Name: t.Name.Local}, nil
		}
		// CharData, Comment, ProcInst, Directive: not part of the event surface.
	}
}

// CharsetReader resolves an XML encoding declaration against the
// WHATWG charset registry, so ISO-8859-1 and friends decode without
// preprocessing. Used as xml.Decoder.CharsetReader and by the CLI's
// --charset override.
func CharsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", charset, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
