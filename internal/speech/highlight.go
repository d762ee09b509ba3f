// Package speech tracks spoken progress through a sentence and splits the
// sentence into highlight segments for rendering.
//
// Ranges are measured in UTF-16 code units, the unit speech engines report
// progress in. A range that would split a surrogate pair is treated as
// invalid.
package speech

import (
	"math"
	"strings"
	"unicode/utf16"
)

// Style tags a highlight segment.
type Style int

const (
	Normal Style = iota // not being spoken
	Active              // currently spoken
)

func (s Style) String() string {
	if s == Active {
		return "active"
	}
	return "normal"
}

// Segment is a contiguous slice of a sentence with its style.
type Segment struct {
	Text  string
	Style Style
}

// Range is a half-open interval [Location, Location+Length) in UTF-16 code
// units.
type Range struct {
	Location int
	Length   int
}

// End returns the exclusive end of the range.
func (r Range) End() int {
	return r.Location + r.Length
}

// Highlight splits sentence into before/current/after segments. It falls back
// to a single Normal segment holding the whole sentence when the range is
// nil or invalid, or when active is false. Empty segments are omitted, except
// that an empty sentence yields one empty Normal segment.
func Highlight(sentence string, r *Range, active bool) []Segment {
	if !active || r == nil {
		return plain(sentence)
	}
	if r.Location < 0 || r.Length < 0 || r.Location > math.MaxInt-r.Length {
		return plain(sentence)
	}

	start, ok := byteOffset(sentence, r.Location)
	if !ok {
		return plain(sentence)
	}
	end, ok := byteOffset(sentence, r.End())
	if !ok {
		return plain(sentence)
	}

	segments := make([]Segment, 0, 3)
	segments = appendSegment(segments, sentence[:start], Normal)
	segments = appendSegment(segments, sentence[start:end], Active)
	segments = appendSegment(segments, sentence[end:], Normal)

	if len(segments) == 0 {
		return plain(sentence)
	}
	return segments
}

// ForState highlights sentence using the provider's current progress. Only a
// provider that is speaking exactly this sentence produces a highlight.
func ForState(sentence string, st State) []Segment {
	if st == nil || !st.IsSpeaking() {
		return plain(sentence)
	}
	text, ok := st.CurrentText()
	if !ok || text != sentence {
		return plain(sentence)
	}
	r, ok := st.CurrentRange()
	if !ok {
		return plain(sentence)
	}
	return Highlight(sentence, &r, true)
}

// Join concatenates segment texts.
func Join(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Length returns the length of s in UTF-16 code units.
func Length(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// byteOffset maps a UTF-16 offset to a byte offset in s. It fails when unit
// is past the end or falls inside a surrogate pair.
func byteOffset(s string, unit int) (int, bool) {
	u := 0
	for i, r := range s {
		if u == unit {
			return i, true
		}
		if u > unit {
			return 0, false
		}
		u += utf16.RuneLen(r)
	}
	if u == unit {
		return len(s), true
	}
	return 0, false
}

func appendSegment(segments []Segment, text string, style Style) []Segment {
	if text == "" {
		return segments
	}
	return append(segments, Segment{Text: text, Style: style})
}

func plain(sentence string) []Segment {
	return []Segment{{Text: sentence, Style: Normal}}
}
