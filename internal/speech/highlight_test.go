package speech

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightSplitsSentence(t *testing.T) {
	s := "日本語を話す"

	got := Highlight(s, &Range{Location: 2, Length: 2}, true)

	assert.Equal(t, []Segment{
		{Text: "日本", Style: Normal},
		{Text: "語を", Style: Active},
		{Text: "話す", Style: Normal},
	}, got)
}

func TestHighlightOmitsEmptySegments(t *testing.T) {
	s := "こんにちは"

	tests := []struct {
		name string
		r    Range
		want []Segment
	}{
		{
			name: "leading",
			r:    Range{Location: 0, Length: 2},
			want: []Segment{{"こん", Active}, {"にちは", Normal}},
		},
		{
			name: "trailing",
			r:    Range{Location: 3, Length: 2},
			want: []Segment{{"こんに", Normal}, {"ちは", Active}},
		},
		{
			name: "whole",
			r:    Range{Location: 0, Length: 5},
			want: []Segment{{"こんにちは", Active}},
		},
		{
			name: "empty current",
			r:    Range{Location: 2, Length: 0},
			want: []Segment{{"こん", Normal}, {"にちは", Normal}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Highlight(s, &tt.r, true))
		})
	}
}

func TestHighlightConcatenationEqualsSentence(t *testing.T) {
	sentences := []string{"", "a", "日本語を話す", "漢字🈁テスト", "mixed ascii と かな"}

	for _, s := range sentences {
		n := Length(s)
		for loc := 0; loc <= n; loc++ {
			for length := 0; loc+length <= n; length++ {
				segs := Highlight(s, &Range{Location: loc, Length: length}, true)
				assert.LessOrEqual(t, len(segs), 3)
				assert.Equal(t, s, Join(segs), "sentence %q range (%d,%d)", s, loc, length)
			}
		}
	}
}

func TestHighlightInvalidRangeFallsBack(t *testing.T) {
	s := "日本語を話す"
	want := []Segment{{Text: s, Style: Normal}}

	invalid := []Range{
		{Location: -1, Length: 2},
		{Location: 0, Length: 7},
		{Location: 6, Length: 1},
		{Location: 7, Length: 0},
		{Location: 2, Length: -1},
		{Location: 1, Length: math.MaxInt},
	}
	for _, r := range invalid {
		r := r
		assert.Equal(t, want, Highlight(s, &r, true), "range %+v", r)
	}

	assert.Equal(t, want, Highlight(s, nil, true))
}

func TestHighlightSurrogatePairBoundary(t *testing.T) {
	// 🈁 is outside the BMP and takes two UTF-16 units.
	s := "a🈁b"
	require.Equal(t, 4, Length(s))

	assert.Equal(t, []Segment{{"a", Normal}, {"🈁", Active}, {"b", Normal}},
		Highlight(s, &Range{Location: 1, Length: 2}, true))

	assert.Equal(t, []Segment{{s, Normal}},
		Highlight(s, &Range{Location: 2, Length: 1}, true))
}

func TestHighlightInactiveIgnoresRange(t *testing.T) {
	s := "日本語を話す"
	for _, r := range []Range{{0, 1}, {2, 2}, {-5, 100}} {
		r := r
		assert.Equal(t, []Segment{{s, Normal}}, Highlight(s, &r, false))
	}
}

func TestHighlightIsIdempotent(t *testing.T) {
	s := "今日はいい天気ですね"
	r := &Range{Location: 3, Length: 2}

	first := Highlight(s, r, true)
	second := Highlight(s, r, true)

	assert.Equal(t, first, second)
	assert.Equal(t, Range{Location: 3, Length: 2}, *r)
}

func TestForState(t *testing.T) {
	s := "日本語を話す"
	r := &Range{Location: 2, Length: 2}
	plainWant := []Segment{{s, Normal}}

	tests := []struct {
		name  string
		state State
		want  []Segment
	}{
		{name: "nil state", state: nil, want: plainWant},
		{name: "not speaking", state: Snapshot{Speaking: false, Text: s, Range: r}, want: plainWant},
		{name: "different sentence", state: Snapshot{Speaking: true, Text: "英語を話す", Range: r}, want: plainWant},
		{name: "no range", state: Snapshot{Speaking: true, Text: s}, want: plainWant},
		{
			name:  "matching sentence",
			state: Snapshot{Speaking: true, Text: s, Range: r},
			want:  []Segment{{"日本", Normal}, {"語を", Active}, {"話す", Normal}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForState(s, tt.state))
		})
	}
}

func TestHighlightEmptySentence(t *testing.T) {
	want := []Segment{{Text: "", Style: Normal}}

	assert.Equal(t, want, Highlight("", &Range{Location: 0, Length: 0}, true))
	assert.Equal(t, want, Highlight("", &Range{Location: 1, Length: 0}, true))
	assert.Equal(t, want, Highlight("", nil, true))
	assert.Equal(t, want, Highlight("", nil, false))
}

func TestLength(t *testing.T) {
	assert.Equal(t, 0, Length(""))
	assert.Equal(t, 6, Length("日本語を話す"))
	assert.Equal(t, 2, Length("🈁"))
}

func TestStyleString(t *testing.T) {
	assert.Equal(t, "normal", Normal.String())
	assert.Equal(t, "active", Active.String())
}
