package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kanjicard/internal/speech"
)

// HighlightedText renders segments in order, using active for the segment
// being spoken and normal for the rest.
func HighlightedText(segments []speech.Segment, normal, active lipgloss.Style) string {
	var b strings.Builder
	for _, s := range segments {
		if s.Style == speech.Active {
			b.WriteString(active.Render(s.Text))
		} else {
			b.WriteString(normal.Render(s.Text))
		}
	}
	return b.String()
}

// Sentence renders sentence with the default highlight styles, marking the
// word st is currently speaking if st is speaking this exact sentence.
func Sentence(sentence string, st speech.State) string {
	return HighlightedText(speech.ForState(sentence, st), HighlightNormal, HighlightActive)
}
