package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/decomp"
	"github.com/f3rmion/kanjicard/internal/speech"
)

// Options controls the optional lines of the cards.
type Options struct {
	Width             int
	ShowRomaji        bool
	ShowPronunciation bool
}

// FavoriteMark is a filled or hollow star.
func FavoriteMark(favorite bool) string {
	if favorite {
		return FavoriteStyle.Render("★")
	}
	return Caption.Render("☆")
}

// KanjiFront renders the question side of a kanji card. art is a block
// drawing of the character; when it is empty the character is drawn in a
// padded box instead.
func KanjiFront(k *card.Kanji, art string, width int) string {
	var glyph string
	if art != "" {
		glyph = BigCharArtStyle.Render(art)
	} else {
		glyph = BigCharStyle.Render(k.Character)
	}

	header := fmt.Sprintf("%s  %s", TagActiveStyle.Render(k.JLPTLabel()), FavoriteMark(k.IsFavorite))
	hint := HintStyle.Render("Press SPACE to reveal")

	block := lipgloss.JoinVertical(lipgloss.Center, header, "", glyph, "", hint)
	if width <= 0 {
		return block
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

// BackDetails are the derived facts shown next to the stored kanji fields.
type BackDetails struct {
	Pinyin    []string
	Breakdown *decomp.Breakdown
}

// KanjiBack renders the answer side of a kanji card without its examples.
func KanjiBack(k *card.Kanji, d BackDetails, width int) string {
	var b strings.Builder

	b.WriteString(BigCharStyle.Padding(1, 4).Render(k.Character))
	b.WriteString("  ")
	b.WriteString(FavoriteMark(k.IsFavorite))
	b.WriteString(" ")
	b.WriteString(TagStyle.Render(k.JLPTLabel()))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(Label.Render(label))
		b.WriteString(Body.Render(value))
		b.WriteString("\n")
	}

	row("Meaning", strings.Join(k.Meanings, ", "))
	row("On", strings.Join(k.Onyomi, "・"))
	row("Kun", strings.Join(k.Kunyomi, "・"))
	if k.Bushu != "" {
		radical := k.Bushu
		if k.BushuMeaning != "" {
			radical += " (" + k.BushuMeaning + ")"
		}
		row("Radical", radical)
	}
	if k.StrokeCount > 0 {
		row("Strokes", fmt.Sprintf("%d", k.StrokeCount))
	}
	row("Pinyin", strings.Join(d.Pinyin, ", "))
	if d.Breakdown != nil {
		row("Parts", d.Breakdown.String())
	}

	content := strings.TrimRight(b.String(), "\n")
	if k.Mnemonic != "" {
		content += "\n\n" + Heading.Render("Mnemonic") + "\n" + Body.Render(k.Mnemonic)
	}

	style := CardStyle
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(content)
}

// ExampleCard renders an example sentence, highlighting the spoken word.
func ExampleCard(e *card.KanjiExample, st speech.State, selected bool, opts Options) string {
	lines := []string{Sentence(e.Japanese, st)}
	if e.Hiragana != "" && e.Hiragana != e.Japanese {
		lines = append(lines, Reading.Render(e.Hiragana))
	}
	if opts.ShowRomaji && e.Romaji != "" {
		lines = append(lines, Caption.Render(e.Romaji))
	}
	if e.Korean != "" {
		lines = append(lines, Translation.Render(e.Korean))
	}
	if opts.ShowPronunciation && e.KoreanPronunciation != "" {
		lines = append(lines, Caption.Render("["+e.KoreanPronunciation+"]"))
	}
	return frame(lines, selected, opts.Width)
}

// PhraseCard renders a phrase card with its grammar tags.
func PhraseCard(p *card.JapanesePhrase, st speech.State, selected bool, opts Options) string {
	lines := []string{FavoriteMark(p.IsFavorite) + " " + Sentence(p.JapaneseSentence, st)}
	if p.Hiragana != "" && p.Hiragana != p.JapaneseSentence {
		lines = append(lines, Reading.Render(p.Hiragana))
	}
	if opts.ShowRomaji && p.Romaji != "" {
		lines = append(lines, Caption.Render(p.Romaji))
	}
	if p.KoreanSentence != "" {
		lines = append(lines, Translation.Render(p.KoreanSentence))
	}
	if opts.ShowPronunciation && p.KoreanPronunciation != "" {
		lines = append(lines, Caption.Render("["+p.KoreanPronunciation+"]"))
	}
	if tags := p.GrammarTags(); len(tags) > 0 {
		lines = append(lines, TagButtons(tags, -1, 0))
	}
	return frame(lines, selected, opts.Width)
}

func frame(lines []string, selected bool, width int) string {
	style := CardStyle
	if selected {
		style = CardSelectedStyle
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(strings.Join(lines, "\n"))
}
