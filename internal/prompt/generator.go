// Package prompt builds LLM prompts for kanji mnemonics.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/decomp"
)

// Generator renders mnemonic prompts from a template.
type Generator struct {
	template *template.Template
	style    Style
}

// Style tunes the requested mnemonic.
type Style struct {
	Language string // language the mnemonic is written in
	Tone     string // e.g. "vivid", "funny", "calm"
	MaxLines int
}

// DefaultStyle asks for a short, vivid Korean mnemonic.
func DefaultStyle() Style {
	return Style{
		Language: "Korean",
		Tone:     "vivid and slightly absurd",
		MaxLines: 3,
	}
}

// MnemonicData is everything the template can reference.
type MnemonicData struct {
	Kanji      *card.Kanji
	Meanings   string
	Onyomi     string
	Kunyomi    string
	Pinyin     string
	Layout     string
	Components []string
	Examples   []string
	Style      Style
}

// NewGenerator creates a generator using DefaultTemplate and DefaultStyle.
func NewGenerator() *Generator {
	return &Generator{
		template: template.Must(template.New("mnemonic").Parse(DefaultTemplate)),
		style:    DefaultStyle(),
	}
}

// SetStyle replaces the style.
func (g *Generator) SetStyle(style Style) {
	g.style = style
}

// SetTemplate sets a custom prompt template.
func (g *Generator) SetTemplate(tmpl string) error {
	t, err := template.New("mnemonic").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	g.template = t
	return nil
}

// Build collects template data for a kanji. breakdown and examples may be nil.
func (g *Generator) Build(k *card.Kanji, pinyin []string, breakdown *decomp.Breakdown, examples []*card.KanjiExample) MnemonicData {
	d := MnemonicData{
		Kanji:    k,
		Meanings: strings.Join(k.Meanings, ", "),
		Onyomi:   strings.Join(k.Onyomi, ", "),
		Kunyomi:  strings.Join(k.Kunyomi, ", "),
		Pinyin:   strings.Join(pinyin, ", "),
		Style:    g.style,
	}
	if breakdown != nil {
		d.Layout = breakdown.Layout
		d.Components = breakdown.Components
	}
	for _, e := range examples {
		line := e.Japanese
		if e.Korean != "" {
			line += " (" + e.Korean + ")"
		}
		d.Examples = append(d.Examples, line)
	}
	return d
}

// Generate renders the prompt.
func (g *Generator) Generate(data MnemonicData) (string, error) {
	data.Style = g.style

	var buf bytes.Buffer
	if err := g.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}

// DefaultTemplate asks for a mnemonic linking shape, meaning and reading.
const DefaultTemplate = `You write memory aids for Japanese kanji learners.

=== KANJI ===
Character: {{ .Kanji.Character }}
{{- if .Meanings }}
Meaning: {{ .Meanings }}{{ end }}
{{- if .Onyomi }}
On'yomi: {{ .Onyomi }}{{ end }}
{{- if .Kunyomi }}
Kun'yomi: {{ .Kunyomi }}{{ end }}
{{- if .Kanji.Bushu }}
Radical: {{ .Kanji.Bushu }}{{ if .Kanji.BushuMeaning }} ({{ .Kanji.BushuMeaning }}){{ end }}{{ end }}
{{- if .Components }}
Components ({{ .Layout }}): {{ range $i, $c := .Components }}{{ if $i }} + {{ end }}{{ $c }}{{ end }}{{ end }}
{{- if .Pinyin }}
Mandarin: {{ .Pinyin }}{{ end }}
{{- if .Examples }}

=== EXAMPLES ===
{{- range .Examples }}
- {{ . }}{{ end }}{{ end }}

=== TASK ===
Write a {{ .Style.Tone }} mnemonic in {{ .Style.Language }} that ties the character's
shape to its meaning{{ if .Onyomi }} and hints at the reading {{ .Onyomi }}{{ end }}.
Output ONLY the mnemonic, at most {{ .Style.MaxLines }} lines.`

// StoryTemplate asks for a tiny scene built from the components.
const StoryTemplate = `Create a one-scene story in {{ .Style.Language }} to remember the kanji {{ .Kanji.Character }}
({{ .Meanings }}).{{ if .Components }} Every component must appear: {{ range $i, $c := .Components }}{{ if $i }}, {{ end }}{{ $c }}{{ end }}.{{ end }}
Keep it {{ .Style.Tone }} and no longer than {{ .Style.MaxLines }} lines. Output only the story.`
