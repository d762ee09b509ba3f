package prompt

import (
	"testing"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/decomp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleData(g *Generator) MnemonicData {
	k := &card.Kanji{
		ID: 3, Character: "語", Meanings: []string{"말씀 어"},
		Onyomi: []string{"ゴ"}, Bushu: "言", BushuMeaning: "말씀 언",
	}
	b := &decomp.Breakdown{Layout: "left-right", Components: []string{"言", "吾"}}
	ex := []*card.KanjiExample{{Japanese: "英語を勉強する", Korean: "영어를 공부하다"}}
	return g.Build(k, []string{"yǔ"}, b, ex)
}

func TestGenerateDefault(t *testing.T) {
	g := NewGenerator()
	out, err := g.Generate(sampleData(g))
	require.NoError(t, err)

	assert.Contains(t, out, "Character: 語")
	assert.Contains(t, out, "Radical: 言 (말씀 언)")
	assert.Contains(t, out, "Components (left-right): 言 + 吾")
	assert.Contains(t, out, "- 英語を勉強する (영어를 공부하다)")
	assert.Contains(t, out, "Mandarin: yǔ")
	assert.Contains(t, out, "in Korean")
	assert.NotContains(t, out, "Kun'yomi")
}

func TestGenerateStoryWithStyle(t *testing.T) {
	g := NewGenerator()
	require.NoError(t, g.SetTemplate(StoryTemplate))
	g.SetStyle(Style{Language: "Japanese", Tone: "funny", MaxLines: 2})

	out, err := g.Generate(sampleData(g))
	require.NoError(t, err)
	assert.Contains(t, out, "in Japanese")
	assert.Contains(t, out, "言, 吾")
	assert.Contains(t, out, "funny")
}

func TestSetTemplateRejectsBadSyntax(t *testing.T) {
	assert.Error(t, NewGenerator().SetTemplate("{{ .Kanji"))
}
