package decomp

import (
	"strings"
	"testing"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{"character":"語","definition":"words, language","pinyin":["yǔ"],"decomposition":"⿰言吾","radical":"言"}
{"character":"言","definition":"words, speech; to say, to talk","pinyin":["yán"],"decomposition":"？","radical":"言"}
not json
{"character":"明","definition":"bright","pinyin":["míng"],"decomposition":"⿰日月","radical":"日"}
`

func loadSample(t *testing.T) *Dictionary {
	t.Helper()
	d := NewDictionary()
	require.NoError(t, d.Load(strings.NewReader(sample)))
	return d
}

func TestLoadSkipsMalformed(t *testing.T) {
	d := loadSample(t)
	assert.Equal(t, 3, d.Size())
	assert.Nil(t, d.Lookup("日"))
	assert.Equal(t, "言", d.Lookup("語").Radical)
}

func TestEnrich(t *testing.T) {
	d := loadSample(t)

	k := &card.Kanji{ID: 1, Character: "語"}
	assert.True(t, d.Enrich(k))
	assert.Equal(t, "言", k.Bushu)
	assert.Equal(t, "words", k.BushuMeaning)

	// Existing values win.
	k = &card.Kanji{ID: 2, Character: "語", Bushu: "口", BushuMeaning: "mouth"}
	assert.False(t, d.Enrich(k))
	assert.Equal(t, "口", k.Bushu)

	assert.False(t, d.Enrich(&card.Kanji{ID: 3, Character: "日"}))
}

func TestBreakdown(t *testing.T) {
	d := loadSample(t)

	b := d.Breakdown("明")
	require.NotNil(t, b)
	assert.Equal(t, "left-right", b.Layout)
	assert.Equal(t, []string{"日", "月"}, b.Components)
	assert.Equal(t, map[string]string{"日": "left", "月": "right"}, b.Positions)
	assert.Equal(t, "left-right: 日 + 月", b.String())

	assert.Equal(t, "unknown", d.Breakdown("言").String())
	assert.Nil(t, d.Breakdown("火"))
}

func TestLayout(t *testing.T) {
	assert.Equal(t, "top-bottom", Layout("⿱艹化"))
	assert.Equal(t, "simple", Layout("日"))
	assert.Equal(t, "unknown", Layout(""))
	assert.Equal(t, map[string]string{"囗": "outer", "玉": "inner"}, Positions("⿴囗玉"))
}
