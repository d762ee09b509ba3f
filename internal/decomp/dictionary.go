// Package decomp reads character decomposition data in the Make Me a Hanzi
// JSONL format and uses it to fill in radical (bushu) information on kanji.
package decomp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/f3rmion/kanjicard/internal/card"
)

// Entry is a single line of the dictionary file.
type Entry struct {
	Character     string     `json:"character"`
	Definition    string     `json:"definition"`
	Pinyin        []string   `json:"pinyin"`
	Decomposition string     `json:"decomposition"`
	Etymology     *Etymology `json:"etymology,omitempty"`
	Radical       string     `json:"radical"`
}

// Etymology describes how a character was formed.
type Etymology struct {
	Type     string `json:"type"`               // pictophonetic, pictographic, ideographic
	Semantic string `json:"semantic,omitempty"` // meaning component
	Phonetic string `json:"phonetic,omitempty"` // sound component
	Hint     string `json:"hint,omitempty"`
}

// Dictionary maps characters to entries.
type Dictionary struct {
	entries map[string]*Entry
}

// DefaultPaths are searched by LoadFirst when no path is configured.
var DefaultPaths = []string{
	"data/dictionary.jsonl",
	"/usr/local/share/kanjicard/dictionary.jsonl",
}

// NewDictionary creates an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		entries: make(map[string]*Entry),
	}
}

// LoadFromFile loads entries from a JSONL file.
func (d *Dictionary) LoadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening dictionary file: %w", err)
	}
	defer file.Close()

	return d.Load(file)
}

// LoadFirst loads the first readable file among paths and returns its path.
// It returns "" when none could be loaded.
func (d *Dictionary) LoadFirst(paths ...string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := d.LoadFromFile(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads JSONL entries from r. Malformed lines are skipped.
func (d *Dictionary) Load(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil || entry.Character == "" {
			continue
		}
		d.entries[entry.Character] = &entry
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading dictionary: %w", err)
	}
	return nil
}

// Lookup returns the entry for a character, or nil.
func (d *Dictionary) Lookup(char string) *Entry {
	return d.entries[char]
}

// Size returns the number of entries.
func (d *Dictionary) Size() int {
	return len(d.entries)
}

// Enrich fills an empty Bushu and BushuMeaning from the dictionary. It
// reports whether anything changed.
func (d *Dictionary) Enrich(k *card.Kanji) bool {
	e := d.Lookup(k.Character)
	if e == nil || e.Radical == "" {
		return false
	}

	changed := false
	if k.Bushu == "" {
		k.Bushu = e.Radical
		changed = true
	}
	if k.BushuMeaning == "" && k.Bushu == e.Radical {
		if r := d.Lookup(e.Radical); r != nil && r.Definition != "" {
			k.BushuMeaning = firstSense(r.Definition)
			changed = true
		}
	}
	return changed
}

func firstSense(def string) string {
	if i := strings.IndexAny(def, ";,"); i >= 0 {
		def = def[:i]
	}
	return strings.TrimSpace(def)
}

// Breakdown is a structural description of a character.
type Breakdown struct {
	Layout     string
	Components []string
	Positions  map[string]string
}

// Breakdown describes the character's components, or returns nil when the
// character is unknown.
func (d *Dictionary) Breakdown(char string) *Breakdown {
	e := d.Lookup(char)
	if e == nil {
		return nil
	}
	return &Breakdown{
		Layout:     Layout(e.Decomposition),
		Components: Components(e.Decomposition),
		Positions:  Positions(e.Decomposition),
	}
}

func (b *Breakdown) String() string {
	if len(b.Components) == 0 {
		return b.Layout
	}
	return fmt.Sprintf("%s: %s", b.Layout, strings.Join(b.Components, " + "))
}

// Ideographic description characters and the layouts they describe.
var idsChars = map[rune]string{
	'⿰': "left-right",
	'⿱': "top-bottom",
	'⿲': "left-mid-right",
	'⿳': "top-mid-bottom",
	'⿴': "surround",
	'⿵': "surround-top",
	'⿶': "surround-bottom",
	'⿷': "surround-left",
	'⿸': "surround-upper-left",
	'⿹': "surround-upper-right",
	'⿺': "surround-lower-left",
	'⿻': "overlaid",
}

func unknown(decomposition string) bool {
	return decomposition == "" || decomposition == "？"
}

// Components extracts the component characters of an IDS decomposition.
func Components(decomposition string) []string {
	if unknown(decomposition) {
		return nil
	}

	var components []string
	for _, r := range decomposition {
		if _, isIDS := idsChars[r]; isIDS || r == '？' {
			continue
		}
		if unicode.Is(unicode.Han, r) || isRadical(r) {
			components = append(components, string(r))
		}
	}
	return components
}

// CJK Radicals Supplement and Kangxi Radicals blocks.
func isRadical(r rune) bool {
	return (r >= 0x2E80 && r <= 0x2EFF) || (r >= 0x2F00 && r <= 0x2FDF)
}

// Layout names the outermost structure of a decomposition.
func Layout(decomposition string) string {
	if unknown(decomposition) {
		return "unknown"
	}
	for _, r := range decomposition {
		if desc, ok := idsChars[r]; ok {
			return desc
		}
	}
	return "simple"
}

// Positions maps each top-level component to where it sits.
func Positions(decomposition string) map[string]string {
	positions := make(map[string]string)
	comps := Components(decomposition)

	var names []string
	switch Layout(decomposition) {
	case "left-right":
		names = []string{"left", "right"}
	case "top-bottom":
		names = []string{"top", "bottom"}
	case "left-mid-right":
		names = []string{"left", "middle", "right"}
	case "top-mid-bottom":
		names = []string{"top", "middle", "bottom"}
	case "surround", "surround-top", "surround-bottom", "surround-left",
		"surround-upper-left", "surround-upper-right", "surround-lower-left":
		names = []string{"outer", "inner"}
	}

	for i, c := range comps {
		if i < len(names) {
			positions[c] = names[i]
		} else {
			positions[c] = fmt.Sprintf("component %d", i+1)
		}
	}
	return positions
}
