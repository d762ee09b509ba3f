package anki

import (
	"archive/zip"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/f3rmion/kanjicard/internal/card"
)

// KanjiFields are appended to note types during augmentation.
var KanjiFields = []string{
	"Kanji_Meanings",
	"Kanji_Onyomi",
	"Kanji_Kunyomi",
	"Kanji_Bushu",
	"Kanji_Mnemonic",
	"Kanji_JLPT",
}

// AddKanjiFields adds any missing KanjiFields to a note type.
func (p *Package) AddKanjiFields(modelID int64) error {
	model, ok := p.Models[modelID]
	if !ok {
		return fmt.Errorf("note type %d not found", modelID)
	}

	existing := make(map[string]bool)
	for _, f := range model.Fields {
		existing[f.Name] = true
	}

	for _, name := range KanjiFields {
		if existing[name] {
			continue
		}
		model.Fields = append(model.Fields, Field{
			Name: name,
			Ord:  len(model.Fields),
			Font: "Arial",
			Size: 20,
		})
	}
	return nil
}

// SetKanjiData writes a kanji's details into the note's KanjiFields. The
// note type must already have them (see AddKanjiFields).
func (p *Package) SetKanjiData(n *Note, k *card.Kanji) error {
	model := p.Model(n)
	if model == nil {
		return fmt.Errorf("note type not found for note %d", n.ID)
	}

	for len(n.Fields) < len(model.Fields) {
		n.Fields = append(n.Fields, "")
	}

	values := map[string]string{
		"Kanji_Meanings": strings.Join(k.Meanings, ", "),
		"Kanji_Onyomi":   strings.Join(k.Onyomi, "、"),
		"Kanji_Kunyomi":  strings.Join(k.Kunyomi, "、"),
		"Kanji_Bushu":    strings.TrimSpace(k.Bushu + " " + k.BushuMeaning),
		"Kanji_Mnemonic": k.Mnemonic,
		"Kanji_JLPT":     k.JLPTLabel(),
	}
	for _, f := range model.Fields {
		if v, ok := values[f.Name]; ok {
			n.Fields[f.Ord] = v
		}
	}

	n.Mod = time.Now().Unix()
	n.dirty = true
	return nil
}

// SaveAs writes the package, including modified notes and note types, to
// a new .apkg file.
func (p *Package) SaveAs(outputPath string) error {
	if err := p.updateModels(); err != nil {
		return err
	}
	if err := p.updateNotes(); err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	err = filepath.Walk(p.tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		rel, err := filepath.Rel(p.tempDir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		return fmt.Errorf("writing package: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing package: %w", err)
	}
	return nil
}

// updateModels rewrites the note type JSON, merging our fields into the
// stored objects so unknown keys survive.
func (p *Package) updateModels() error {
	var raw string
	if err := p.db.QueryRow("SELECT models FROM col").Scan(&raw); err != nil {
		return fmt.Errorf("reading models: %w", err)
	}

	stored := make(map[string]map[string]any)
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}

	for id, m := range p.Models {
		key := strconv.FormatInt(id, 10)
		obj, ok := stored[key]
		if !ok {
			obj = map[string]any{"id": m.ID, "name": m.Name, "css": m.CSS, "type": m.Type}
			stored[key] = obj
		}
		obj["flds"] = m.Fields
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshaling models: %w", err)
	}
	if _, err := p.db.Exec("UPDATE col SET models = ?", string(data)); err != nil {
		return fmt.Errorf("updating models: %w", err)
	}
	return nil
}

func (p *Package) updateNotes() error {
	for _, n := range p.Notes {
		if !n.dirty {
			continue
		}
		n.SFLD = stripHTML(n.Fields[0])
		n.CSum = checksum(n.SFLD)

		_, err := p.db.Exec(`UPDATE notes SET mod = ?, flds = ?, sfld = ?, csum = ? WHERE id = ?`,
			n.Mod, strings.Join(n.Fields, fieldSep), n.SFLD, n.CSum, n.ID)
		if err != nil {
			return fmt.Errorf("updating note %d: %w", n.ID, err)
		}
		n.dirty = false
	}
	return nil
}

// checksum is the first 8 hex digits of the SHA-1 of the sort field, as
// Anki computes it.
func checksum(s string) int64 {
	sum := sha1.Sum([]byte(s))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return v
}
