// Package anki reads and augments Anki .apkg packages. A package is a zip
// archive holding a SQLite collection.
package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// fieldSep separates note fields inside the flds column.
const fieldSep = "\x1f"

// Package is an opened .apkg file extracted to a temp directory.
type Package struct {
	path    string
	tempDir string
	db      *sql.DB
	Models  map[int64]*Model
	Decks   map[int64]*Deck
	Notes   []*Note
	Cards   int
}

// Model is an Anki note type.
type Model struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"flds"`
	CSS    string  `json:"css"`
	Type   int     `json:"type"` // 0 = standard, 1 = cloze
}

// Field is one field of a note type.
type Field struct {
	Name   string `json:"name"`
	Ord    int    `json:"ord"`
	Sticky bool   `json:"sticky"`
	RTL    bool   `json:"rtl"`
	Font   string `json:"font"`
	Size   int    `json:"size"`
}

// Deck is an Anki deck.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Note is an Anki note with its fields split out.
type Note struct {
	ID      int64
	GUID    string
	ModelID int64
	Mod     int64
	Tags    string
	Fields  []string
	SFLD    string
	CSum    int64

	dirty bool
}

// OpenPackage extracts and loads an .apkg file. Close removes the
// extracted files.
func OpenPackage(path string) (*Package, error) {
	pkg := &Package{
		path:   path,
		Models: make(map[int64]*Model),
		Decks:  make(map[int64]*Deck),
	}

	tempDir, err := os.MkdirTemp("", "kanjicard-anki-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	pkg.tempDir = tempDir

	if err := pkg.extract(); err != nil {
		pkg.Close()
		return nil, err
	}

	dbPath := filepath.Join(tempDir, "collection.anki21")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = filepath.Join(tempDir, "collection.anki2")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		pkg.Close()
		return nil, fmt.Errorf("opening collection: %w", err)
	}
	pkg.db = db

	for _, load := range []func() error{pkg.loadCollection, pkg.loadNotes, pkg.countCards} {
		if err := load(); err != nil {
			pkg.Close()
			return nil, err
		}
	}

	return pkg, nil
}

func (p *Package) extract() error {
	r, err := zip.OpenReader(p.path)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(p.tempDir) + string(os.PathSeparator)
	for _, f := range r.File {
		fpath := filepath.Join(p.tempDir, f.Name)
		if !strings.HasPrefix(fpath, root) {
			return fmt.Errorf("illegal file path in package: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(fpath, 0755); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(f, fpath); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.Copy(out, rc)
	return err
}

func (p *Package) loadCollection() error {
	var models, decks string
	if err := p.db.QueryRow("SELECT models, decks FROM col").Scan(&models, &decks); err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	var modelsMap map[string]*Model
	if err := json.Unmarshal([]byte(models), &modelsMap); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}
	for _, m := range modelsMap {
		sort.Slice(m.Fields, func(i, j int) bool { return m.Fields[i].Ord < m.Fields[j].Ord })
		p.Models[m.ID] = m
	}

	var decksMap map[string]*Deck
	if err := json.Unmarshal([]byte(decks), &decksMap); err != nil {
		return fmt.Errorf("parsing decks: %w", err)
	}
	for _, d := range decksMap {
		p.Decks[d.ID] = d
	}
	return nil
}

func (p *Package) loadNotes() error {
	rows, err := p.db.Query(`SELECT id, guid, mid, mod, tags, flds, sfld, csum FROM notes ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n    Note
			flds string
		)
		if err := rows.Scan(&n.ID, &n.GUID, &n.ModelID, &n.Mod, &n.Tags, &flds, &n.SFLD, &n.CSum); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}
		n.Fields = strings.Split(flds, fieldSep)
		p.Notes = append(p.Notes, &n)
	}
	return rows.Err()
}

func (p *Package) countCards() error {
	if err := p.db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&p.Cards); err != nil {
		return fmt.Errorf("counting cards: %w", err)
	}
	return nil
}

// Model returns the note type of a note, or nil.
func (p *Package) Model(n *Note) *Model {
	return p.Models[n.ModelID]
}

// Field returns a note's field by name, compared case-insensitively.
func (p *Package) Field(n *Note, name string) string {
	m := p.Model(n)
	if m == nil {
		return ""
	}
	for _, f := range m.Fields {
		if strings.EqualFold(f.Name, name) && f.Ord < len(n.Fields) {
			return n.Fields[f.Ord]
		}
	}
	return ""
}

// FieldNames lists the field names of a note's type in order.
func (p *Package) FieldNames(n *Note) []string {
	m := p.Model(n)
	if m == nil {
		return nil
	}
	names := make([]string, len(m.Fields))
	for i, f := range m.Fields {
		names[i] = f.Name
	}
	return names
}

// Close releases the database and removes extracted files.
func (p *Package) Close() error {
	if p.db != nil {
		p.db.Close()
	}
	if p.tempDir != "" {
		return os.RemoveAll(p.tempDir)
	}
	return nil
}

// Summary describes the package contents.
func (p *Package) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Anki package: %s\n", p.path)
	fmt.Fprintf(&sb, "  Decks: %d\n", len(p.Decks))
	for _, id := range sortedKeys(p.Decks) {
		fmt.Fprintf(&sb, "    - %s\n", p.Decks[id].Name)
	}
	fmt.Fprintf(&sb, "  Note types: %d\n", len(p.Models))
	for _, id := range sortedKeys(p.Models) {
		m := p.Models[id]
		fmt.Fprintf(&sb, "    - %s (%d fields)\n", m.Name, len(m.Fields))
	}
	fmt.Fprintf(&sb, "  Notes: %d\n", len(p.Notes))
	fmt.Fprintf(&sb, "  Cards: %d\n", p.Cards)

	return sb.String()
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
