package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/f3rmion/kanjicard/internal/anki"
	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/spf13/cobra"
)

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Work with Anki decks",
	Long:  `Commands for reading Anki .apkg files into the collection and adding kanji data to them.`,
}

var ankiInspectCmd = &cobra.Command{
	Use:   "inspect <file.apkg>",
	Short: "Inspect an Anki deck",
	Long: `Inspect an Anki .apkg file to see its decks, note types, fields and
a few sample notes, with the character each note would import as.

Example:
  kanjicard anki inspect kanji.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiInspect,
}

var ankiImportCmd = &cobra.Command{
	Use:   "import <file.apkg>",
	Short: "Import kanji notes into the collection",
	Long: `Read kanji notes from an Anki deck and add them to the collection.

Kanji already in the collection keep their id, favorite flag and mnemonic;
the deck only fills fields that are empty.

Example:
  kanjicard anki import kanji.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiImport,
}

var ankiExportCmd = &cobra.Command{
	Use:   "export <file.apkg>",
	Short: "Add kanji fields from the collection to an Anki deck",
	Long: `Write a copy of an Anki deck whose kanji notes carry the collection's
meanings, readings, radical and mnemonic in extra fields.

Examples:
  kanjicard anki export kanji.apkg
  kanjicard anki export kanji.apkg -o kanji_full.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiExport,
}

var (
	ankiInspectLimit int
	ankiField        string
	ankiOutput       string
)

func init() {
	rootCmd.AddCommand(ankiCmd)
	ankiCmd.AddCommand(ankiInspectCmd)
	ankiCmd.AddCommand(ankiImportCmd)
	ankiCmd.AddCommand(ankiExportCmd)

	ankiInspectCmd.Flags().IntVarP(&ankiInspectLimit, "limit", "n", 5, "Number of sample notes to show")

	for _, c := range []*cobra.Command{ankiInspectCmd, ankiImportCmd, ankiExportCmd} {
		c.Flags().StringVarP(&ankiField, "field", "f", "", "Field holding the kanji (auto-detect if not specified)")
	}
	ankiExportCmd.Flags().StringVarP(&ankiOutput, "output", "o", "", "Output file (default <name>_kanjicard.apkg)")
}

func fieldMap() anki.FieldMap {
	m := anki.DefaultFieldMap
	if ankiField != "" {
		m.Character = []string{ankiField}
	}
	return m
}

func runAnkiInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	fmt.Printf("Opening: %s\n\n", path)

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	fmt.Print(pkg.Summary())
	fmt.Println()

	fmt.Println("Field Details:")
	for _, model := range pkg.Models {
		fmt.Printf("  %s:\n", model.Name)
		for _, field := range model.Fields {
			fmt.Printf("    [%d] %s\n", field.Ord, field.Name)
		}
	}
	fmt.Println()

	m := fieldMap()
	fmt.Printf("Sample Notes (first %d):\n", ankiInspectLimit)
	for i, note := range pkg.Notes {
		if i >= ankiInspectLimit {
			break
		}

		modelName := "unknown"
		if model := pkg.Model(note); model != nil {
			modelName = model.Name
		}

		char := pkg.NoteCharacter(note, m)
		if char == "" {
			char = "(none)"
		}
		fmt.Printf("  Note %d (%s) → kanji %s\n", note.ID, modelName, char)
		for _, name := range pkg.FieldNames(note) {
			value := strings.ReplaceAll(pkg.Field(note, name), "\n", " ")
			if len([]rune(value)) > 60 {
				value = string([]rune(value)[:60]) + "..."
			}
			fmt.Printf("    %s: %s\n", name, value)
		}
	}

	fmt.Printf("\n%d of %d notes have a kanji\n", len(pkg.Kanji(m)), len(pkg.Notes))
	return nil
}

func runAnkiImport(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := context.Background()
	seeder := env.seeder(nil, env.dictionary())

	b, err := seeder.ImportAnki(ctx, args[0], fieldMap(), env.store)
	if err != nil {
		return err
	}
	if err := env.store.SaveBatch(ctx, b); err != nil {
		return err
	}

	fmt.Printf("Imported %d kanji from %s\n", len(b.Kanji), filepath.Base(args[0]))
	return nil
}

func runAnkiExport(cmd *cobra.Command, args []string) error {
	path := args[0]
	output := ankiOutput
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + "_kanjicard.apkg"
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	ctx := context.Background()
	lookup := func(char string) *card.Kanji {
		k, err := env.store.GetKanjiByCharacter(ctx, char)
		if err != nil {
			return nil
		}
		return k
	}

	updated, err := pkg.Augment(fieldMap(), lookup)
	if err != nil {
		return fmt.Errorf("augmenting notes: %w", err)
	}
	if err := pkg.SaveAs(output); err != nil {
		return fmt.Errorf("writing package: %w", err)
	}

	fmt.Printf("Updated %d of %d notes → %s\n", updated, len(pkg.Notes), output)
	return nil
}
