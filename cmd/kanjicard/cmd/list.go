package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/f3rmion/kanjicard/internal/card"
	"github.com/f3rmion/kanjicard/internal/store"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List kanji or phrases",
	Long: `List the kanji collection, easiest level first, or the phrases.

Examples:
  kanjicard list
  kanjicard list --level 5 --favorites
  kanjicard list --query 말
  kanjicard list --phrases`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show <character>",
	Short: "Show a kanji card with its examples",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var (
	listLevel     int
	listFavorites bool
	listQuery     string
	listPhrases   bool
)

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)

	listCmd.Flags().IntVarP(&listLevel, "level", "l", 0, "JLPT level (1-5)")
	listCmd.Flags().BoolVarP(&listFavorites, "favorites", "f", false, "favorites only")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "match character, reading or meaning")
	listCmd.Flags().BoolVar(&listPhrases, "phrases", false, "list phrases instead of kanji")
}

func runList(cmd *cobra.Command, args []string) error {
	if listLevel < 0 || listLevel > 5 {
		return fmt.Errorf("level must be between 1 and 5")
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := context.Background()
	if listPhrases {
		phrases, err := env.store.ListPhrases(ctx, listFavorites)
		if err != nil {
			return err
		}
		for _, p := range phrases {
			fmt.Printf("%s %s  %s\n", star(p.IsFavorite), p.ID, p.JapaneseSentence)
			if p.KoreanSentence != "" {
				fmt.Printf("    %s\n", p.KoreanSentence)
			}
		}
		fmt.Printf("\n%d phrases\n", len(phrases))
		return nil
	}

	kanji, err := env.store.ListKanji(ctx, store.KanjiFilter{
		JLPTLevel:     listLevel,
		FavoritesOnly: listFavorites,
		Query:         listQuery,
	})
	if err != nil {
		return err
	}

	for _, k := range kanji {
		meaning := runewidth.FillRight(runewidth.Truncate(strings.Join(k.Meanings, ", "), 28, "…"), 28)
		fmt.Printf("%s %s %-3s %s %s\n", star(k.IsFavorite), k.Character, k.JLPTLabel(), meaning, k.Readings())
	}
	fmt.Printf("\n%d kanji\n", len(kanji))
	return nil
}

func star(favorite bool) string {
	if favorite {
		return "★"
	}
	return "☆"
}

func runShow(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := context.Background()
	k, err := env.store.GetKanjiByCharacter(ctx, args[0])
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s is not in the collection", args[0])
	}
	if err != nil {
		return err
	}

	printKanji(k)

	analyzer := env.analyzer()
	if analyzer != nil {
		if py := analyzer.Pinyin(k.Character); len(py) > 0 {
			fmt.Printf("  Pinyin:   %s\n", strings.Join(py, ", "))
		}
	}
	if b := env.dictionary().Breakdown(k.Character); b != nil {
		fmt.Printf("  Parts:    %s\n", b.String())
	}

	examples, err := env.store.ExamplesForKanji(ctx, k.ID)
	if err != nil {
		return err
	}
	if len(examples) > 0 {
		fmt.Println()
		fmt.Println("Examples:")
		for _, e := range examples {
			fmt.Printf("  %s\n", e.Japanese)
			if e.Hiragana != "" {
				fmt.Printf("    %s\n", e.Hiragana)
			}
			if e.Korean != "" {
				fmt.Printf("    %s\n", e.Korean)
			}
		}
	}
	return nil
}

func printKanji(k *card.Kanji) {
	fmt.Printf("%s %s  %s\n\n", k.Character, star(k.IsFavorite), k.JLPTLabel())
	field := func(label, value string) {
		if value != "" {
			fmt.Printf("  %-9s %s\n", label+":", value)
		}
	}
	field("Meaning", strings.Join(k.Meanings, ", "))
	field("On", strings.Join(k.Onyomi, "・"))
	field("Kun", strings.Join(k.Kunyomi, "・"))
	if k.Bushu != "" {
		field("Radical", strings.TrimSpace(k.Bushu+" "+k.BushuMeaning))
	}
	if k.StrokeCount > 0 {
		field("Strokes", fmt.Sprint(k.StrokeCount))
	}
	field("Mnemonic", k.Mnemonic)
}
