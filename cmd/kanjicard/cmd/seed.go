package cmd

import (
	"context"
	"fmt"

	"github.com/f3rmion/kanjicard/internal/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed [dir]",
	Short: "Load a deck into the database",
	Long: `Load kanji, example sentences, phrases and conversations into the
database. Without a directory the built-in sample deck is loaded; with one,
every *.yaml and *.yml file in it is merged and loaded.

Existing records with the same id are replaced, so seeding is repeatable.

Examples:
  kanjicard seed
  kanjicard seed ./decks
  kanjicard seed --dump sample.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeed,
}

var seedDump string

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedDump, "dump", "", "write the deck to this YAML file instead of loading it")
}

func runSeed(cmd *cobra.Command, args []string) error {
	var (
		deck *seed.Deck
		err  error
	)
	if len(args) == 1 {
		deck, err = seed.LoadDir(args[0])
	} else {
		deck, err = seed.Sample()
	}
	if err != nil {
		return err
	}

	if seedDump != "" {
		if err := seed.SaveDeck(seedDump, deck); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", seedDump)
		return nil
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := context.Background()
	b, err := env.seeder(env.analyzer(), env.dictionary()).Build(deck)
	if err != nil {
		return fmt.Errorf("building deck: %w", err)
	}
	if err := env.store.SaveBatch(ctx, b); err != nil {
		return err
	}

	fmt.Printf("Seeded %d kanji, %d examples, %d phrases, %d conversations\n",
		len(b.Kanji), len(b.Examples), len(b.Phrases), len(b.Conversations))

	stats, err := env.store.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Database now holds %d kanji and %d phrases (%d favorites)\n",
		stats.Kanji, stats.Phrases, stats.Favorites)
	return nil
}
