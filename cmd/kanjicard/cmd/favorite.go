package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/f3rmion/kanjicard/internal/favorite"
	"github.com/f3rmion/kanjicard/internal/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite <character|phrase-id>",
	Short: "Toggle the favorite flag of a kanji or phrase",
	Long: `Toggle the favorite flag of a kanji, given by its character, or of a
phrase, given by the id shown in 'kanjicard list --phrases'.

If the database refuses the write the flag is left as it was.`,
	Args: cobra.ExactArgs(1),
	RunE: runFavorite,
}

func init() {
	rootCmd.AddCommand(favoriteCmd)
}

func runFavorite(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := context.Background()
	var (
		target favorite.Target
		name   string
	)
	if id, perr := uuid.Parse(args[0]); perr == nil {
		p, err := env.store.GetPhrase(ctx, id)
		if err != nil {
			return notFound(args[0], err)
		}
		target, name = p, p.JapaneseSentence
	} else {
		k, err := env.store.GetKanjiByCharacter(ctx, args[0])
		if err != nil {
			return notFound(args[0], err)
		}
		target, name = k, k.Character
	}

	res, err := favorite.NewToggler(env.store, env.logger).Toggle(ctx, target)
	if res == favorite.RolledBack {
		return fmt.Errorf("saving favorite for %s: %w", name, err)
	}
	fmt.Printf("%s %s\n", star(target.Favorite()), name)
	return nil
}

func notFound(what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s is not in the collection", what)
	}
	return err
}
