package cmd

import (
	"context"
	"fmt"

	"github.com/f3rmion/kanjicard/internal/mnemonic"
	"github.com/f3rmion/kanjicard/internal/prompt"
	"github.com/spf13/cobra"
)

var mnemonicCmd = &cobra.Command{
	Use:   "mnemonic <character>",
	Short: "Write a mnemonic for a kanji with an LLM",
	Long: `Ask the Anthropic API for a short Korean memory story for a kanji and
save it on the card. Requires ANTHROPIC_API_KEY, which may also be set in
a .env file in the config directory.

Examples:
  kanjicard mnemonic 話
  kanjicard mnemonic 話 --prompt-only`,
	Args: cobra.ExactArgs(1),
	RunE: runMnemonic,
}

var mnemonicPromptOnly bool

func init() {
	rootCmd.AddCommand(mnemonicCmd)

	mnemonicCmd.Flags().BoolVar(&mnemonicPromptOnly, "prompt-only", false, "print the prompt without calling the API")
}

func runMnemonic(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := context.Background()
	k, err := env.store.GetKanjiByCharacter(ctx, args[0])
	if err != nil {
		return notFound(args[0], err)
	}

	dict := env.dictionary()
	pinyin := pinyinFunc(env.analyzer())

	if mnemonicPromptOnly {
		svc := mnemonic.NewService(env.store, nil, prompt.NewGenerator(), dict, pinyin, env.logger)
		text, err := svc.Prompt(ctx, k)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	}

	svc, err := env.mnemonics(dict, pinyin)
	if err != nil {
		return err
	}

	fmt.Printf("Writing a mnemonic for %s...\n\n", k.Character)
	text, err := svc.Generate(ctx, k)
	if err != nil {
		return err
	}
	fmt.Println(text)
	return nil
}
