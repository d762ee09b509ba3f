package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/kanjicard/internal/speech"
	"github.com/f3rmion/kanjicard/internal/tui/components"
	"github.com/spf13/cobra"
)

var highlightCmd = &cobra.Command{
	Use:   "highlight <sentence> <location> <length>",
	Short: "Split a sentence around a spoken range",
	Long: `Split a sentence into the segments the narrator would draw when the
given range is being spoken. Location and length count UTF-16 code units.
A range that doesn't fit the sentence leaves it unhighlighted.

Example:
  kanjicard highlight 日本語を話す 2 2`,
	Args: cobra.ExactArgs(3),
	RunE: runHighlight,
}

var highlightInactive bool

func init() {
	rootCmd.AddCommand(highlightCmd)

	highlightCmd.Flags().BoolVar(&highlightInactive, "inactive", false, "treat the sentence as not being spoken")
}

func runHighlight(cmd *cobra.Command, args []string) error {
	loc, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("parsing location: %w", err)
	}
	length, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("parsing length: %w", err)
	}

	segments := speech.Highlight(args[0], &speech.Range{Location: loc, Length: length}, !highlightInactive)

	fmt.Println(components.HighlightedText(segments, components.HighlightNormal, components.HighlightActive))
	fmt.Println()

	label := lipgloss.NewStyle().Foreground(components.ColorMuted).Width(8)
	for _, s := range segments {
		fmt.Printf("%s%q\n", label.Render(s.Style.String()), s.Text)
	}
	return nil
}
