// Package cmd contains all CLI commands for kanjicard.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/kanjicard/internal/config"
	"github.com/f3rmion/kanjicard/internal/decomp"
	"github.com/f3rmion/kanjicard/internal/favorite"
	"github.com/f3rmion/kanjicard/internal/llm"
	"github.com/f3rmion/kanjicard/internal/logger"
	"github.com/f3rmion/kanjicard/internal/mnemonic"
	"github.com/f3rmion/kanjicard/internal/prompt"
	"github.com/f3rmion/kanjicard/internal/reading"
	"github.com/f3rmion/kanjicard/internal/seed"
	"github.com/f3rmion/kanjicard/internal/speech"
	"github.com/f3rmion/kanjicard/internal/store"
	"github.com/f3rmion/kanjicard/internal/tui"
	"github.com/f3rmion/kanjicard/internal/tui/bigchar"
	"github.com/f3rmion/kanjicard/internal/tui/views"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kanjicard",
	Short: "Japanese kanji and phrase flashcards for Korean speakers",
	Long: `kanjicard is a terminal flashcard app for Japanese kanji, example
sentences, phrases and short conversations, with Korean meanings.

Sentences can be narrated: the word being spoken is highlighted as the
narration advances. Favorites are saved immediately and undone if the
database refuses the write.

Running 'kanjicard' without arguments launches the interactive TUI.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config directory (default is $HOME/.config/kanjicard)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log at debug level")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig resolves the config directory and binds KANJICARD_* variables.
func initConfig() {
	if cfgFile != "" {
		viper.Set("config_dir", cfgFile)
	} else {
		dir, err := config.GetConfigDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}
		viper.Set("config_dir", dir)
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
}

// getConfigDir returns the configuration directory path.
func getConfigDir() string {
	return viper.GetString("config_dir")
}

// environment is what every command runs against: settings, the log file
// and the open store.
type environment struct {
	configDir string
	settings  *config.Settings
	logger    *slog.Logger
	store     *store.Store
	logFile   io.Closer
}

func openEnvironment() (*environment, error) {
	dir := getConfigDir()
	if err := config.EnsureDir(dir); err != nil {
		return nil, err
	}
	if err := config.LoadEnv(dir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	settings, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	level := settings.Log.Level
	if viper.GetBool("verbose") {
		level = "debug"
	}
	log, logFile, err := logger.Setup(dir, level)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(settings.Database.Driver, settings.Database.Path, log)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	log.Debug("environment ready",
		slog.String("config_dir", dir),
		slog.String("driver", settings.Database.Driver),
		slog.String("database", settings.Database.Path))

	return &environment{
		configDir: dir,
		settings:  settings,
		logger:    log,
		store:     st,
		logFile:   logFile,
	}, nil
}

func (e *environment) Close() error {
	err := e.store.Close()
	e.logFile.Close()
	return err
}

// analyzer returns the Japanese analyzer, or nil when its dictionary can't
// be loaded.
func (e *environment) analyzer() *reading.Analyzer {
	a, err := reading.NewAnalyzer()
	if err != nil {
		e.logger.Warn("analyzer unavailable", slog.String("error", err.Error()))
		return nil
	}
	return a
}

func (e *environment) dictionary() *decomp.Dictionary {
	dict := decomp.NewDictionary()
	if path := dict.LoadFirst(decomp.DefaultPaths...); path != "" {
		e.logger.Debug("dictionary loaded", slog.String("path", path), slog.Int("entries", dict.Size()))
	}
	return dict
}

func (e *environment) seeder(a *reading.Analyzer, dict *decomp.Dictionary) *seed.Seeder {
	var r seed.Reader
	if a != nil {
		r = a
	}
	return seed.NewSeeder(r, dict, e.logger)
}

func pinyinFunc(a *reading.Analyzer) func(string) []string {
	if a == nil {
		return nil
	}
	return a.Pinyin
}

// mnemonics returns the mnemonic service. It fails without an API key.
func (e *environment) mnemonics(dict *decomp.Dictionary, pinyin func(string) []string) (*mnemonic.Service, error) {
	client, err := llm.NewClientFromEnv(llm.WithModel(e.settings.LLM.Model))
	if err != nil {
		return nil, err
	}
	return mnemonic.NewService(e.store, client, prompt.NewGenerator(), dict, pinyin, e.logger), nil
}

// newVoice builds the system voice from settings. voice_command may carry
// arguments, as in "say -v Kyoko".
func newVoice(s config.SpeechSettings) speech.Voice {
	if !s.Voice {
		return nil
	}
	fields := strings.Fields(s.VoiceCommand)
	if len(fields) == 0 {
		return speech.DetectVoice("", "")
	}
	if speech.DetectVoice(fields[0], "") == nil {
		return nil
	}
	return speech.CommandVoice{Command: fields[0], Args: fields[1:]}
}

// runTUI launches the TUI application.
func runTUI(cmd *cobra.Command, args []string) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	analyzer := env.analyzer()
	dict := env.dictionary()

	var seg speech.Segmenter
	if analyzer != nil {
		seg = analyzer
	}
	narrator := speech.NewNarrator(seg, newVoice(env.settings.Speech), env.settings.Speech.WordsPerMinute, env.logger)

	deps := tui.Deps{
		Store:     env.store,
		Narrator:  narrator,
		Toggler:   favorite.NewToggler(env.store, env.logger),
		Seeder:    env.seeder(analyzer, dict),
		Dict:      dict,
		Art:       bigchar.New(bigchar.FontPaths...),
		Pinyin:    pinyinFunc(analyzer),
		Settings:  *env.settings,
		ConfigDir: env.configDir,
		Logger:    env.logger,
	}
	if svc, err := env.mnemonics(dict, deps.Pinyin); err == nil {
		deps.Mnemonics = svc
	} else {
		env.logger.Info("mnemonics disabled", slog.String("reason", err.Error()))
	}

	p := tea.NewProgram(tui.NewApp(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

var _ views.MnemonicGenerator = (*mnemonic.Service)(nil)
