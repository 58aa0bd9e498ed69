// Package main provides the lineshell CLI application entry point.
// lineshell is a line-oriented command dispatcher: input lines are
// matched against registered patterns and routed to the first handler
// that applies.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lineshell/internal/logger"
	"lineshell/internal/shell"
	"lineshell/internal/version"
	"lineshell/pkg/commander"
)

var (
	logLevel     string
	logFile      string
	promptText   string
	patternsFile string
	historyFile  string
	noticeText   string
	keepGoing    bool
)

// rootCmd represents the base command; without a subcommand it starts
// the interactive shell.
var rootCmd = &cobra.Command{
	Use:   "lineshell",
	Short: "lineshell - pattern-dispatched line shell",
	Long: `lineshell matches each input line against an ordered set of
regex-bound handlers and runs the first one that applies. It ships with
builtin help/exit commands, a stack-calculator demo command set, and
YAML-declared reply patterns.`,
	RunE: runShell,
}

// shellCmd is the explicit version of the default behavior.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start interactive shell mode",
	Long:  `Start the interactive lineshell prompt-read-dispatch loop.`,
	RunE:  runShell,
}

// batchCmd dispatches every line of a file without entering interactive
// mode; end of file terminates the loop cleanly.
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Dispatch each line of a file",
	Long: `Read a file line by line and dispatch each line as if it had been
typed at the prompt. The loop ends at end of input or at an exit line.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

// versionCmd prints build information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.GetFormattedVersion())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")
	rootCmd.PersistentFlags().StringVar(&promptText, "prompt", "lineshell", "Base prompt text")
	rootCmd.PersistentFlags().StringVar(&patternsFile, "patterns", "", "YAML reply-pattern file to load")
	rootCmd.PersistentFlags().StringVar(&historyFile, "history-file", "", "Readline history file")
	rootCmd.PersistentFlags().StringVar(&noticeText, "notice", "", "Unknown-command notice format (one %q verb)")
	rootCmd.PersistentFlags().BoolVar(&keepGoing, "keep-going", false, "Log handler errors and keep the loop running")

	for _, flag := range []string{"log-level", "log-file", "prompt", "patterns", "history-file", "notice", "keep-going"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", flag, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// A .env in the working directory may carry LINESHELL_* settings;
	// absence is not an error.
	_ = godotenv.Load()

	viper.SetEnvPrefix("LINESHELL")
	viper.AutomaticEnv()

	if err := logger.Configure(viper.GetString("log-level"), viper.GetString("log-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func shellConfig() shell.Config {
	return shell.Config{
		Prompt:          viper.GetString("prompt"),
		HistoryFile:     viper.GetString("history-file"),
		PatternsFile:    viper.GetString("patterns"),
		Notice:          viper.GetString("notice"),
		ContinueOnError: viper.GetBool("keep-going"),
	}
}

func runShell(_ *cobra.Command, _ []string) error {
	logger.Info("starting lineshell", "version", version.GetVersion())

	runner, err := shell.NewRunner(shellConfig())
	if err != nil {
		return fmt.Errorf("initialize shell: %w", err)
	}
	return runner.Run()
}

func runBatch(_ *cobra.Command, args []string) error {
	path := args[0]
	logger.Info("starting lineshell batch mode", "version", version.GetVersion(), "file", path)

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open batch file: %w", err)
	}
	defer func() { _ = file.Close() }()

	cfg := shellConfig()
	opts := []commander.Option{
		commander.WithReader(commander.NewReader(file)),
	}
	if cfg.Notice != "" {
		opts = append(opts, commander.WithNotice(cfg.Notice))
	}
	if cfg.ContinueOnError {
		opts = append(opts, commander.WithContinueOnError())
	}

	cmdr, err := commander.New(opts...)
	if err != nil {
		return err
	}
	if err := shell.RegisterStackCommands(cmdr, shell.NewStack()); err != nil {
		return err
	}
	if cfg.PatternsFile != "" {
		patterns, err := shell.LoadPatterns(cfg.PatternsFile)
		if err != nil {
			return err
		}
		if err := patterns.Register(cmdr); err != nil {
			return err
		}
	}

	// No prompt in batch mode; end of file terminates the loop.
	return cmdr.Run(nil)
}
