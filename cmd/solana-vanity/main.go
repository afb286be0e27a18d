package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/screa/solana-vanity/internal/config"
	logpkg "github.com/screa/solana-vanity/internal/logger"
	"github.com/screa/solana-vanity/internal/report"
	minerpkg "github.com/screa/solana-vanity/pkg/miner"
	"github.com/screa/solana-vanity/pkg/types"
)

func main() {
	if err := newRootCmd(config.NewConfig()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "solana-vanity",
		Short: "A CLI tool for generating solana vanity addresses",
		Long: `Searches random ed25519 keypairs in parallel until the base58 address
starts or ends with the requested pattern. Flexible matching accepts
look-alike characters (1/i/L, 5/s/S, ...) to shorten the search.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			env := config.NewConfig()
			if err := env.LoadEnv(cfg.EnvFile); err != nil {
				return err
			}
			mergeUnchanged(cmd.Flags(), cfg, env)
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMiner(cmd.Context(), cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&cfg.Find, "find", "f", cfg.Find, "Pattern to find (base58, up to 18 chars)")
	flags.IntVarP(&cfg.Threads, "threads", "t", cfg.Threads, "Number of worker goroutines")
	flags.VarP(&cfg.MatchType, "match-type", "m", "Where the pattern must appear")
	flags.BoolVarP(&cfg.CaseSensitive, "case-sensitivity", "s", cfg.CaseSensitive, "Match case exactly, true|false (true disables flexible chars)")
	flags.BoolVarP(&cfg.FlexibleChars, "flexible-chars", "l", cfg.FlexibleChars, "Accept look-alike characters, true|false")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")
	flags.BoolVarP(&cfg.Progress, "progress", "p", cfg.Progress, "Show a live progress spinner on stderr")
	flags.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file for output (default: stdout)")
	flags.IntVarP(&cfg.LogInterval, "log-interval", "i", cfg.LogInterval, "Verbose progress interval in seconds")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Give up after this long (0 = never)")
	flags.StringVarP(&cfg.OutFile, "outfile", "o", cfg.OutFile, "Write the found keypair to this file (solana-keygen format)")
	flags.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Dotenv file with VANITY_* defaults")

	// these two take an explicit value: -s false, -l true
	for _, name := range []string{"case-sensitivity", "flexible-chars"} {
		flags.Lookup(name).NoOptDefVal = ""
	}

	return rootCmd
}

// mergeUnchanged copies environment-provided settings into cfg for every
// flag the user did not set explicitly.
func mergeUnchanged(flags *pflag.FlagSet, cfg, env *config.Config) {
	if !flags.Changed("find") {
		cfg.Find = env.Find
	}
	if !flags.Changed("threads") {
		cfg.Threads = env.Threads
	}
	if !flags.Changed("match-type") {
		cfg.MatchType = env.MatchType
	}
	if !flags.Changed("case-sensitivity") {
		cfg.CaseSensitive = env.CaseSensitive
	}
	if !flags.Changed("flexible-chars") {
		cfg.FlexibleChars = env.FlexibleChars
	}
	if !flags.Changed("log-file") {
		cfg.LogFile = env.LogFile
	}
}

func runMiner(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Setup logging
	logger, closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	logger.SetVerbose(cfg.Verbose)

	reporter := report.New(logger, cfg.LogFile == "" && !color.NoColor)

	miner, err := minerpkg.NewMiner(cfg.MatchConfig(), cfg.Threads, logger,
		minerpkg.WithLogInterval(time.Duration(cfg.LogInterval)*time.Second))
	if err != nil {
		return err
	}
	reporter.Config(cfg, miner.Difficulty())

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var progress *report.Progress
	if cfg.Progress {
		progress = report.StartProgress(os.Stderr, miner.Attempts, 100*time.Millisecond)
	}

	// Set up signal handling for Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Start mining in a goroutine
	resultChan := make(chan *types.Result, 1)
	go func() {
		resultChan <- miner.Search(ctx)
	}()

	// Wait for either completion or signal
	var result *types.Result
	select {
	case result = <-resultChan:
	case <-sigChan:
		if progress != nil {
			progress.Stop()
			progress = nil
		}
		reporter.Interrupted()
		miner.Stop()
		result = <-resultChan
	}
	if progress != nil {
		progress.Stop()
	}

	reporter.Result(result)

	if result.Found() && cfg.OutFile != "" {
		if err := result.Keypair.WriteFile(cfg.OutFile); err != nil {
			return fmt.Errorf("write keypair: %w", err)
		}
		reporter.Saved(cfg.OutFile)
	}
	return nil
}

func setupLogging(cfg *config.Config) (*logpkg.Logger, func(), error) {
	if cfg.LogFile == "" {
		// Log to stdout
		logger := logpkg.New()
		logger.SetFlags(logpkg.LstdFlags)
		return logger, func() {}, nil
	}

	// Log to file
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := logpkg.NewWriter(file)
	logger.SetFlags(logpkg.LstdFlags | logpkg.Lmicroseconds)
	return logger, func() { _ = file.Close() }, nil
}
