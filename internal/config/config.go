package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/screa/solana-vanity/internal/crypto"
	"github.com/screa/solana-vanity/pkg/types"
)

// MaxPatternLen is well under the shortest address yet already far beyond
// what a brute-force search can finish.
const MaxPatternLen = 18

// Errors
var (
	ErrNoPattern                       = errors.New("must specify a pattern with --find")
	ErrInvalidPatternLength            = errors.New("pattern is too long to search for")
	ErrInvalidPatternCharacter         = errors.New("invalid character in pattern")
	ErrInvalidThreadCount              = errors.New("number of threads must be at least 1")
	ErrInsufficientHardwareParallelism = errors.New("not enough hardware threads")
	ErrInvalidMatchMode                = errors.New("invalid match type")
	ErrInvalidLogInterval              = errors.New("log interval must be positive")
)

// Environment variables read by LoadEnv
const (
	EnvFind          = "VANITY_FIND"
	EnvThreads       = "VANITY_THREADS"
	EnvMatchType     = "VANITY_MATCH_TYPE"
	EnvCaseSensitive = "VANITY_CASE_SENSITIVE"
	EnvFlexibleChars = "VANITY_FLEXIBLE_CHARS"
	EnvLogFile       = "VANITY_LOG_FILE"
)

// Config holds the application configuration
type Config struct {
	Find          string
	Threads       int
	MatchType     types.MatchMode
	CaseSensitive bool
	FlexibleChars bool
	Verbose       bool
	Progress      bool
	LogFile       string
	LogInterval   int // Logging interval in seconds
	Timeout       time.Duration
	OutFile       string
	EnvFile       string

	// hardware threads available; zero means runtime.NumCPU
	maxThreads int
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Threads:       2,
		MatchType:     types.Prefix,
		FlexibleChars: true,
		LogInterval:   5, // Default 5 seconds
		EnvFile:       ".env",
	}
}

// LoadEnv overlays settings from a dotenv file and the process environment.
// Process variables win over the file; a missing file is not an error.
func (c *Config) LoadEnv(path string) error {
	vars := map[string]string{}
	if path != "" {
		fileVars, err := godotenv.Read(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("read %s: %w", path, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}
	for _, key := range []string{EnvFind, EnvThreads, EnvMatchType, EnvCaseSensitive, EnvFlexibleChars, EnvLogFile} {
		if v, ok := os.LookupEnv(key); ok {
			vars[key] = v
		}
	}
	return c.apply(vars)
}

func (c *Config) apply(vars map[string]string) error {
	if v, ok := vars[EnvFind]; ok {
		c.Find = v
	}
	if v, ok := vars[EnvThreads]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidThreadCount, EnvThreads, v)
		}
		c.Threads = n
	}
	if v, ok := vars[EnvMatchType]; ok {
		mode, err := types.ParseMatchMode(v)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidMatchMode, err)
		}
		c.MatchType = mode
	}
	if v, ok := vars[EnvCaseSensitive]; ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCaseSensitive, err)
		}
		c.CaseSensitive = b
	}
	if v, ok := vars[EnvFlexibleChars]; ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFlexibleChars, err)
		}
		c.FlexibleChars = b
	}
	if v, ok := vars[EnvLogFile]; ok {
		c.LogFile = v
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := ValidatePattern(c.Find); err != nil {
		return err
	}
	if err := c.validateThreads(); err != nil {
		return err
	}
	switch c.MatchType {
	case types.Prefix, types.Suffix, types.Either:
	default:
		return fmt.Errorf("%w: %d", ErrInvalidMatchMode, int(c.MatchType))
	}
	if c.LogInterval <= 0 {
		return ErrInvalidLogInterval
	}
	return nil
}

// ValidatePattern checks length and alphabet of a search pattern
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return ErrNoPattern
	}
	if len(pattern) > MaxPatternLen {
		return fmt.Errorf("%w; current char limit: %d", ErrInvalidPatternLength, MaxPatternLen)
	}
	for _, ch := range pattern {
		if !strings.ContainsRune(crypto.Base58Alphabet, ch) {
			return fmt.Errorf("%w '%c'. Only base58 characters allowed: %s",
				ErrInvalidPatternCharacter, ch, crypto.Base58Alphabet)
		}
	}
	return nil
}

func (c *Config) validateThreads() error {
	if c.Threads < 1 {
		return ErrInvalidThreadCount
	}
	available := c.maxThreads
	if available <= 0 {
		available = runtime.NumCPU()
	}
	if c.Threads > available {
		return fmt.Errorf("%w: requested %d threads but only %d hardware threads (logical cores) available, which may cause performance degradation",
			ErrInsufficientHardwareParallelism, c.Threads, available)
	}
	return nil
}

// MatchConfig returns the matching record for the search core
func (c *Config) MatchConfig() types.MatchConfig {
	return types.NewMatchConfig(c.Find, c.MatchType, c.CaseSensitive, c.FlexibleChars)
}

// GetTargetDescription returns a human-readable description of the target
func (c *Config) GetTargetDescription() string {
	return c.MatchType.String() + ": " + c.Find
}

// EffectiveFlexible reports whether flexible matching will actually be used
func (c *Config) EffectiveFlexible() bool {
	return c.FlexibleChars && !c.CaseSensitive
}
