package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/screa/solana-vanity/internal/crypto"
)

// MatchMode selects where in the address the pattern must appear
type MatchMode int

const (
	Prefix MatchMode = iota
	Suffix
	Either
)

// String returns the lowercase flag spelling of the mode
func (m MatchMode) String() string {
	switch m {
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	case Either:
		return "either"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// Set implements pflag.Value
func (m *MatchMode) Set(s string) error {
	mode, err := ParseMatchMode(s)
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Type implements pflag.Value
func (m *MatchMode) Type() string {
	return "prefix|suffix|either"
}

// ParseMatchMode parses a mode name, ignoring case
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prefix":
		return Prefix, nil
	case "suffix":
		return Suffix, nil
	case "either":
		return Either, nil
	}
	return Prefix, fmt.Errorf("unknown match type %q (want prefix, suffix or either)", s)
}

// MatchConfig is the read-only matching record handed to the search core
type MatchConfig struct {
	Pattern       string
	Mode          MatchMode
	CaseSensitive bool
	FlexibleChars bool // always false when CaseSensitive is set
}

// NewMatchConfig builds a MatchConfig, dropping flexible matching for
// case-sensitive searches.
func NewMatchConfig(pattern string, mode MatchMode, caseSensitive, flexible bool) MatchConfig {
	return MatchConfig{
		Pattern:       pattern,
		Mode:          mode,
		CaseSensitive: caseSensitive,
		FlexibleChars: flexible && !caseSensitive,
	}
}

// Result represents the outcome of a search run. A nil Keypair means no
// match was found before the search was cancelled.
type Result struct {
	Keypair  *crypto.Keypair
	WorkerID int
	Attempts int64
	Duration time.Duration
}

// Found reports whether the search produced a keypair
func (r *Result) Found() bool {
	return r != nil && r.Keypair != nil
}

// State is the lifecycle of a single search run
type State int32

const (
	Idle State = iota
	Running
	Found
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Found:
		return "found"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}
