// Package matcher decides whether a base-58 address satisfies a vanity
// pattern. All functions are pure and safe for concurrent use.
package matcher

import (
	"math"

	"github.com/screa/solana-vanity/internal/crypto"
	"github.com/screa/solana-vanity/pkg/types"
)

// Matches reports whether address satisfies cfg. A pattern longer than the
// address never matches.
func Matches(address string, cfg *types.MatchConfig) bool {
	flexible := cfg.FlexibleChars && !cfg.CaseSensitive

	switch cfg.Mode {
	case types.Prefix:
		return matchesPrefix(address, cfg.Pattern, cfg.CaseSensitive, flexible)
	case types.Suffix:
		return matchesSuffix(address, cfg.Pattern, cfg.CaseSensitive, flexible)
	case types.Either:
		// prefix first, suffix is never evaluated on a prefix hit
		if matchesPrefix(address, cfg.Pattern, cfg.CaseSensitive, flexible) {
			return true
		}
		return matchesSuffix(address, cfg.Pattern, cfg.CaseSensitive, flexible)
	}
	return false
}

func matchesPrefix(address, pattern string, caseSensitive, flexible bool) bool {
	if len(pattern) > len(address) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		if !MatchesChar(address[i], pattern[i], caseSensitive, flexible) {
			return false
		}
	}
	return true
}

func matchesSuffix(address, pattern string, caseSensitive, flexible bool) bool {
	if len(pattern) > len(address) {
		return false
	}
	start := len(address) - len(pattern)
	for i := 0; i < len(pattern); i++ {
		if !MatchesChar(address[start+i], pattern[i], caseSensitive, flexible) {
			return false
		}
	}
	return true
}

// MatchesChar compares one address byte c against pattern byte target.
// Case-sensitive comparison is exact and wins over flexible.
func MatchesChar(c, target byte, caseSensitive, flexible bool) bool {
	switch {
	case caseSensitive:
		return c == target
	case flexible:
		return matchesFlexible(c, target)
	default:
		return equalFold(c, target)
	}
}

// equalFold is ASCII-only case-insensitive byte equality
func equalFold(a, b byte) bool {
	return lower(a) == lower(b)
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// Difficulty estimates the expected number of random addresses needed to
// find a match for cfg, assuming every address character is uniform over
// the base-58 alphabet.
func Difficulty(cfg *types.MatchConfig) float64 {
	if len(cfg.Pattern) == 0 {
		return 1
	}
	flexible := cfg.FlexibleChars && !cfg.CaseSensitive
	alphabet := crypto.Base58Alphabet

	p := 1.0
	for i := 0; i < len(cfg.Pattern); i++ {
		accepted := 0
		for j := 0; j < len(alphabet); j++ {
			if MatchesChar(alphabet[j], cfg.Pattern[i], cfg.CaseSensitive, flexible) {
				accepted++
			}
		}
		if accepted == 0 {
			return math.Inf(1)
		}
		p *= float64(accepted) / float64(len(alphabet))
	}

	if cfg.Mode == types.Either {
		p = 2*p - p*p
	}
	return 1 / p
}
