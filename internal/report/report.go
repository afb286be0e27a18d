// Package report formats search configuration and results for the console.
package report

import (
	"github.com/fatih/color"

	"github.com/screa/solana-vanity/internal/config"
	"github.com/screa/solana-vanity/internal/logger"
	"github.com/screa/solana-vanity/pkg/types"
)

// Reporter writes human-readable output through a logger
type Reporter struct {
	log     *logger.Logger
	title   *color.Color
	found   *color.Color
	secret  *color.Color
	warning *color.Color
}

// New creates a reporter. Colour is only applied when colorize is set, so
// log files stay free of escape codes.
func New(log *logger.Logger, colorize bool) *Reporter {
	r := &Reporter{
		log:     log,
		title:   color.New(color.FgCyan, color.Bold),
		found:   color.New(color.FgGreen, color.Bold),
		secret:  color.New(color.FgYellow),
		warning: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{r.title, r.found, r.secret, r.warning} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Config prints the search settings before the run starts
func (r *Reporter) Config(cfg *config.Config, difficulty float64) {
	r.log.Println(r.title.Sprint("Now searching with the following config:"))
	r.log.Printf("  Pattern: %s", cfg.Find)
	r.log.Printf("  Threads: %d", cfg.Threads)
	r.log.Printf("  Match Type: %s", cfg.MatchType)
	r.log.Printf("  Case Sensitivity: %t", cfg.CaseSensitive)
	r.log.Printf("  Flexible Char Set: %t", cfg.EffectiveFlexible())
	r.log.Printf("  Expected attempts: ~%.0f", difficulty)
	if cfg.Timeout > 0 {
		r.log.Printf("  Timeout: %v", cfg.Timeout)
	}
}

// Result prints the outcome of a search
func (r *Reporter) Result(res *types.Result) {
	if res.Found() {
		r.log.Println(r.found.Sprint("🎉 Found match!"))
		r.log.Printf("Found address: %s", r.found.Sprint(res.Keypair.Address))
		r.log.Printf("KP: %s", r.secret.Sprint(res.Keypair.SecretBase58()))
	} else {
		r.log.Println(r.warning.Sprint("No matching keypair found"))
	}

	r.log.Printf("Attempts: %d", res.Attempts)

	// Calculate rate safely
	rate := 0.0
	if res.Duration.Seconds() > 0 {
		rate = float64(res.Attempts) / res.Duration.Seconds()
	}
	r.log.Printf("Rate: %.2f keys/sec", rate)
	r.log.Printf("Took %.2f minutes", res.Duration.Minutes())
}

// Saved notes where the keypair file was written
func (r *Reporter) Saved(path string) {
	r.log.Printf("Keypair written to %s", path)
}

// Interrupted notes that the user stopped the search
func (r *Reporter) Interrupted() {
	r.log.Println(r.warning.Sprint("Received interrupt signal. Stopping workers..."))
}
