package report

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress renders a live spinner with the running attempt count and rate
type Progress struct {
	bar      *progressbar.ProgressBar
	attempts func() int64
	stop     chan struct{}
	done     chan struct{}
}

// StartProgress polls attempts every interval and redraws the spinner on w
// until Stop is called.
func StartProgress(w io.Writer, attempts func() int64, interval time.Duration) *Progress {
	p := &Progress{
		bar: progressbar.NewOptions64(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("searching"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("keys"),
			progressbar.OptionThrottle(interval),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionClearOnFinish(),
		),
		attempts: attempts,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go p.loop(interval)
	return p
}

func (p *Progress) loop(interval time.Duration) {
	defer close(p.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = p.bar.Set64(p.attempts())
		case <-p.stop:
			_ = p.bar.Set64(p.attempts())
			_ = p.bar.Finish()
			return
		}
	}
}

// Stop clears the spinner and waits for the redraw loop to exit.
// It must be called once.
func (p *Progress) Stop() {
	close(p.stop)
	<-p.done
}
