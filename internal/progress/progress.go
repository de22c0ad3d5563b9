// Package progress defines the reporter interface injected into the
// hashing and transfer phases, per the spec's "Progress reporting" design
// note: the core never calls the terminal directly.
package progress

import (
	"io"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Reporter receives periodic progress updates. Implementations must be
// cheap to call frequently; callers throttle on their own schedule.
type Reporter interface {
	// Hashing reports that bytesDone bytes across filesCount files have
	// been hashed so far.
	Hashing(bytesDone int64, filesCount int)

	// Transferring reports that itemsDone of itemsTotal items (blobs) have
	// been transferred for the named operation (push/pull/fetch).
	Transferring(op string, itemsDone, itemsTotal int)

	// Done marks the current phase as finished and releases any terminal
	// resources.
	Done()
}

// NoOp discards all progress, used for non-interactive output (piped
// stdout, or library callers that don't want terminal control codes).
type NoOp struct{}

func (NoOp) Hashing(int64, int)       {}
func (NoOp) Transferring(string, int, int) {}
func (NoOp) Done()                    {}

// Terminal renders progress with a schollz/progressbar/v3 bar, humanizing
// byte counts. It degrades to NoOp-like silence automatically when w is not
// a terminal.
type Terminal struct {
	w        io.Writer
	fd       uintptr
	hashBar  *progressbar.ProgressBar
	xferBar  *progressbar.ProgressBar
}

// NewTerminal returns a Reporter that writes to w. fd should be the file
// descriptor backing w so isatty can gate on it; pass 0 to skip the check.
func NewTerminal(w io.Writer, fd uintptr) Reporter {
	if fd != 0 && !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return NoOp{}
	}
	return &Terminal{w: w, fd: fd}
}

func (t *Terminal) Hashing(bytesDone int64, filesCount int) {
	if t.hashBar == nil {
		t.hashBar = progressbar.NewOptions64(-1,
			progressbar.OptionSetWriter(t.w),
			progressbar.OptionSetDescription("hashing"),
			progressbar.OptionSpinnerType(14),
		)
	}
	t.hashBar.Describe("hashing: " + humanize.Bytes(uint64(bytesDone)) +
		", " + humanize.Comma(int64(filesCount)) + " files")
	_ = t.hashBar.RenderBlank()
}

func (t *Terminal) Transferring(op string, itemsDone, itemsTotal int) {
	if t.xferBar == nil || t.xferBar.GetMax() != itemsTotal {
		t.xferBar = progressbar.NewOptions(itemsTotal,
			progressbar.OptionSetWriter(t.w),
			progressbar.OptionSetDescription(op),
		)
	}
	_ = t.xferBar.Set(itemsDone)
}

func (t *Terminal) Done() {
	if t.hashBar != nil {
		_ = t.hashBar.Finish()
	}
	if t.xferBar != nil {
		_ = t.xferBar.Finish()
	}
}
