// SPDX-License-Identifier: MIT

// Package progress renders a single-line progress bar for batch fetches.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/skaphos/pendector/internal/termstyle"
)

const (
	defaultWidth = 30
	defaultLabel = "Fetching repositories"
)

// Bar draws "<label> [#####-----] pos/total (elapsed)" with carriage-return
// redraws. Increment is safe for concurrent use.
type Bar struct {
	out   io.Writer
	label string
	width int
	now   func() time.Time

	filled lipgloss.Style
	empty  lipgloss.Style

	total    atomic.Int64
	pos      atomic.Int64
	mu       sync.Mutex
	started  time.Time
	finished bool
}

// Option customizes a Bar.
type Option func(*Bar)

// WithLabel replaces the leading label.
func WithLabel(label string) Option { return func(b *Bar) { b.label = label } }

// WithWidth sets the number of cells inside the brackets.
func WithWidth(width int) Option {
	return func(b *Bar) {
		if width > 0 {
			b.width = width
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(b *Bar) { b.now = now } }

// New returns a Bar writing to out. color enables styled output.
func New(out io.Writer, color bool, opts ...Option) *Bar {
	r := termstyle.Renderer(out, color)
	b := &Bar{
		out:    out,
		label:  defaultLabel,
		width:  defaultWidth,
		now:    time.Now,
		filled: r.NewStyle().Foreground(lipgloss.Color("6")),
		empty:  r.NewStyle().Foreground(lipgloss.Color("8")),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Start resets the bar for total items and draws it.
func (b *Bar) Start(total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.total.Store(int64(total))
	b.pos.Store(0)
	b.started = b.now()
	b.finished = false
	b.draw()
}

// Increment advances the bar by one item.
func (b *Bar) Increment() {
	b.pos.Add(1)
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.finished {
		b.draw()
	}
}

// Finish draws the final state and ends the line. Later calls are no-ops.
func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finished {
		return
	}
	b.finished = true
	b.draw()
	_, _ = io.WriteString(b.out, "\n")
}

// Position returns the number of completed items.
func (b *Bar) Position() int { return int(b.pos.Load()) }

// draw must be called with mu held.
func (b *Bar) draw() {
	_, _ = io.WriteString(b.out, "\r"+b.line())
}

func (b *Bar) line() string {
	total := b.total.Load()
	pos := b.pos.Load()
	if pos > total {
		pos = total
	}
	cells := 0
	if total > 0 {
		cells = int(int64(b.width) * pos / total)
	}
	bar := b.filled.Render(strings.Repeat("#", cells)) + b.empty.Render(strings.Repeat("-", b.width-cells))
	elapsed := b.now().Sub(b.started).Round(100 * time.Millisecond)
	return fmt.Sprintf("%s [%s] %d/%d (%s)", b.label, bar, pos, total, elapsed)
}
