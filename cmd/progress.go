package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// progressPrinter renders a single in-place status line on stderr while a
// multi-target run is in flight. Reports print to stdout afterwards, so the
// two never interleave.
type progressPrinter struct {
	total    int
	mu       sync.Mutex
	clean    int
	flagged  int
	duration time.Duration
	updates  chan struct{}
	done     chan struct{}
	finished chan struct{}
	started  bool
	stopOnce sync.Once
}

func newProgressPrinter(total int) *progressPrinter {
	if total <= 0 {
		total = 1
	}
	return &progressPrinter{
		total:    total,
		updates:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

func (p *progressPrinter) Start() {
	p.started = true
	go p.loop()
}

// Record counts one finished scan. clean means the scan produced no
// findings.
func (p *progressPrinter) Record(clean bool, duration time.Duration) {
	p.mu.Lock()
	if clean {
		p.clean++
	} else {
		p.flagged++
	}
	p.duration += duration
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

// Stop shuts the render loop down and clears the status line. It blocks
// until the loop goroutine has exited, so no print lands after the clear.
func (p *progressPrinter) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
		if p.started {
			<-p.finished
		}
		fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", 80))
	})
}

func (p *progressPrinter) loop() {
	defer close(p.finished)
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.updates:
			p.print()
		case <-ticker.C:
			p.print()
		case <-p.done:
			return
		}
	}
}

func (p *progressPrinter) print() {
	p.mu.Lock()
	clean := p.clean
	flagged := p.flagged
	dur := p.duration
	p.mu.Unlock()

	completed := clean + flagged
	if completed > p.total {
		p.total = completed
	}

	percent := (float64(completed) / float64(p.total)) * 100
	avg := 0.0
	if completed > 0 {
		avg = dur.Seconds() / float64(completed)
	}

	fmt.Fprintf(os.Stderr, "\rScanning: %d/%d (%.1f%%) clean:%d with-findings:%d avg:%.2fs",
		completed, p.total, percent, clean, flagged, avg)
}
