package scanner

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// TargetScanner is the single-target scan operation the runner fans out.
type TargetScanner interface {
	Scan(ctx context.Context, target string) ScanReport
}

// Runner scans multiple targets with bounded concurrency and a global rate
// limit on scan starts.
type Runner struct {
	Concurrency int           // maximum concurrent scans
	RateLimit   int           // scan starts per second (global)
	Timeout     time.Duration // deadline for each full scan

	// OnResult, when set, is called once per finished scan. It may be
	// called from multiple goroutines.
	OnResult func(target string, report ScanReport, duration time.Duration)
}

func (r *Runner) concurrency() int {
	if r.Concurrency > 0 {
		return r.Concurrency
	}
	return 1
}

func (r *Runner) rateLimit() int {
	if r.RateLimit > 0 {
		return r.RateLimit
	}
	return 1
}

// RunScans scans every target and returns one report per target, in input
// order. Targets are assumed validated; a cancelled context still yields a
// report slot per target, carrying whatever the probes managed.
func (r *Runner) RunScans(ctx context.Context, targets []string, s TargetScanner) []ScanReport {
	limiter := rate.NewLimiter(rate.Limit(r.rateLimit()), r.rateLimit())

	sem := make(chan struct{}, r.concurrency())
	var wg sync.WaitGroup
	reports := make([]ScanReport, len(targets))

	for i, target := range targets {
		wg.Add(1)
		go func(i int, t string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			_ = limiter.Wait(ctx)

			scanCtx := ctx
			if r.Timeout > 0 {
				var cancel context.CancelFunc
				scanCtx, cancel = context.WithTimeout(ctx, r.Timeout)
				defer cancel()
			}

			start := time.Now()
			report := s.Scan(scanCtx, t)
			reports[i] = report
			if r.OnResult != nil {
				r.OnResult(t, report, time.Since(start))
			}
		}(i, target)
	}

	wg.Wait()
	return reports
}
