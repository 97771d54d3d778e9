package scanner

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeScanner struct {
	mu         sync.Mutex
	active     int32
	maxActive  int32
	delay      time.Duration
	scanned    []string
	sawTimeout bool
}

func (f *fakeScanner) Scan(ctx context.Context, target string) ScanReport {
	current := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		max := atomic.LoadInt32(&f.maxActive)
		if current <= max || atomic.CompareAndSwapInt32(&f.maxActive, max, current) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.scanned = append(f.scanned, target)
	if _, ok := ctx.Deadline(); ok {
		f.sawTimeout = true
	}
	f.mu.Unlock()
	return ScanReport{Target: target, GeneratedAt: time.Now()}
}

func TestRunScansPreservesInputOrder(t *testing.T) {
	fake := &fakeScanner{}
	runner := &Runner{Concurrency: 3, RateLimit: 100}
	targets := []string{"a.test", "b.test", "c.test", "d.test"}

	reports := runner.RunScans(context.Background(), targets, fake)

	if len(reports) != len(targets) {
		t.Fatalf("got %d reports, want %d", len(reports), len(targets))
	}
	for i, target := range targets {
		if reports[i].Target != target {
			t.Fatalf("reports[%d].Target = %q, want %q", i, reports[i].Target, target)
		}
	}
}

func TestRunScansBoundsConcurrency(t *testing.T) {
	fake := &fakeScanner{delay: 20 * time.Millisecond}
	runner := &Runner{Concurrency: 2, RateLimit: 1000}
	targets := []string{"a.test", "b.test", "c.test", "d.test", "e.test", "f.test"}

	runner.RunScans(context.Background(), targets, fake)

	if got := atomic.LoadInt32(&fake.maxActive); got > 2 {
		t.Fatalf("max concurrent scans = %d, want <= 2", got)
	}
	if len(fake.scanned) != len(targets) {
		t.Fatalf("scanned %d targets, want %d", len(fake.scanned), len(targets))
	}
}

func TestRunScansAppliesPerScanTimeout(t *testing.T) {
	fake := &fakeScanner{}
	runner := &Runner{Concurrency: 1, RateLimit: 100, Timeout: time.Second}

	runner.RunScans(context.Background(), []string{"a.test"}, fake)

	if !fake.sawTimeout {
		t.Fatal("expected scan context to carry a deadline")
	}
}

func TestRunScansInvokesOnResult(t *testing.T) {
	fake := &fakeScanner{}
	var mu sync.Mutex
	seen := map[string]bool{}
	runner := &Runner{
		Concurrency: 2,
		RateLimit:   100,
		OnResult: func(target string, report ScanReport, duration time.Duration) {
			mu.Lock()
			seen[target] = report.Target == target && duration >= 0
			mu.Unlock()
		},
	}

	runner.RunScans(context.Background(), []string{"a.test", "b.test"}, fake)

	if !seen["a.test"] || !seen["b.test"] {
		t.Fatalf("OnResult calls = %v, want both targets", seen)
	}
}

func TestRunScansDefaultsAreSafe(t *testing.T) {
	fake := &fakeScanner{}
	runner := &Runner{}

	reports := runner.RunScans(context.Background(), []string{"a.test"}, fake)

	if len(reports) != 1 || reports[0].Target != "a.test" {
		t.Fatalf("reports = %+v", reports)
	}
}
