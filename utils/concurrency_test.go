package utils

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestURLSetNoDuplicates(t *testing.T) {
	s := NewURLSet()

	added := s.Add("https://teskerti.tn/event/1")
	if !added {
		t.Error("first Add should return true")
	}

	added = s.Add("https://teskerti.tn/event/1")
	if added {
		t.Error("second Add of same URL should return false")
	}

	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestURLSetConcurrency(t *testing.T) {
	s := NewURLSet()
	var added int64
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Add("https://teskerti.tn/event/same") {
				atomic.AddInt64(&added, 1)
			}
		}()
	}
	wg.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestPacerEnforcesInterval(t *testing.T) {
	intervalMs := 50
	p := NewPacer(intervalMs)
	ctx := context.Background()

	var timestamps []time.Time
	for i := 0; i < 3; i++ {
		if err := p.Wait(ctx); err != nil {
			t.Fatalf("Wait returned error: %v", err)
		}
		timestamps = append(timestamps, time.Now())
	}

	min := time.Duration(intervalMs) * time.Millisecond
	for i := 1; i < len(timestamps); i++ {
		gap := timestamps[i].Sub(timestamps[i-1])
		if gap < min-5*time.Millisecond {
			t.Errorf("gap between wait %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}

func TestPacerCancellation(t *testing.T) {
	p := NewPacer(10_000)
	ctx, cancel := context.WithCancel(context.Background())

	// First call passes straight through; the second must block on the gate.
	if err := p.Wait(ctx); err != nil {
		t.Fatalf("first Wait returned error: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- p.Wait(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Error("cancelled Wait should return the context error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after cancellation")
	}
}
