package shutdown

import (
	"os"
	"sync"
	"syscall"
	"testing"
)

func TestSignalCounter_ForceThreshold(t *testing.T) {
	tests := []struct {
		name       string
		forceAfter int
		signals    int
		wantForced int
	}{
		{"first signal is graceful", 2, 1, 0},
		{"second signal forces", 2, 2, 1},
		{"later signals force again", 2, 4, 3},
		{"threshold of one", 1, 1, 1},
		{"zero threshold forces immediately", 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			forced := 0
			counter := NewSignalCounter(tt.forceAfter, func() { forced++ })
			for i := 1; i <= tt.signals; i++ {
				if got := counter.Increment(); got != i {
					t.Fatalf("Increment() = %d, want %d", got, i)
				}
			}
			if forced != tt.wantForced {
				t.Errorf("forced %d times, want %d", forced, tt.wantForced)
			}
		})
	}
}

func TestSignalCounter_NilCallbackAndReset(t *testing.T) {
	counter := NewSignalCounter(1, nil)
	counter.Increment()
	counter.Increment()
	if counter.Count() != 2 {
		t.Errorf("Count() = %d, want 2", counter.Count())
	}
	counter.Reset()
	if counter.Count() != 0 {
		t.Errorf("Count() after Reset = %d, want 0", counter.Count())
	}
}

func TestSignalCounter_Concurrent(t *testing.T) {
	var mu sync.Mutex
	forced := 0
	counter := NewSignalCounter(50, func() {
		mu.Lock()
		forced++
		mu.Unlock()
	})

	const goroutines = 100
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			counter.Increment()
		}()
	}
	wg.Wait()

	if counter.Count() != goroutines {
		t.Errorf("Count() = %d, want %d", counter.Count(), goroutines)
	}
	if forced != goroutines-50+1 {
		t.Errorf("forced %d times, want %d", forced, goroutines-50+1)
	}
}

func TestExitCodeForSignal(t *testing.T) {
	tests := []struct {
		sig  os.Signal
		want int
	}{
		{os.Interrupt, 130},
		{syscall.SIGTERM, 143},
		{nil, 130},
	}
	for _, tt := range tests {
		if got := ExitCodeForSignal(tt.sig); got != tt.want {
			t.Errorf("ExitCodeForSignal(%v) = %d, want %d", tt.sig, got, tt.want)
		}
	}
}
