package throttle

import (
	"sync"
	"testing"
	"time"
)

// recorder collects delivered texts behind a lock.
type recorder struct {
	mu    sync.Mutex
	texts []string
}

func (r *recorder) record(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.texts))
	copy(out, r.texts)
	return out
}

func TestFirstSubmitDeliversImmediately(t *testing.T) {
	var r recorder
	s := New(time.Hour, r.record)
	defer s.Stop()

	s.Submit("a")

	got := r.snapshot()
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("got %v, want immediate delivery of %q", got, "a")
	}
}

func TestBurstCoalescesToLatest(t *testing.T) {
	var r recorder
	s := New(50*time.Millisecond, r.record)
	defer s.Stop()

	s.Submit("a") // immediate
	s.Submit("ab")
	s.Submit("abc")
	s.Submit("abcd") // all three coalesce into one timer delivery

	time.Sleep(150 * time.Millisecond)

	got := r.snapshot()
	if len(got) != 2 {
		t.Fatalf("got %d deliveries %v, want 2", len(got), got)
	}
	if got[0] != "a" || got[1] != "abcd" {
		t.Errorf("got %v, want [a abcd]", got)
	}
}

func TestNeverDeliversStaleSnapshot(t *testing.T) {
	var r recorder
	s := New(20*time.Millisecond, r.record)
	defer s.Stop()

	texts := []string{"x", "xy", "xyz", "xyzw", "xyzwv"}
	for _, text := range texts {
		s.Submit(text)
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	got := r.snapshot()
	if len(got) == 0 {
		t.Fatal("no deliveries")
	}
	// Each delivery must be one of the submitted snapshots, and strictly
	// newer than the previous delivery.
	prevLen := -1
	for _, text := range got {
		if len(text) <= prevLen {
			t.Errorf("delivery %q is not newer than the previous one (%v)", text, got)
		}
		prevLen = len(text)
	}
	if got[len(got)-1] != "xyzwv" {
		t.Errorf("last delivery %q, want latest text", got[len(got)-1])
	}
}

func TestFlushIsSynchronousAndUnconditional(t *testing.T) {
	var r recorder
	s := New(time.Hour, r.record)
	defer s.Stop()

	s.Submit("a")  // immediate
	s.Submit("ab") // throttled, timer an hour away

	s.Flush()

	got := r.snapshot()
	if len(got) != 2 || got[1] != "ab" {
		t.Fatalf("got %v, want flush to deliver %q synchronously", got, "ab")
	}

	// Flush after everything was delivered still reruns the final state.
	s.Flush()
	got = r.snapshot()
	if len(got) != 3 || got[2] != "ab" {
		t.Errorf("got %v, want repeated flush to redeliver the final text", got)
	}
}

func TestFlushWithoutSubmitIsNoop(t *testing.T) {
	var r recorder
	s := New(time.Millisecond, r.record)
	defer s.Stop()

	s.Flush()
	if got := r.snapshot(); len(got) != 0 {
		t.Errorf("got %v, want no deliveries", got)
	}
}

func TestStopCancelsPendingDelivery(t *testing.T) {
	var r recorder
	s := New(30*time.Millisecond, r.record)

	s.Submit("a")  // immediate
	s.Submit("ab") // pending on timer
	s.Stop()

	time.Sleep(80 * time.Millisecond)

	got := r.snapshot()
	if len(got) != 1 {
		t.Fatalf("got %v, want pending delivery cancelled", got)
	}

	s.Submit("ignored")
	s.Flush()
	if got := r.snapshot(); len(got) != 1 {
		t.Errorf("got %v, want submissions after Stop ignored", got)
	}
}

func TestZeroIntervalUsesDefault(t *testing.T) {
	s := New(0, func(string) {})
	defer s.Stop()
	if s.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", s.interval, DefaultInterval)
	}
}

func TestConcurrentSubmitters(t *testing.T) {
	var r recorder
	s := New(5*time.Millisecond, r.record)
	defer s.Stop()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Submit("text")
			}
		}()
	}
	wg.Wait()
	s.Flush()

	if got := r.snapshot(); len(got) == 0 {
		t.Error("no deliveries after concurrent submits")
	}
}
