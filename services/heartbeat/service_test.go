package heartbeat

import (
	"errors"
	"runtime"
	"testing"
	"time"
)

func TestBeatEveryN(t *testing.T) {
	s := New(3)
	clock := time.Unix(1000, 0)
	s.start = clock
	s.now = func() time.Time { return clock }
	s.mem = func(ms *runtime.MemStats) { ms.HeapAlloc = 4096 }
	var lines []string
	s.Print = func(l string) { lines = append(lines, l) }

	outcomes := []error{nil, errors.New("recv"), nil, nil, nil, nil}
	for i, err := range outcomes {
		clock = clock.Add(15 * time.Second)
		printed := s.Beat(err)
		if want := (i+1)%3 == 0; printed != want {
			t.Fatalf("beat %d printed = %v, want %v", i+1, printed, want)
		}
	}
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	want := "Info: heartbeat up 90s cycles 6 ok 5 failed 1 heap 4096"
	if lines[1] != want {
		t.Fatalf("line = %q, want %q", lines[1], want)
	}
	st := s.Stats()
	if st.Cycles != 6 || st.LastErr != nil || st.HeapAlloc != 4096 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestBeatZeroMeansEvery(t *testing.T) {
	s := New(0)
	n := 0
	s.Print = func(string) { n++ }
	s.Beat(nil)
	s.Beat(errors.New("x"))
	if n != 2 {
		t.Fatalf("printed %d lines, want 2", n)
	}
	if s.Stats().LastErr == nil {
		t.Fatal("last error not kept")
	}
}
