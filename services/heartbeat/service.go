// Package heartbeat prints a liveness line every few monitor cycles so a
// serial console shows the firmware is still cycling, and how it fares.
package heartbeat

import (
	"runtime"
	"time"

	"envmon-go/x/btext"
)

// Stats accumulates over the life of the firmware.
type Stats struct {
	Cycles uint32
	OK     uint32
	Failed uint32
	// LastErr is the most recent cycle error, nil after a good cycle.
	LastErr   error
	HeapAlloc uint64
}

type Service struct {
	every uint32
	start time.Time
	s     Stats

	// Print receives the liveness line. Defaults to println.
	Print func(line string)
	now   func() time.Time
	mem   func(*runtime.MemStats)

	store [128]byte
	line  btext.Text
}

// New prints on every n-th beat; 0 means every beat.
func New(every uint32) *Service {
	if every == 0 {
		every = 1
	}
	s := &Service{
		every: every,
		Print: func(line string) { println(line) },
		now:   time.Now,
		mem:   runtime.ReadMemStats,
	}
	s.line = btext.New(s.store[:])
	s.start = s.now()
	return s
}

// Beat records one cycle outcome and reports whether a line was printed.
func (s *Service) Beat(err error) bool {
	s.s.Cycles++
	s.s.LastErr = err
	if err != nil {
		s.s.Failed++
	} else {
		s.s.OK++
	}
	if s.s.Cycles%s.every != 0 {
		return false
	}
	var ms runtime.MemStats
	s.mem(&ms)
	s.s.HeapAlloc = ms.HeapAlloc

	up := uint64(s.now().Sub(s.start) / time.Second)
	s.line.Reset()
	if s.line.Appendf("Info: heartbeat up %ds cycles %d ok %d failed %d heap %d",
		up, s.s.Cycles, s.s.OK, s.s.Failed, ms.HeapAlloc) != nil {
		return false
	}
	s.Print(s.line.String())
	return true
}

func (s *Service) Stats() Stats { return s.s }
