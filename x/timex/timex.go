package timex

import "time"

// Delay blocks the caller for d. Firmware passes Sleep; tests pass a recorder.
type Delay func(d time.Duration)

// Sleep is the default Delay.
func Sleep(d time.Duration) { time.Sleep(d) }

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// TickPeriod is the Wi-Fi coprocessor timer resolution.
const TickPeriod = time.Microsecond

// FromTicks converts coprocessor ticks to a duration.
func FromTicks(ticks uint32) time.Duration {
	return time.Duration(ticks) * TickPeriod
}

// Budget is a fixed number of polls; it is the only timeout shape the
// core uses. Each Spend returns false once the budget is exhausted.
type Budget struct{ left uint32 }

func NewBudget(n uint32) Budget { return Budget{left: n} }

func (b *Budget) Left() uint32 { return b.left }

// Reset replaces the remaining polls.
func (b *Budget) Reset(n uint32) { b.left = n }

// Spend consumes one poll and reports whether any remain.
func (b *Budget) Spend() bool {
	if b.left > 0 {
		b.left--
	}
	return b.left > 0
}
