//go:build tinygo

package onewire

import "runtime/interrupt"

func disableInterrupts() interrupt.State { return interrupt.Disable() }

func restoreInterrupts(st interrupt.State) { interrupt.Restore(st) }
