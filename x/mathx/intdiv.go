package mathx

import "golang.org/x/exp/constraints"

// CeilDiv returns ceil(a/b) for unsigned operands; b == 0 yields 0.
func CeilDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return a/b + boolTo[T](a%b != 0)
}

// Chunks returns the number of size-byte windows needed to cover n bytes.
func Chunks(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return int(CeilDiv(uint(n), uint(size)))
}

func boolTo[T constraints.Unsigned](b bool) T {
	if b {
		return 1
	}
	return 0
}
