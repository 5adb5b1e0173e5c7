package mathx

import "testing"

func TestCeilDiv(t *testing.T) {
	cases := []struct{ a, b, want uint32 }{
		{0, 40, 0},
		{1, 40, 1},
		{40, 40, 1},
		{41, 40, 2},
		{514, 512, 2},
		{0xFFFFFFFF, 2, 0x80000000},
		{5, 0, 0},
	}
	for _, c := range cases {
		if got := CeilDiv(c.a, c.b); got != c.want {
			t.Fatalf("CeilDiv(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestChunks(t *testing.T) {
	if got := Chunks(201, 40); got != 6 {
		t.Fatalf("Chunks(201,40) = %d", got)
	}
	if got := Chunks(0, 40); got != 0 {
		t.Fatalf("Chunks(0,40) = %d", got)
	}
}

func TestClampBetween(t *testing.T) {
	if got := Clamp(120.5, 100, 0); got != 100 {
		t.Fatalf("Clamp = %v", got)
	}
	if !Between(float32(-40), 125, -40) {
		t.Fatal("Between should be inclusive and order-insensitive")
	}
	if Min(3, -2) != -2 {
		t.Fatal("Min")
	}
}
