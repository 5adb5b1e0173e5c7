package conv

import "testing"

func TestItoaUtoa(t *testing.T) {
	var b [20]byte
	if got := string(Itoa(b[:], -1234)); got != "-1234" {
		t.Fatalf("Itoa = %q", got)
	}
	if got := string(Itoa(b[:], 0)); got != "0" {
		t.Fatalf("Itoa(0) = %q", got)
	}
	if got := string(Utoa(b[:], 4096)); got != "4096" {
		t.Fatalf("Utoa = %q", got)
	}
	if got := string(Itoa(b[:], -9223372036854775808)); got != "-9223372036854775808" {
		t.Fatalf("Itoa(MinInt64) = %q", got)
	}
	if got := string(Utoa(b[:0], 7)); got != "" {
		t.Fatalf("Utoa(empty) = %q", got)
	}
}

func TestMAC(t *testing.T) {
	var b [17]byte
	hw := []byte{0x2c, 0xf7, 0xf1, 0x00, 0x0a, 0xff}
	if got := string(MAC(b[:], hw)); got != "2C:F7:F1:00:0A:FF" {
		t.Fatalf("MAC = %q", got)
	}
	var short [5]byte
	if got := string(MAC(short[:], hw)); got != "2C:F7" {
		t.Fatalf("MAC(short) = %q", got)
	}
}
