package cryptorand

import "testing"

func TestInt63IsNonNegative(t *testing.T) {
	var s Source
	for i := 0; i < 1000; i++ {
		if n := s.Int63(); n < 0 {
			t.Fatalf("Int63() = %d, want >= 0", n)
		}
	}
}

func TestNew(t *testing.T) {
	r := New()
	seen := make(map[int64]bool)
	for i := 0; i < 100; i++ {
		seen[r.Int63()] = true
	}
	// 100 draws from 63 bits colliding down to a handful means something's off.
	if len(seen) < 90 {
		t.Errorf("only %d distinct values in 100 draws", len(seen))
	}
}
