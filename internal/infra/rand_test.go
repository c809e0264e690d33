package infra

import "testing"

func TestNewRandIsDeterministicForFixedSeed(t *testing.T) {
	a := NewRand(7)
	b := NewRand(7)
	for i := 0; i < 10; i++ {
		if x, y := a.IntN(10000), b.IntN(10000); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
	if x, y := a.Float64(), b.Float64(); x != y {
		t.Fatalf("Float64 differs: %v vs %v", x, y)
	}
}
