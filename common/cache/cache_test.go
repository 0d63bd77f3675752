package cache

import (
	"testing"
	"time"
)

func TestRandomTTLWithinJitter(t *testing.T) {
	base := 5 * time.Minute
	lo := time.Duration(float64(base) * (1 - DefaultJitter))
	hi := time.Duration(float64(base) * (1 + DefaultJitter))
	for i := 0; i < 100; i++ {
		got := RandomTTL(base)
		if got < lo || got > hi {
			t.Fatalf("RandomTTL = %v, want within [%v, %v]", got, lo, hi)
		}
	}
}

func TestKeys(t *testing.T) {
	if got := TrendingEventsKey(20); got != "event:trending:top20" {
		t.Fatalf("TrendingEventsKey = %q", got)
	}
	if got := ViewDedupKey("e1", "u1"); got != "event:view:e1:u1" {
		t.Fatalf("ViewDedupKey = %q", got)
	}
}
