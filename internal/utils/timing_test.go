package utils

import (
	"testing"
	"time"
)

func TestOpTimerStop(t *testing.T) {
	timer := StartTimer("test.op")
	time.Sleep(2 * time.Millisecond)
	if d := timer.Stop(); d < 2*time.Millisecond {
		t.Errorf("elapsed = %v, want at least 2ms", d)
	}
}

func TestOpTimersAreIndependent(t *testing.T) {
	a := StartTimer("test.a")
	time.Sleep(2 * time.Millisecond)
	b := StartTimer("test.b")
	if a.Stop() <= b.Stop() {
		t.Errorf("earlier timer reported less elapsed time than later one")
	}
}
