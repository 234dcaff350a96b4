package clocktest

import (
	"testing"
	"time"
)

func TestFake_FireOnce(t *testing.T) {
	f := NewFake()
	tm := f.NewTimer(time.Second)

	got, err := f.WaitTimer(time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != tm {
		t.Fatal("WaitTimer returned a different timer")
	}
	if !got.Fire() {
		t.Fatal("expected first Fire to deliver")
	}
	if got.Fire() {
		t.Error("expected second Fire to be a no-op")
	}
	if at := <-tm.C(); !at.Equal(time.Unix(1, 0)) {
		t.Errorf("tick at %v, want %v", at, time.Unix(1, 0))
	}
}

func TestFake_StopPreventsFire(t *testing.T) {
	f := NewFake()
	tm := f.NewTimer(time.Second).(*Timer)

	if !tm.Stop() {
		t.Fatal("expected Stop to succeed")
	}
	if tm.Fire() {
		t.Error("stopped timer fired")
	}
	if !tm.Stopped() {
		t.Error("Stopped() = false")
	}
}

func TestFake_WaitTimeout(t *testing.T) {
	if _, err := NewFake().WaitTimer(5 * time.Millisecond); err == nil {
		t.Fatal("expected timeout error")
	}
}
