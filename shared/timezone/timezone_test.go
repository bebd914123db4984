package timezone_test

import (
	"taskly/shared/timezone"
	"testing"
	"time"
)

func TestNow(t *testing.T) {
	before := time.Now()
	now := timezone.Now()
	after := time.Now()

	if now.IsZero() {
		t.Fatal("Now() returned zero time")
	}

	if now.Before(before) || now.After(after) {
		t.Errorf("expected Now() between %s and %s, got %s", before, after, now)
	}
}
