package whitelist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedLocksSerializeSameKey(t *testing.T) {
	var locks keyedLocks

	unlock := locks.lock("G1", "U1")

	acquired := make(chan struct{})
	go func() {
		second := locks.lock("G1", "U1")
		close(acquired)
		second()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}

	unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired after release")
	}
}

func TestKeyedLocksIndependentKeys(t *testing.T) {
	var locks keyedLocks

	unlockA := locks.lock("G1", "U1")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := locks.lock("G1", "U2")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("different key blocked by unrelated lock")
	}

	assert.Len(t, locks.keys, 2)
}
