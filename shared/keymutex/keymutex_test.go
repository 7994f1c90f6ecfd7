package keymutex_test

import (
	"sync"
	"testing"

	"tavolo/shared/keymutex"
)

func TestKeyMutex_SerialisesSameKey(t *testing.T) {
	locks := keymutex.New()

	counter := 0

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			locks.Lock("r1:2025-06-01")
			defer locks.Unlock("r1:2025-06-01")

			counter++
		}()
	}

	wg.Wait()

	if counter != 50 {
		t.Errorf("expected 50 serialized increments, got %d", counter)
	}
}

func TestKeyMutex_IndependentKeys(t *testing.T) {
	locks := keymutex.New()

	locks.Lock("r1:2025-06-01")
	defer locks.Unlock("r1:2025-06-01")

	done := make(chan struct{})

	go func() {
		locks.Lock("r2:2025-06-01")
		defer locks.Unlock("r2:2025-06-01")

		close(done)
	}()

	<-done
}
