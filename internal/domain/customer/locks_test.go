package customer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()

	var (
		wg      sync.WaitGroup
		counter = map[string]int{}
		guard   sync.Mutex
	)
	for i := 0; i < 50; i++ {
		for _, key := range []string{"a", "b"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := k.Lock(key)
				defer unlock()

				guard.Lock()
				v := counter[key]
				guard.Unlock()

				guard.Lock()
				counter[key] = v + 1
				guard.Unlock()
			}()
		}
	}
	wg.Wait()

	assert.Equal(t, 50, counter["a"])
	assert.Equal(t, 50, counter["b"])
	assert.Zero(t, k.len(), "released keys are dropped")
}
