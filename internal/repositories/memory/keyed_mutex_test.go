package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	var km keyedMutex[uint]
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock(7)
			counter++
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
	assert.Equal(t, 0, km.size(), "released keys should be forgotten")
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	var km keyedMutex[uint]

	unlockA := km.Lock(1)
	unlockB := km.Lock(2)
	assert.Equal(t, 2, km.size())

	unlockA()
	unlockB()
	assert.Equal(t, 0, km.size())
}

func TestPairKeyIsUnordered(t *testing.T) {
	assert.Equal(t, newPairKey(3, 9), newPairKey(9, 3))
	assert.NotEqual(t, newPairKey(3, 9), newPairKey(3, 8))
}
