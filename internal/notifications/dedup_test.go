package notifications

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageDedup_Observe(t *testing.T) {
	d := NewMessageDedup()

	assert.True(t, d.Observe(1), "first sighting passes")
	assert.False(t, d.Observe(1), "redelivery is dropped")
	assert.True(t, d.Observe(2))
	assert.Equal(t, 2, d.Len())
}

func TestMessageDedup_ConcurrentObserve(t *testing.T) {
	d := NewMessageDedup()

	const goroutines = 32
	firsts := make(chan bool, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			firsts <- d.Observe(42)
		}()
	}
	wg.Wait()
	close(firsts)

	trueCount := 0
	for first := range firsts {
		if first {
			trueCount++
		}
	}
	assert.Equal(t, 1, trueCount, "exactly one observer wins the race")
}

func TestMessageDedup_Reset(t *testing.T) {
	d := NewMessageDedup()
	d.Observe(1)
	d.Reset()
	assert.Zero(t, d.Len())
	assert.True(t, d.Observe(1), "reset forgets past sightings")
}
