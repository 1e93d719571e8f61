package orchestrator

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeStoreOrdered(t *testing.T) {
	store := newOutcomeStore()
	names := []string{"web-01", "web-02", "web-03", "web-04"}

	var wg sync.WaitGroup
	for i := range names {
		if i == 2 {
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.set(i, &serverOutcome{Name: names[i], Succeeded: i != 1})
		}(i)
	}
	wg.Wait()

	got := store.ordered(names)
	assert.Len(t, got, 4)
	for i, o := range got {
		assert.Equal(t, names[i], o.Name)
	}
	assert.True(t, got[0].Succeeded)
	assert.False(t, got[1].Succeeded)
	// never reported
	assert.False(t, got[2].Succeeded)
	assert.True(t, got[3].Succeeded)
}
