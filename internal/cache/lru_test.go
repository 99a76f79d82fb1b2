package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU_EvictsLeastRecent(t *testing.T) {
	var evicted []string
	c := New[string, int](2, func(k string, _ int) { evicted = append(evicted, k) })

	c.Add("a", 1)
	c.Add("b", 2)
	_, _ = c.Get("a") // a becomes MRU
	c.Add("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_UpdateDoesNotEvict(t *testing.T) {
	calls := 0
	c := New[string, int](1, func(string, int) { calls++ })
	c.Add("a", 1)
	c.Add("a", 2)

	v, _ := c.Get("a")
	assert.Equal(t, 2, v)
	assert.Zero(t, calls)
}

func TestLRU_Purge(t *testing.T) {
	var evicted []string
	c := New[string, int](3, func(k string, _ int) { evicted = append(evicted, k) })
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)

	c.Purge()

	assert.Zero(t, c.Len())
	assert.ElementsMatch(t, []string{"a", "b", "c"}, evicted)
}

func TestLRU_PanicsOnZeroCapacity(t *testing.T) {
	assert.Panics(t, func() { New[string, int](0, nil) })
}
