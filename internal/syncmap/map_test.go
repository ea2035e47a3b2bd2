package syncmap

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	m := NewRegistry[int]()
	assert.True(t, m.SetIfAbsent("b", 1))
	assert.False(t, m.SetIfAbsent("b", 2))

	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = m.Get("missing")
	assert.False(t, ok)

	m.Reset()
	_, ok = m.Get("b")
	assert.False(t, ok)
	assert.True(t, m.SetIfAbsent("b", 2))
}

func TestMap_Concurrent(t *testing.T) {
	m := NewRegistry[int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.SetIfAbsent(strconv.Itoa(i%10), i)
		}(i)
	}
	wg.Wait()
	for i := 0; i < 10; i++ {
		v, ok := m.Get(strconv.Itoa(i))
		assert.True(t, ok)
		assert.Equal(t, i, v%10)
	}
	_, ok := m.Get("10")
	assert.False(t, ok)
}
