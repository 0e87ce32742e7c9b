package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	assert.Equal(t, Seed(7, "101"), Seed(7, "101"))
	assert.NotEqual(t, Seed(7, "101"), Seed(7, "102"))
	assert.NotEqual(t, Seed(7, "101"), Seed(8, "101"))
	assert.NotEqual(t, Seed(7, "1", "01"), Seed(7, "10", "1"), "names are delimited")
}

func TestHash(t *testing.T) {
	first, err := Hash([]byte("Câu 1."))
	require.NoError(t, err)
	second, err := Hash([]byte("Câu 1."))
	require.NoError(t, err)
	other, err := Hash([]byte("Câu 2."))
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestMap_Update(t *testing.T) {
	m := NewMap[string, int]()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Update("101", func(current int, _ bool) int { return current + 1 })
		}()
	}
	wg.Wait()
	value, ok := m.Get("101")
	assert.True(t, ok)
	assert.Equal(t, 50, value)
	_, ok = m.Get("102")
	assert.False(t, ok)
}
