package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "projects|go|Web", Key("projects", "  Go ", "Web"))
	assert.Equal(t, "experience||", Key("experience", "", ""))
	assert.NotEqual(t, Key("projects", "", "web"), Key("projects", "", "Web"))
}

func TestGetOrLoad_CachesResult(t *testing.T) {
	c := NewCatalogCache(time.Minute)
	calls := 0
	load := func() ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	first, err := GetOrLoad(c, "k", load)
	require.NoError(t, err)
	second, err := GetOrLoad(c, "k", load)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.ItemCount())
}

func TestGetOrLoad_ErrorsAreNotCached(t *testing.T) {
	c := NewCatalogCache(time.Minute)
	calls := 0
	boom := errors.New("boom")

	_, err := GetOrLoad(c, "k", func() (int, error) {
		calls++
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	v, err := GetOrLoad(c, "k", func() (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 2, calls)
}

func TestGetOrLoad_WrongTypeIsReloaded(t *testing.T) {
	c := NewCatalogCache(time.Minute)
	c.Set("k", "not an int")

	v, err := GetOrLoad(c, "k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestFlush(t *testing.T) {
	c := NewCatalogCache(0)
	c.Set("a", 1)
	c.Set("b", 2)
	require.Equal(t, 2, c.ItemCount())

	c.Flush()
	assert.Equal(t, 0, c.ItemCount())
	_, found := c.Get("a")
	assert.False(t, found)
}
