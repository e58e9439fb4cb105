package dataset

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/nestor/internal/dataset/datasettest"
)

func TestCacheMemoizes(t *testing.T) {
	path := datasettest.Sample(t)
	c := NewCache(path, Options{})
	calls := 0
	c.load = func(p string, o Options) (*Table, error) {
		calls++
		return Load(p, o)
	}

	a, err := c.Get()
	require.NoError(t, err)
	b, err := c.Get()
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)

	c.Invalidate()
	d, err := c.Get()
	require.NoError(t, err)
	assert.NotSame(t, a, d)
	assert.Equal(t, 2, calls)
}

func TestCacheReloadsOnChange(t *testing.T) {
	path := datasettest.Sample(t)
	c := NewCache(path, Options{})
	a, err := c.Get()
	require.NoError(t, err)

	content := datasettest.Header + "\n" + datasettest.Rows[0] + "\n" + datasettest.Rows[1] + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	b, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, 6, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestCacheDoesNotKeepFailures(t *testing.T) {
	path := datasettest.Sample(t)
	c := NewCache(path, Options{})
	_, err := c.Get()
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	_, err = c.Get()
	require.Error(t, err)
	assert.Equal(t, path, c.Path())
}
