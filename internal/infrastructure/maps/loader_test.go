package maps

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_CachesSuccess(t *testing.T) {
	var calls int32
	loader := NewLoader(func(ctx context.Context) (*Config, error) {
		atomic.AddInt32(&calls, 1)
		return &Config{TileURL: "https://tiles.test/{z}/{x}/{y}.png"}, nil
	})

	first, err := loader.Load(context.Background())
	require.NoError(t, err)

	second, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoader_SingleInFlightLoad(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	loader := NewLoader(func(ctx context.Context) (*Config, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return &Config{TileURL: "u"}, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg, err := loader.Load(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "u", cfg.TileURL)
		}()
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLoader_FailedLoadRetries(t *testing.T) {
	var calls int32
	loader := NewLoader(func(ctx context.Context) (*Config, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("boom")
		}
		return &Config{TileURL: "u"}, nil
	})

	_, err := loader.Load(context.Background())
	assert.Error(t, err)

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u", cfg.TileURL)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
