package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/statewrap/pkg/adapters/memory"
	"github.com/aretw0/statewrap/pkg/adapters/redis"
	"github.com/aretw0/statewrap/pkg/cache"
	"github.com/aretw0/statewrap/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unit() *domain.CompilationUnit {
	return &domain.CompilationUnit{
		Entity: "Lamp",
		Groups: []domain.StateGroup{{Name: "Power", States: []string{"On"}}},
		Wrappers: []domain.WrapperDescription{
			{Name: "OnState", Permutation: domain.Permutation{"On"}},
		},
	}
}

// slowGenerate simulates an expensive generation and counts invocations.
func slowGenerate(calls *atomic.Int32) cache.GenerateFunc {
	return func(ctx context.Context) (*domain.CompilationUnit, error) {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return unit(), nil
	}
}

func TestManager_LoadOrGenerate_Once(t *testing.T) {
	manager := cache.NewManager(memory.NewStore())
	ctx := context.Background()

	var calls atomic.Int32
	var hits atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, hit, err := manager.LoadOrGenerate(ctx, "fp", slowGenerate(&calls))
			assert.NoError(t, err)
			assert.Equal(t, "Lamp", u.Entity)
			if hit {
				hits.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent misses on one key generate once")
	assert.Equal(t, int32(9), hits.Load())
}

func TestManager_FailedGenerationIsNotStored(t *testing.T) {
	store := memory.NewStore()
	manager := cache.NewManager(store)
	ctx := context.Background()
	boom := errors.New("boom")

	_, _, err := manager.LoadOrGenerate(ctx, "fp", func(ctx context.Context) (*domain.CompilationUnit, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	keys, err := manager.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestManager_Invalidate(t *testing.T) {
	manager := cache.NewManager(memory.NewStore())
	ctx := context.Background()

	var calls atomic.Int32
	_, _, err := manager.LoadOrGenerate(ctx, "fp", slowGenerate(&calls))
	require.NoError(t, err)
	require.NoError(t, manager.Invalidate(ctx, "fp"))

	_, hit, err := manager.LoadOrGenerate(ctx, "fp", slowGenerate(&calls))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int32(2), calls.Load())
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := redis.NewFromClient(client)
	// Two managers stand in for two replicas sharing one redis.
	a := cache.NewManager(store, cache.WithLocker(redis.NewLocker(client, redis.DefaultPrefix)))
	b := cache.NewManager(store, cache.WithLocker(redis.NewLocker(client, redis.DefaultPrefix)))
	ctx := context.Background()

	var calls atomic.Int32
	var wg sync.WaitGroup
	for _, m := range []*cache.Manager{a, b} {
		wg.Add(1)
		go func(m *cache.Manager) {
			defer wg.Done()
			_, _, err := m.LoadOrGenerate(ctx, "fp", slowGenerate(&calls))
			assert.NoError(t, err)
		}(m)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, mr.Exists(redis.DefaultPrefix+"lock:fp"), "lock is released")
}
