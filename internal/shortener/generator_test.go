package shortener_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/serroba/miniurl/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterGenerator_Next(t *testing.T) {
	t.Run("renders hex and advances by a bounded step", func(t *testing.T) {
		gen := shortener.NewCounterGenerator(1000)
		prev := uint64(1000)

		for range 200 {
			code := gen.Next()

			n, err := strconv.ParseUint(string(code), 16, 64)
			require.NoError(t, err)

			step := n - prev
			assert.GreaterOrEqual(t, step, uint64(1))
			assert.LessOrEqual(t, step, uint64(50))

			prev = n
		}
	})

	t.Run("starts above the default seed", func(t *testing.T) {
		gen := shortener.NewCounterGenerator(shortener.DefaultCounterSeed)

		n, err := strconv.ParseUint(string(gen.Next()), 16, 64)

		require.NoError(t, err)
		assert.Greater(t, n, shortener.DefaultCounterSeed)
	})

	t.Run("never repeats under concurrent callers", func(t *testing.T) {
		gen := shortener.NewCounterGenerator(shortener.DefaultCounterSeed)

		const workers, perWorker = 16, 500

		var (
			mu   sync.Mutex
			seen = make(map[shortener.Code]struct{}, workers*perWorker)
			wg   sync.WaitGroup
		)

		for range workers {
			wg.Add(1)

			go func() {
				defer wg.Done()

				local := make([]shortener.Code, 0, perWorker)
				for range perWorker {
					local = append(local, gen.Next())
				}

				mu.Lock()
				defer mu.Unlock()

				for _, code := range local {
					seen[code] = struct{}{}
				}
			}()
		}

		wg.Wait()

		assert.Len(t, seen, workers*perWorker)
	})
}

func TestNewCodeGenerator(t *testing.T) {
	tests := []struct {
		name     string
		strategy shortener.Strategy
		length   int
		check    func(t *testing.T, code shortener.Code)
	}{
		{
			name:     "counter strategy yields hex codes",
			strategy: shortener.StrategyCounter,
			check: func(t *testing.T, code shortener.Code) {
				t.Helper()

				_, err := strconv.ParseUint(string(code), 16, 64)
				assert.NoError(t, err)
			},
		},
		{
			name:     "empty strategy defaults to counter",
			strategy: "",
			check: func(t *testing.T, code shortener.Code) {
				t.Helper()

				_, err := strconv.ParseUint(string(code), 16, 64)
				assert.NoError(t, err)
			},
		},
		{
			name:     "nanoid strategy honours length",
			strategy: shortener.StrategyNanoID,
			length:   10,
			check: func(t *testing.T, code shortener.Code) {
				t.Helper()

				assert.Len(t, string(code), 10)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := shortener.NewCodeGenerator(tt.strategy, tt.length)

			require.NoError(t, err)
			tt.check(t, gen())
		})
	}

	t.Run("unknown strategy returns error", func(t *testing.T) {
		gen, err := shortener.NewCodeGenerator("sequential", 8)

		assert.Nil(t, gen)
		assert.Error(t, err)
	})
}
