package taboo

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"jobShop/internal/descent"
	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

func newSolver(t *testing.T, cfg Config, rng *rand.Rand) *Solver {
	t.Helper()
	s, err := New(cfg, rng)
	require.NoError(t, err)
	s.Log = zaptest.NewLogger(t)
	return s
}

func TestTaboo_BestNonIncreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	for k := 0; k < 8; k++ {
		inst := jobshop.RandomInstance(5+rng.Intn(5), 3+rng.Intn(4), 1, 50, rng)
		cfg := DefaultConfig()
		cfg.MaxIterations = 300

		res, err := newSolver(t, cfg, nil).Solve(context.Background(), inst)
		require.NoError(t, err)

		assert.Equal(t, opt.Exhausted, res.Cause)
		require.NotNil(t, res.Schedule)
		assert.True(t, res.Schedule.IsValid())
		assert.Equal(t, res.Schedule.Makespan(), res.Makespan)
		assert.LessOrEqual(t, res.Iterations, cfg.MaxIterations)

		require.NotEmpty(t, res.Trace)
		for i := 1; i < len(res.Trace); i++ {
			assert.LessOrEqual(t, res.Trace[i], res.Trace[i-1], "iteration %d", i)
		}
		assert.Equal(t, res.Makespan, res.Trace[len(res.Trace)-1])

		working, ok := res.Meta["working_makespan"].(int)
		require.True(t, ok)
		assert.GreaterOrEqual(t, working, res.Makespan)
	}
}

// Пока улучшающий ход существует, табу-поиск повторяет путь спуска,
// поэтому его лучшее решение не хуже локального оптимума спуска.
func TestTaboo_NoWorseThanDescent(t *testing.T) {
	rng := rand.New(rand.NewSource(32))
	for k := 0; k < 6; k++ {
		inst := jobshop.RandomInstance(6+rng.Intn(4), 4, 1, 40, rng)

		d, err := descent.New(descent.DefaultConfig(), nil)
		require.NoError(t, err)
		dres, err := d.Solve(context.Background(), inst)
		require.NoError(t, err)

		cfg := DefaultConfig()
		cfg.MaxIterations = dres.Iterations + 200
		tres, err := newSolver(t, cfg, nil).Solve(context.Background(), inst)
		require.NoError(t, err)

		assert.LessOrEqual(t, tres.Makespan, dres.Makespan, "instance %d", k)
	}
}

func TestTaboo_IterationCap(t *testing.T) {
	inst := jobshop.RandomInstance(10, 5, 1, 50, rand.New(rand.NewSource(33)))
	cfg := DefaultConfig()
	cfg.MaxIterations = 25
	cfg.Initial = greedy.Config{Rule: greedy.ESTLRPT}

	res, err := newSolver(t, cfg, nil).Solve(context.Background(), inst)
	require.NoError(t, err)
	assert.Equal(t, opt.Exhausted, res.Cause)
	assert.LessOrEqual(t, res.Iterations, 25)
	assert.Len(t, res.Trace, res.Iterations+1)
}

func TestTaboo_Deadline(t *testing.T) {
	inst := jobshop.RandomInstance(10, 5, 1, 50, rand.New(rand.NewSource(34)))
	cfg := DefaultConfig()

	res, err := opt.SolveUntil(newSolver(t, cfg, nil), inst, time.Now().Add(-time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, opt.TimedOut, res.Cause)
	assert.Equal(t, 0, res.Iterations)
	require.NotNil(t, res.Schedule)
	assert.True(t, res.Schedule.IsValid())
}

func TestTaboo_RandomizedVariants(t *testing.T) {
	inst := jobshop.RandomInstance(8, 4, 1, 30, rand.New(rand.NewSource(35)))
	cfg := DefaultConfig()
	cfg.MaxIterations = 200
	cfg.TenureRand = 3
	cfg.Aspiration = true
	cfg.Initial = greedy.Config{Rule: greedy.SRPT, Randomness: 2}

	res, err := newSolver(t, cfg, rand.New(rand.NewSource(1))).Solve(context.Background(), inst)
	require.NoError(t, err)
	assert.True(t, res.Schedule.IsValid())
	assert.Equal(t, res.Schedule.Makespan(), res.Makespan)

	_, err = New(cfg, nil)
	assert.Error(t, err)
}

func TestTabuList(t *testing.T) {
	inst := jobshop.RandomInstance(3, 3, 1, 5, rand.New(rand.NewSource(1)))
	a := jobshop.Task{Job: 0, Op: 1}
	b := jobshop.Task{Job: 2, Op: 0}

	l := newTabuList(inst, 8)
	l.Forbid(a, b, 7)

	assert.True(t, l.Forbidden(a, b, 6))
	assert.False(t, l.Forbidden(a, b, 7))
	assert.False(t, l.Forbidden(b, a, 6))
	assert.NotEqual(t, orderKey(inst, a, b), orderKey(inst, b, a))

	// продление запрета той же пары
	l.Forbid(a, b, 9)
	assert.True(t, l.Forbidden(a, b, 8))

	// кольцо вытесняет старые записи
	for i := 0; i < 8; i++ {
		l.Forbid(jobshop.Task{Job: 1, Op: i % 3}, b, 100+i)
	}
	assert.False(t, l.Forbidden(a, b, 6))
	assert.True(t, l.Forbidden(jobshop.Task{Job: 1, Op: 2}, b, 50))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	for _, mutate := range []func(*Config){
		func(c *Config) { c.MaxIterations = 0 },
		func(c *Config) { c.Tenure = 0 },
		func(c *Config) { c.TenureRand = -1 },
		func(c *Config) { c.CacheSize = -1 },
		func(c *Config) { c.Initial.Rule = greedy.Rule(99) },
	} {
		c := DefaultConfig()
		mutate(&c)
		assert.Error(t, c.Validate())
	}
}
