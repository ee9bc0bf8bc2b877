package descent

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/neighborhood"
	"jobShop/internal/opt"
)

func newSolver(t *testing.T, rule greedy.Rule) *Solver {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Initial.Rule = rule
	s, err := New(cfg, nil)
	require.NoError(t, err)
	s.Log = zaptest.NewLogger(t)
	return s
}

func TestDescent_NonIncreasingAndValid(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	for k := 0; k < 10; k++ {
		inst := jobshop.RandomInstance(5+rng.Intn(6), 3+rng.Intn(4), 1, 50, rng)
		rule := greedy.Rules()[k%len(greedy.Rules())]

		g, err := greedy.New(greedy.Config{Rule: rule}, nil)
		require.NoError(t, err)
		initial, err := g.Solve(context.Background(), inst)
		require.NoError(t, err)

		res, err := newSolver(t, rule).Solve(context.Background(), inst)
		require.NoError(t, err)

		assert.Equal(t, opt.Exhausted, res.Cause)
		require.NotNil(t, res.Schedule)
		assert.True(t, res.Schedule.IsValid())
		assert.Equal(t, res.Schedule.Makespan(), res.Makespan)
		assert.LessOrEqual(t, res.Makespan, initial.Makespan)

		require.NotEmpty(t, res.Trace)
		assert.Equal(t, initial.Makespan, res.Trace[0])
		for i := 1; i < len(res.Trace); i++ {
			assert.Less(t, res.Trace[i], res.Trace[i-1], "iteration %d", i)
		}
	}
}

func TestDescent_StopsAtLocalOptimum(t *testing.T) {
	inst := jobshop.RandomInstance(8, 5, 1, 40, rand.New(rand.NewSource(9)))
	res, err := newSolver(t, greedy.SPT).Solve(context.Background(), inst)
	require.NoError(t, err)

	ro := jobshop.ResourceOrderFromSchedule(res.Schedule)
	a, err := neighborhood.Analyze(ro)
	require.NoError(t, err)
	for _, sw := range a.Swaps {
		trial := ro.Copy()
		sw.Apply(trial)
		s, err := trial.Decode()
		if errors.Is(err, jobshop.ErrInconsistentEncoding) {
			continue
		}
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s.Makespan(), res.Makespan, "swap %v improves", sw)
	}
}

func TestDescent_DeadlineReturnsInitialSolution(t *testing.T) {
	inst := jobshop.RandomInstance(10, 5, 1, 40, rand.New(rand.NewSource(2)))

	res, err := opt.SolveUntil(newSolver(t, greedy.LRPT), inst, time.Now().Add(-time.Second))
	require.NoError(t, err)
	assert.Equal(t, opt.TimedOut, res.Cause)
	assert.Equal(t, 0, res.Iterations)
	require.NotNil(t, res.Schedule)
	assert.True(t, res.Schedule.IsValid())
	assert.Equal(t, []int{res.Makespan}, res.Trace)
}

func TestDescent_CancelReturnsBestAndError(t *testing.T) {
	inst := jobshop.RandomInstance(6, 4, 1, 40, rand.New(rand.NewSource(4)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newSolver(t, greedy.SPT).Solve(ctx, inst)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res.Schedule)
	assert.True(t, res.Schedule.IsValid())
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.CacheSize = -1
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Initial.Randomness = -3
	assert.Error(t, bad.Validate())

	random := DefaultConfig()
	random.Initial.Randomness = 2
	_, err := New(random, nil)
	assert.Error(t, err)
}
