package neighborhood

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobShop/internal/jobshop"
)

func aaa1Order(t *testing.T) *jobshop.ResourceOrder {
	t.Helper()
	inst, err := jobshop.ParseInstance("aaa1", strings.NewReader("2 3\n0 3 1 3 2 2\n1 2 0 2 2 4\n"))
	require.NoError(t, err)
	ro := jobshop.NewResourceOrder(inst)
	ro.Machines[0] = []jobshop.Task{{Job: 0, Op: 0}, {Job: 1, Op: 1}}
	ro.Machines[1] = []jobshop.Task{{Job: 1, Op: 0}, {Job: 0, Op: 1}}
	ro.Machines[2] = []jobshop.Task{{Job: 1, Op: 2}, {Job: 0, Op: 2}}
	return ro
}

// singleMachine: три работы по одной операции на станке 0.
func singleMachine(t *testing.T) *jobshop.ResourceOrder {
	t.Helper()
	inst, err := jobshop.NewInstance(3, 1, 1, []int{2, 3, 4}, []int{0, 0, 0})
	require.NoError(t, err)
	ro := jobshop.NewResourceOrder(inst)
	for j := 0; j < 3; j++ {
		ro.Append(jobshop.Task{Job: j, Op: 0})
	}
	return ro
}

func TestAnalyze_AAA1(t *testing.T) {
	a, err := Analyze(aaa1Order(t))
	require.NoError(t, err)

	assert.Equal(t, 11, a.Schedule.Makespan())
	assert.Equal(t, []Block{
		{Machine: 0, First: 0, Last: 1},
		{Machine: 2, First: 0, Last: 1},
	}, a.Blocks)
	assert.Equal(t, []Swap{
		{Machine: 0, I: 0, J: 1},
		{Machine: 2, I: 0, J: 1},
	}, a.Swaps)
}

func TestBlocks_RequiresConsecutivePositions(t *testing.T) {
	ro := singleMachine(t)

	gap := []jobshop.Task{{Job: 0, Op: 0}, {Job: 2, Op: 0}}
	assert.Empty(t, Blocks(ro, gap))

	full := []jobshop.Task{{Job: 0, Op: 0}, {Job: 1, Op: 0}, {Job: 2, Op: 0}}
	assert.Equal(t, []Block{{Machine: 0, First: 0, Last: 2}}, Blocks(ro, full))

	single := []jobshop.Task{{Job: 1, Op: 0}}
	assert.Empty(t, Blocks(ro, single))
}

func TestNeighbors(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  []Swap
	}{
		{"pair emitted once", Block{Machine: 1, First: 2, Last: 3}, []Swap{{Machine: 1, I: 2, J: 3}}},
		{"three", Block{Machine: 0, First: 0, Last: 2}, []Swap{{Machine: 0, I: 0, J: 1}, {Machine: 0, I: 1, J: 2}}},
		{"four", Block{Machine: 4, First: 1, Last: 4}, []Swap{{Machine: 4, I: 1, J: 2}, {Machine: 4, I: 3, J: 4}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Neighbors(tt.block))
		})
	}
}

func TestSwap_ApplyCanBreakEncoding(t *testing.T) {
	inst, err := jobshop.NewInstance(2, 2, 2, []int{3, 2, 2, 3}, []int{0, 1, 1, 0})
	require.NoError(t, err)
	p := jobshop.NewPermutation(inst)
	for _, j := range []int{0, 1, 1, 0} {
		p.Append(j)
	}
	ro, err := p.ToResourceOrder()
	require.NoError(t, err)

	one := ro.Copy()
	Swap{Machine: 0, I: 0, J: 1}.Apply(one)
	_, err = one.Decode()
	require.NoError(t, err)

	both := one.Copy()
	Swap{Machine: 1, I: 0, J: 1}.Apply(both)
	_, err = both.Decode()
	require.ErrorIs(t, err, jobshop.ErrInconsistentEncoding)

	// исходный порядок не тронут
	s, err := ro.Decode()
	require.NoError(t, err)
	assert.Equal(t, 6, s.Makespan())
}

func TestAnalyze_SwapsLieOnCriticalPath(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for k := 0; k < 20; k++ {
		inst := jobshop.RandomInstance(4+rng.Intn(5), 3+rng.Intn(4), 1, 50, rng)
		p := jobshop.BasicPermutation(inst)
		rng.Shuffle(len(p.Jobs), p.Swap)
		ro, err := p.ToResourceOrder()
		require.NoError(t, err)

		a, err := Analyze(ro)
		require.NoError(t, err)

		onPath := map[jobshop.Task]bool{}
		for _, task := range a.Path {
			onPath[task] = true
		}
		for _, b := range a.Blocks {
			assert.GreaterOrEqual(t, b.Len(), 2)
		}
		for _, s := range a.Swaps {
			row := ro.Machines[s.Machine]
			require.Less(t, s.J, len(row))
			assert.Equal(t, s.I+1, s.J)
			assert.True(t, onPath[row[s.I]], "%v: %v not critical", s, row[s.I])
			assert.True(t, onPath[row[s.J]], "%v: %v not critical", s, row[s.J])
		}
	}
}
