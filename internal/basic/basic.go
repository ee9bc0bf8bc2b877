// Package basic содержит опорные решатели без поиска: последовательный
// обход работ и случайную перестановку.
package basic

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

// Solver строит перестановку 0,1,..,J-1,0,1,.. или, при заданном Rng,
// её случайное перемешивание.
type Solver struct {
	Rng *rand.Rand
}

func (s Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()
	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if stop, err := opt.Stopped(ctx); stop && err != nil {
		return opt.Result{}, err
	}

	p := jobshop.BasicPermutation(inst)
	if s.Rng != nil {
		s.Rng.Shuffle(len(p.Jobs), p.Swap)
	}
	sched, err := p.Decode()
	if err != nil {
		return opt.Result{}, fmt.Errorf("basic: %w", err)
	}

	return opt.Result{
		Instance:    inst,
		Schedule:    sched,
		Cause:       opt.Exhausted,
		Makespan:    sched.Makespan(),
		Evaluations: 1,
		Duration:    time.Since(start),
		Meta:        map[string]any{"random": s.Rng != nil},
	}, nil
}
