package greedy

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

// candidate - готовая операция с ключами для сравнения.
type candidate struct {
	idx       int // позиция в списке готовых
	task      jobshop.Task
	dur       int
	remaining int
	est       int
}

// better сообщает, что a строго предпочтительнее b.
type better func(a, b candidate) bool

// Solver - жадный конструктивный алгоритм с диспетчерским правилом.
type Solver struct {
	Cfg Config
	Rng *rand.Rand

	prefer better
}

// New возвращает жадный решатель. Генератор случайных чисел обязателен
// только при Randomness > 0.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil && cfg.Randomness > 0 {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng, prefer: comparator(cfg.Rule)}, nil
}

// comparator выбирается один раз при создании решателя.
func comparator(r Rule) better {
	var base better
	switch r {
	case SPT, ESTSPT:
		base = func(a, b candidate) bool { return a.dur < b.dur }
	case LPT, ESTLPT:
		base = func(a, b candidate) bool { return a.dur > b.dur }
	case SRPT, ESTSRPT:
		base = func(a, b candidate) bool { return a.remaining < b.remaining }
	case LRPT, ESTLRPT:
		base = func(a, b candidate) bool { return a.remaining > b.remaining }
	}
	if !r.est() {
		return base
	}
	return func(a, b candidate) bool {
		if a.est != b.est {
			return a.est < b.est
		}
		return base(a, b)
	}
}

// Solve строит решение и возвращает его расписание.
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if stop, err := opt.Stopped(ctx); stop && err != nil {
		return opt.Result{}, err
	}

	ro, err := s.Build(inst)
	if err != nil {
		return opt.Result{}, err
	}
	sched, err := ro.Decode()
	if err != nil {
		return opt.Result{}, fmt.Errorf("greedy: %w", err)
	}

	return opt.Result{
		Instance:    inst,
		Schedule:    sched,
		Cause:       opt.Exhausted,
		Makespan:    sched.Makespan(),
		Evaluations: 1,
		Iterations:  inst.Size(),
		Duration:    time.Since(start),
		Meta: map[string]any{
			"rule":       s.Cfg.Rule.String(),
			"randomness": s.Cfg.Randomness,
		},
	}, nil
}

// Build строит ResourceOrder, добавляя операции в причинном порядке,
// поэтому результат всегда декодируется.
func (s *Solver) Build(inst *jobshop.Instance) (*jobshop.ResourceOrder, error) {
	if err := s.Cfg.Validate(); err != nil {
		return nil, err
	}
	if s.prefer == nil {
		s.prefer = comparator(s.Cfg.Rule)
	}
	if s.Cfg.Randomness > 0 && s.Rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	remaining := remainingWork(inst)
	machineFree := make([]int, inst.Machines)
	jobReady := make([]int, inst.Jobs)
	ro := jobshop.NewResourceOrder(inst)

	// Готовые операции: по одной на каждую незавершённую работу
	ready := make([]jobshop.Task, 0, inst.Jobs)
	for j := 0; j < inst.Jobs; j++ {
		ready = append(ready, jobshop.Task{Job: j, Op: 0})
	}
	cands := make([]candidate, 0, inst.Jobs)

	for len(ready) > 0 {
		// Самый ранний момент освобождения станка среди готовых операций
		tStar := -1
		for _, t := range ready {
			free := machineFree[inst.Machine(t.Job, t.Op)]
			if tStar < 0 || free < tStar {
				tStar = free
			}
		}

		cands = cands[:0]
		for i, t := range ready {
			m := inst.Machine(t.Job, t.Op)
			if machineFree[m] > tStar {
				continue
			}
			est := jobReady[t.Job]
			if machineFree[m] > est {
				est = machineFree[m]
			}
			cands = append(cands, candidate{
				idx:       i,
				task:      t,
				dur:       inst.Duration(t.Job, t.Op),
				remaining: remaining[t.Job*inst.Tasks+t.Op],
				est:       est,
			})
		}

		c := s.pick(cands)
		t := c.task
		m := inst.Machine(t.Job, t.Op)

		ro.Append(t)
		end := c.est + c.dur
		machineFree[m] = end
		jobReady[t.Job] = end

		if t.Op+1 < inst.Tasks {
			ready[c.idx] = jobshop.Task{Job: t.Job, Op: t.Op + 1}
		} else {
			ready = append(ready[:c.idx], ready[c.idx+1:]...)
		}
	}
	return ro, nil
}

// pick выбирает операцию по правилу, при необходимости после случайного
// прореживания кандидатов. При равенстве побеждает меньший номер работы.
func (s *Solver) pick(cands []candidate) candidate {
	if r := s.Cfg.Randomness; r > 0 && len(cands) > 1 {
		if r == 1 {
			return cands[s.Rng.Intn(len(cands))]
		}
		drop := len(cands) / r
		if drop >= len(cands) {
			drop = len(cands) - 1
		}
		s.Rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })
		cands = cands[drop:]
	}

	best := cands[0]
	for _, c := range cands[1:] {
		if s.prefer(c, best) || (!s.prefer(best, c) && c.task.Job < best.task.Job) {
			best = c
		}
	}
	return best
}

// remainingWork[j*Tasks+op] - сумма длительностей операций op..конец работы j.
func remainingWork(inst *jobshop.Instance) []int {
	rem := make([]int, inst.Size())
	for j := 0; j < inst.Jobs; j++ {
		sum := 0
		for op := inst.Tasks - 1; op >= 0; op-- {
			sum += inst.Duration(j, op)
			rem[j*inst.Tasks+op] = sum
		}
	}
	return rem
}
