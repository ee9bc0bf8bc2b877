package descent

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"jobShop/internal/greedy"
	"jobShop/internal/jobshop"
	"jobShop/internal/neighborhood"
	"jobShop/internal/opt"
)

// Solver - локальный спуск по окрестности критического пути.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log *zap.Logger
}

// New возвращает решатель спуска. rng нужен только для случайного
// стартового решения.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil && cfg.Initial.Randomness > 0 {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve - основной цикл: на каждой итерации просматривается вся окрестность
// текущего лучшего решения и выполняется переход к лучшему улучшающему соседу.
// Если такого нет - достигнут локальный оптимум.
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}

	if err := inst.Validate(); err != nil {
		return opt.Result{}, err
	}
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}

	init, err := greedy.New(s.Cfg.Initial, s.Rng)
	if err != nil {
		return opt.Result{}, err
	}
	best, err := init.Build(inst)
	if err != nil {
		return opt.Result{}, err
	}

	eval, err := jobshop.NewEvaluator(inst, s.Cfg.CacheSize)
	if err != nil {
		return opt.Result{}, err
	}

	curr, err := neighborhood.Analyze(best)
	if err != nil {
		return opt.Result{}, fmt.Errorf("descent: начальное решение: %w", err)
	}
	bestCost := curr.Schedule.Makespan()
	trace := []int{bestCost}

	iter := 0
	result := func(cause opt.Cause) opt.Result {
		return opt.Result{
			Instance:    inst,
			Schedule:    curr.Schedule,
			Cause:       cause,
			Makespan:    bestCost,
			Evaluations: eval.Evaluations(),
			Iterations:  iter,
			Duration:    time.Since(start),
			Trace:       trace,
			Meta: map[string]any{
				"initial":    s.Cfg.Initial.Rule.String(),
				"cache_hits": eval.CacheHits(),
			},
		}
	}

	for {
		// Дедлайн проверяется только между полными просмотрами окрестности
		if stop, err := opt.Stopped(ctx); stop {
			return result(opt.TimedOut), err
		}
		iter++

		var cand *jobshop.ResourceOrder
		candCost := bestCost
		for _, sw := range curr.Swaps {
			trial := best.Copy()
			sw.Apply(trial)

			cost, err := eval.Makespan(trial)
			if errors.Is(err, jobshop.ErrInconsistentEncoding) {
				continue
			}
			if err != nil {
				return result(opt.Exhausted), err
			}
			if cost < candCost {
				cand, candCost = trial, cost
			}
		}

		if cand == nil {
			log.Info("descent: local optimum",
				zap.String("instance", inst.Name),
				zap.Int("makespan", bestCost),
				zap.Int("iterations", iter),
				zap.Int("evaluations", eval.Evaluations()),
			)
			return result(opt.Exhausted), nil
		}

		next, err := neighborhood.Analyze(cand)
		if err != nil {
			return result(opt.Exhausted), err
		}
		best, curr, bestCost = cand, next, candCost
		trace = append(trace, bestCost)

		log.Debug("descent: improved",
			zap.Int("iteration", iter),
			zap.Int("makespan", bestCost),
		)
	}
}
