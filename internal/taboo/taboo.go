package taboo

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

// Solver - табу-поиск по окрестности критического пути.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log *zap.Logger
}

// New возвращает табу-решатель. rng нужен для случайного стартового
// решения и для случайной добавки к сроку табу.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil && (cfg.Initial.Randomness > 0 || cfg.TenureRand > 0) {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve - основной цикл алгоритма.
//
// На каждой итерации просматриваются все ходы окрестности текущего
// (рабочего) решения, табуированные пропускаются, и выполняется переход
// к лучшему из оставшихся, даже если он хуже текущего. Обратный ход
// запрещается на Tenure итераций. Возвращается лучшее решение за весь
// поиск, а не последнее рабочее.
func (s *Solver) Solve(ctx context.Context, inst *jobshop.Instance) (opt.Result, error) {
	start := time.Now()
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}

	// Валидация входных данных
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
	ro, err := init.Build(inst)
	if err != nil {
		return opt.Result{}, err
	}

	// Оценка целевой функции
	eval, err := jobshop.NewEvaluator(inst, s.Cfg.CacheSize)
	if err != nil {
		return opt.Result{}, err
	}

	// Текущее (рабочее) решение
	curr := ro
	currA, err := neighborhood.Analyze(curr)
	if err != nil {
		return opt.Result{}, fmt.Errorf("taboo: начальное решение: %w", err)
	}
	currCost := currA.Schedule.Makespan()

	// Глобально лучшее решение. Рабочие решения не мутируются,
	// поэтому достаточно хранить ссылку на расписание.
	bestSched := currA.Schedule
	bestCost := currCost
	trace := []int{bestCost}

	tabu := newTabuList(inst, max(32, (s.Cfg.Tenure+s.Cfg.TenureRand)*4))

	iter := 0
	result := func(cause opt.Cause) opt.Result {
		return opt.Result{
			Instance:    inst,
			Schedule:    bestSched,
			Cause:       cause,
			Makespan:    bestCost,
			Evaluations: eval.Evaluations(),
			Iterations:  iter,
			Duration:    time.Since(start),
			Trace:       trace,
			Meta: map[string]any{
				"initial":          s.Cfg.Initial.Rule.String(),
				"tenure":           s.Cfg.Tenure,
				"tenure_rand":      s.Cfg.TenureRand,
				"aspiration":       s.Cfg.Aspiration,
				"working_makespan": currCost,
				"cache_hits":       eval.CacheHits(),
			},
		}
	}

	for iter < s.Cfg.MaxIterations {
		// Дедлайн проверяется только между итерациями
		if stop, err := opt.Stopped(ctx); stop {
			return result(opt.TimedOut), err
		}
		// Критический путь без блоков: ходов нет и не появится
		if len(currA.Swaps) == 0 {
			break
		}
		iter++

		// Лучший допустимый ход
		var moveRO *jobshop.ResourceOrder
		moveCost := 0
		var moveFirst, moveSecond jobshop.Task

		for _, sw := range currA.Swaps {
			row := curr.Machines[sw.Machine]
			first, second := row[sw.I], row[sw.J]

			// После обмена second окажется перед first
			isTabu := tabu.Forbidden(second, first, iter)
			if isTabu && !s.Cfg.Aspiration {
				continue
			}

			trial := curr.Copy()
			sw.Apply(trial)
			cost, err := eval.Makespan(trial)
			if errors.Is(err, jobshop.ErrInconsistentEncoding) {
				continue
			}
			if err != nil {
				return result(opt.Exhausted), err
			}

			// Критерий аспирации
			if isTabu && cost >= bestCost {
				continue
			}

			if moveRO == nil || cost < moveCost {
				moveRO, moveCost = trial, cost
				// Обратный ход вернёт first перед second
				moveFirst, moveSecond = first, second
			}
		}

		// Все ходы табуированы или несовместны: ждём истечения запретов
		if moveRO == nil {
			trace = append(trace, bestCost)
			continue
		}

		nextA, err := neighborhood.Analyze(moveRO)
		if err != nil {
			return result(opt.Exhausted), err
		}
		curr, currA, currCost = moveRO, nextA, moveCost

		// Добавление обратного хода в табу-список
		tenure := s.Cfg.Tenure
		if s.Cfg.TenureRand > 0 {
			tenure += s.Rng.Intn(s.Cfg.TenureRand + 1)
		}
		tabu.Forbid(moveFirst, moveSecond, iter+tenure)

		// Обновление глобально лучшего решения
		if currCost < bestCost {
			bestCost = currCost
			bestSched = currA.Schedule
			log.Debug("taboo: improved",
				zap.Int("iteration", iter),
				zap.Int("makespan", bestCost),
			)
		}
		trace = append(trace, bestCost)
	}

	log.Info("taboo: finished",
		zap.String("instance", inst.Name),
		zap.Int("makespan", bestCost),
		zap.Int("iterations", iter),
		zap.Int("evaluations", eval.Evaluations()),
	)
	return result(opt.Exhausted), nil
}
