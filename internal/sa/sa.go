package sa

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

// Solver - имитация отжига на кодировке перестановкой.
// Обмен и вставка сохраняют число вхождений каждой работы,
// поэтому любое соседнее решение декодируется.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log *zap.Logger
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng}, nil
}

// Solve - реализация эвристики.
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
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	eval, err := jobshop.NewEvaluator(inst, 0)
	if err != nil {
		return opt.Result{}, err
	}

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerOp * inst.Size()
	}

	// Текущее решение: случайная перестановка мультимножества работ
	curr := jobshop.BasicPermutation(inst)
	s.Rng.Shuffle(len(curr.Jobs), curr.Swap)
	cand := curr.Copy()

	currCost, err := eval.PermutationMakespan(curr)
	if err != nil {
		return opt.Result{}, err
	}
	bestCost := currCost
	best := curr.Copy()
	trace := []int{bestCost}

	T := s.Cfg.InitialTemp
	iter := 0
	result := func(cause opt.Cause) (opt.Result, error) {
		log.Info("sa: finished",
			zap.String("instance", inst.Name),
			zap.Stringer("cause", cause),
			zap.Int("makespan", bestCost),
			zap.Int("iterations", iter),
			zap.Float64("temperature", T),
		)
		sched, err := best.Decode()
		if err != nil {
			return opt.Result{}, err
		}
		return opt.Result{
			Instance:    inst,
			Schedule:    sched,
			Cause:       cause,
			Makespan:    bestCost,
			Evaluations: eval.Evaluations(),
			Iterations:  iter,
			Duration:    time.Since(start),
			Trace:       trace,
			Meta: map[string]any{
				"initial_temp": s.Cfg.InitialTemp,
				"final_temp":   s.Cfg.FinalTemp,
				"alpha":        s.Cfg.Alpha,
				"neighborhood": string(s.Cfg.Neighborhood),
				"T":            T,
			},
		}, nil
	}

	for ; iter < maxIter && T > s.Cfg.FinalTemp; iter++ {
		if stop, err := opt.Stopped(ctx); stop {
			res, rerr := result(opt.TimedOut)
			if rerr != nil {
				return res, rerr
			}
			return res, err
		}

		copy(cand.Jobs, curr.Jobs)
		switch s.Cfg.Neighborhood {
		case NeighborhoodInsert:
			// Окрестность на основе вставки элемента в другую позицию
			neighborInsert(cand.Jobs, s.Rng)
		default:
			// Окрестность на основе обмена двух элементов
			neighborSwap(cand.Jobs, s.Rng)
		}

		candCost, err := eval.PermutationMakespan(cand)
		if err != nil {
			return opt.Result{}, err
		}

		delta := candCost - currCost
		accept := delta <= 0
		if !accept {
			// Критерий Метрополиса:
			// допускает принятие ухудшающих решений
			accept = s.Rng.Float64() < math.Exp(-float64(delta)/T)
		}

		if accept {
			// Обмен ролей текущего и кандидатного решений
			curr, cand = cand, curr
			currCost = candCost

			if currCost < bestCost {
				bestCost = currCost
				copy(best.Jobs, curr.Jobs)
				trace = append(trace, bestCost)
				log.Debug("sa: improved",
					zap.Int("iteration", iter),
					zap.Int("makespan", bestCost),
					zap.Float64("temperature", T),
				)
			}
		}

		// Охлаждение температуры
		T *= s.Cfg.Alpha
	}

	return result(opt.Exhausted)
}

// Формирует соседнее решение путём обмена двух случайных позиций.
func neighborSwap(p []int, rng *rand.Rand) {
	if len(p) < 2 {
		return
	}
	i := rng.Intn(len(p))
	j := rng.Intn(len(p) - 1)
	if j >= i {
		j++
	}
	p[i], p[j] = p[j], p[i]
}

// Формирует соседнее решение путём извлечения элемента из позиции i и вставки его в позицию j.
func neighborInsert(p []int, rng *rand.Rand) {
	n := len(p)
	if n < 2 {
		return
	}
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}

	val := p[i]
	if i < j {
		// Сдвиг элементов влево
		copy(p[i:j], p[i+1:j+1])
		p[j] = val
	} else {
		// Сдвиг элементов вправо
		copy(p[j+1:i+1], p[j:i])
		p[j] = val
	}
}
