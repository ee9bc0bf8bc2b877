package jobshop

import (
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
)

// infeasible - значение в кэше для несовместных кодировок.
const infeasible = -1

// Evaluator считает makespan кодировок одного экземпляра и запоминает
// результаты для порядков, которые уже встречались. Создаётся на время
// одного запуска решателя.
type Evaluator struct {
	inst  *Instance
	cache *lru.Cache[string, int]

	evals int
	hits  int
}

// NewEvaluator создаёт оценщик. cacheSize <= 0 отключает кэш.
func NewEvaluator(inst *Instance, cacheSize int) (*Evaluator, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	e := &Evaluator{inst: inst}
	if cacheSize > 0 {
		c, err := lru.New[string, int](cacheSize)
		if err != nil {
			return nil, err
		}
		e.cache = c
	}
	return e, nil
}

// Makespan декодирует порядок и возвращает его makespan.
// Для несовместного порядка возвращается ErrInconsistentEncoding.
func (e *Evaluator) Makespan(ro *ResourceOrder) (int, error) {
	if ro.inst != e.inst {
		return 0, ErrInstanceMismatch
	}
	var key string
	if e.cache != nil {
		key = ro.Fingerprint()
		if ms, ok := e.cache.Get(key); ok {
			e.hits++
			if ms == infeasible {
				return 0, ErrInconsistentEncoding
			}
			return ms, nil
		}
	}

	e.evals++
	s, err := ro.Decode()
	if err != nil {
		if e.cache != nil && errors.Is(err, ErrInconsistentEncoding) {
			e.cache.Add(key, infeasible)
		}
		return 0, err
	}
	ms := s.Makespan()
	if e.cache != nil {
		e.cache.Add(key, ms)
	}
	return ms, nil
}

// PermutationMakespan декодирует перестановку. Перестановки не кэшируются:
// разные последовательности часто дают одно расписание.
func (e *Evaluator) PermutationMakespan(p *Permutation) (int, error) {
	if p.inst != e.inst {
		return 0, ErrInstanceMismatch
	}
	e.evals++
	s, err := p.Decode()
	if err != nil {
		return 0, err
	}
	return s.Makespan(), nil
}

// Evaluations - число выполненных декодирований.
func (e *Evaluator) Evaluations() int { return e.evals }

// CacheHits - число оценок, взятых из кэша.
func (e *Evaluator) CacheHits() int { return e.hits }
