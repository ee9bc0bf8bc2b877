package main

import (
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"jobShop/internal/basic"
	"jobShop/internal/bench"
	"jobShop/internal/config"
	"jobShop/internal/descent"
	"jobShop/internal/greedy"
	"jobShop/internal/opt"
	"jobShop/internal/sa"
	"jobShop/internal/taboo"
)

// Фабрики

func newGreedyFactory(cfg greedy.Config) func(seed int64) (opt.Optimizer, error) {
	return func(seed int64) (opt.Optimizer, error) {
		return greedy.New(cfg, rand.New(rand.NewSource(seed)))
	}
}

func newDescentFactory(cfg descent.Config, log *zap.Logger) func(seed int64) (opt.Optimizer, error) {
	return func(seed int64) (opt.Optimizer, error) {
		solver, err := descent.New(cfg, rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil, err
		}
		solver.Log = log
		return solver, nil
	}
}

func newTabooFactory(cfg taboo.Config, log *zap.Logger) func(seed int64) (opt.Optimizer, error) {
	return func(seed int64) (opt.Optimizer, error) {
		solver, err := taboo.New(cfg, rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil, err
		}
		solver.Log = log
		return solver, nil
	}
}

func newSAFactory(cfg sa.Config, log *zap.Logger) func(seed int64) (opt.Optimizer, error) {
	return func(seed int64) (opt.Optimizer, error) {
		solver, err := sa.New(cfg, rand.New(rand.NewSource(seed)))
		if err != nil {
			return nil, err
		}
		solver.Log = log
		return solver, nil
	}
}

// registry строит все доступные решатели. Имена: greedy<rule>[_random],
// descent[<rule>][_random], taboo[<rule>][_random], sa, basic, random.
// Без суффикса правила используется правило из конфигурации.
func registry(cfg config.Config, log *zap.Logger) map[string]bench.Algorithm {
	out := make(map[string]bench.Algorithm)
	add := func(name string, f func(seed int64) (opt.Optimizer, error)) {
		out[name] = bench.Algorithm{Name: name, Factory: f}
	}

	add("basic", func(int64) (opt.Optimizer, error) { return basic.Solver{}, nil })
	add("random", func(seed int64) (opt.Optimizer, error) {
		return basic.Solver{Rng: rand.New(rand.NewSource(seed))}, nil
	})
	add("sa", newSAFactory(cfg.SA, log))

	g := cfg.Greedy
	g.Randomness = 0
	add("greedy", newGreedyFactory(g))
	add("descent", newDescentFactory(cfg.Descent, log))
	add("taboo", newTabooFactory(cfg.Taboo, log))

	for _, rule := range greedy.Rules() {
		for _, random := range []bool{false, true} {
			initial := greedy.Config{Rule: rule}
			suffix := rule.String()
			if random {
				initial.Randomness = cfg.Greedy.Randomness
				suffix += "_random"
			}

			add("greedy"+suffix, newGreedyFactory(initial))

			d := cfg.Descent
			d.Initial = initial
			add("descent"+suffix, newDescentFactory(d, log))

			t := cfg.Taboo
			t.Initial = initial
			add("taboo"+suffix, newTabooFactory(t, log))
		}
	}
	return out
}

func keys(m map[string]bench.Algorithm) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
