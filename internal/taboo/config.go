package taboo

import (
	"fmt"

	"jobShop/internal/greedy"
)

type Config struct {
	// Initial - настройка жадного алгоритма, дающего стартовое решение.
	Initial greedy.Config

	MaxIterations int

	// Tenure - число итераций, в течение которых обратный ход запрещён.
	Tenure int

	// TenureRand - случайная добавка к сроку табу [0..TenureRand].
	TenureRand int

	// Aspiration разрешает табуированный ход, улучшающий лучшее решение.
	Aspiration bool

	CacheSize int
}

func DefaultConfig() Config {
	return Config{
		Initial:       greedy.DefaultConfig(),
		MaxIterations: 100000,
		Tenure:        2,
		TenureRand:    0,
		Aspiration:    false,
		CacheSize:     8192,
	}
}

func (c Config) Validate() error {
	if err := c.Initial.Validate(); err != nil {
		return fmt.Errorf("начальное решение: %w", err)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf(
			"MaxIterations должно быть > 0 (получено %d)",
			c.MaxIterations,
		)
	}
	if c.Tenure <= 0 {
		return fmt.Errorf(
			"Tenure должно быть > 0 (получено %d)",
			c.Tenure,
		)
	}
	if c.TenureRand < 0 {
		return fmt.Errorf(
			"TenureRand должно быть >= 0 (получено %d)",
			c.TenureRand,
		)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf(
			"CacheSize должно быть >= 0 (получено %d)",
			c.CacheSize,
		)
	}
	return nil
}
