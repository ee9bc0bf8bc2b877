package descent

import (
	"fmt"

	"jobShop/internal/greedy"
)

type Config struct {
	// Initial - настройка жадного алгоритма, дающего стартовое решение.
	Initial greedy.Config

	// CacheSize - ёмкость кэша makespan по порядкам; 0 отключает кэш.
	CacheSize int
}

func DefaultConfig() Config {
	return Config{
		Initial:   greedy.DefaultConfig(),
		CacheSize: 4096,
	}
}

func (c Config) Validate() error {
	if err := c.Initial.Validate(); err != nil {
		return fmt.Errorf("начальное решение: %w", err)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf(
			"CacheSize должно быть >= 0 (получено %d)",
			c.CacheSize,
		)
	}
	return nil
}
