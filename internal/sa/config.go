package sa

import "fmt"

// Тип окрестности на последовательности номеров работ
type Neighborhood string

const (
	NeighborhoodSwap   Neighborhood = "swap"
	NeighborhoodInsert Neighborhood = "insert"
)

type Config struct {
	Iterations int
	// IterationsPerOp используется, если Iterations == 0:
	// итераций = IterationsPerOp × число операций.
	IterationsPerOp int

	InitialTemp float64
	FinalTemp   float64
	Alpha       float64

	Neighborhood Neighborhood
}

func DefaultConfig() Config {
	return Config{
		Iterations:      0,
		IterationsPerOp: 200,

		InitialTemp: 200.0,
		FinalTemp:   0.5,
		Alpha:       0.999,

		Neighborhood: NeighborhoodSwap,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerOp <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerOp > 0",
		)
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf(
			"InitialTemp должно быть > 0 (получено %f)",
			c.InitialTemp,
		)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf(
			"FinalTemp должно быть > 0 (получено %f)",
			c.FinalTemp,
		)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf(
			"FinalTemp должно быть < InitialTemp (получено %f >= %f)",
			c.FinalTemp,
			c.InitialTemp,
		)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале (0,1) (получено %f)",
			c.Alpha,
		)
	}
	switch c.Neighborhood {
	case NeighborhoodSwap, NeighborhoodInsert:
		// ok
	default:
		return fmt.Errorf(
			"неизвестный тип окрестности %q",
			c.Neighborhood,
		)
	}
	return nil
}
