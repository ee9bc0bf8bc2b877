package opt

import (
	"context"
	"errors"
	"time"

	"jobShop/internal/jobshop"
)

type Optimizer interface {
	Solve(ctx context.Context, inst *jobshop.Instance) (Result, error)
}

// Cause - причина остановки решателя.
type Cause int

const (
	// Exhausted: построение завершено, достигнут локальный оптимум
	// или исчерпан лимит итераций.
	Exhausted Cause = iota
	// TimedOut: достигнут дедлайн, возвращено лучшее найденное решение.
	TimedOut
)

func (c Cause) String() string {
	switch c {
	case Exhausted:
		return "exhausted"
	case TimedOut:
		return "timeout"
	default:
		return "unknown"
	}
}

type Result struct {
	Instance *jobshop.Instance
	Schedule *jobshop.Schedule
	Cause    Cause

	Makespan    int
	Evaluations int
	Iterations  int
	Duration    time.Duration
	// Trace - лучший makespan по ходу поиска: начальное значение и далее
	// после каждой внешней итерации (у SA - после каждого улучшения).
	Trace []int
	Meta  map[string]any
}

// SolveUntil запускает решатель с абсолютным дедлайном.
func SolveUntil(o Optimizer, inst *jobshop.Instance, deadline time.Time) (Result, error) {
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()
	return o.Solve(ctx, inst)
}

// Stopped проверяет контекст на границе итерации. Истёкший дедлайн - штатная
// остановка (ok=true, err=nil); явная отмена возвращается как ошибка.
func Stopped(ctx context.Context) (bool, error) {
	err := ctx.Err()
	if err == nil {
		// таймер контекста может сработать чуть позже дедлайна
		if d, ok := ctx.Deadline(); ok && !time.Now().Before(d) {
			return true, nil
		}
		return false, nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true, nil
	}
	return true, err
}
