package bench

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/xid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobShop/internal/bestknown"
	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
)

var (
	ErrInvalidSchedule = errors.New("solver returned an invalid schedule")
	ErrNoMatch         = errors.New("instance prefix does not match any instance file")
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) (opt.Optimizer, error)
}

type Record struct {
	RunID    string
	Algo     string
	Instance string
	Jobs     int
	Machines int
	Runs     int
	// BestKnown - лучшее известное значение; 0, если экземпляр не из таблицы.
	BestKnown int
	TimedOut  int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	MakespanBest int
	MakespanMean float64
	MakespanStd  float64
	// Gap - отклонение лучшего запуска от BestKnown, %.
	Gap float64
}

type Runner struct {
	Runs     int
	BaseSeed int64
	// Timeout - дедлайн одного запуска; 0 - без ограничения.
	Timeout time.Duration
	RunID   string
	Log     *zap.Logger
}

// NewRunID возвращает идентификатор пакетного прогона.
func NewRunID() string { return xid.New().String() }

func (r Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

// RunInstance запускает алгоритм Runs раз с сидами BaseSeed, BaseSeed+1, ...
// Каждое возвращённое расписание проверяется на допустимость.
func (r Runner) RunInstance(ctx context.Context, inst *jobshop.Instance, algo Algorithm) (Record, error) {
	log := r.logger().With(
		zap.String("run_id", r.RunID),
		zap.String("algo", algo.Name),
		zap.String("instance", inst.Name),
	)

	runs := r.Runs
	if runs <= 0 {
		runs = 1
	}
	makespans := make([]int, 0, runs)
	timesMs := make([]float64, 0, runs)
	timedOut := 0

	for i := 0; i < runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		op, err := algo.Factory(runSeed)
		if err != nil {
			return Record{}, fmt.Errorf("%s: %w", algo.Name, err)
		}

		runCtx := ctx
		cancel := func() {}
		if r.Timeout > 0 {
			runCtx, cancel = context.WithDeadline(ctx, time.Now().Add(r.Timeout))
		}
		start := time.Now()
		res, err := op.Solve(runCtx, inst)
		dur := time.Since(start)
		cancel()

		if err != nil {
			return Record{}, fmt.Errorf("%s on %s, run %d: %w", algo.Name, inst.Name, i, err)
		}
		if res.Schedule == nil || !res.Schedule.IsValid() {
			return Record{}, fmt.Errorf("%s on %s, run %d: %w", algo.Name, inst.Name, i, ErrInvalidSchedule)
		}
		if got := res.Schedule.Makespan(); got != res.Makespan {
			return Record{}, fmt.Errorf("%s on %s, run %d: reported makespan %d, schedule has %d",
				algo.Name, inst.Name, i, res.Makespan, got)
		}
		if res.Cause == opt.TimedOut {
			timedOut++
		}

		log.Debug("run finished",
			zap.Int("run", i),
			zap.Int64("seed", runSeed),
			zap.Int("makespan", res.Makespan),
			zap.Stringer("cause", res.Cause),
			zap.Int("iterations", res.Iterations),
			zap.Int("evaluations", res.Evaluations),
			zap.Duration("duration", dur),
		)

		makespans = append(makespans, res.Makespan)
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
	}

	msStats := CalcStats(makespans)
	tStats := CalcStats(timesMs)

	rec := Record{
		RunID:    r.RunID,
		Algo:     algo.Name,
		Instance: inst.Name,
		Jobs:     inst.Jobs,
		Machines: inst.Machines,
		Runs:     runs,
		TimedOut: timedOut,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		MakespanBest: msStats.Best,
		MakespanMean: msStats.Mean,
		MakespanStd:  msStats.Std,
	}
	if best, ok := bestknown.Of(inst.Name); ok {
		rec.BestKnown = best
		rec.Gap = Gap(rec.MakespanBest, best)
	}

	log.Info("instance solved",
		zap.Int("makespan_best", rec.MakespanBest),
		zap.Int("best_known", rec.BestKnown),
		zap.Float64("gap", rec.Gap),
		zap.Int("timed_out", timedOut),
	)
	return rec, nil
}

// SelectInstances раскрывает префиксы в имена известных экземпляров,
// файлы которых есть в dir, сохраняя порядок и убирая повторы.
func SelectInstances(dir string, prefixes []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range prefixes {
		matches := onDisk(dir, bestknown.InstancesMatching(p))
		if len(matches) == 0 {
			return nil, fmt.Errorf("%q in %s: %w", p, dir, ErrNoMatch)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// AvailableInstances - известные экземпляры, для которых в dir есть файл.
func AvailableInstances(dir string) []string {
	return onDisk(dir, bestknown.Names())
}

func onDisk(dir string, names []string) []string {
	var out []string
	for _, n := range names {
		if fi, err := os.Stat(filepath.Join(dir, n)); err == nil && fi.Mode().IsRegular() {
			out = append(out, n)
		}
	}
	return out
}

// LoadInstances читает файлы dir/<name> параллельно, не более workers
// одновременно. Порядок результата совпадает с порядком names.
func LoadInstances(ctx context.Context, dir string, names []string, workers int) ([]*jobshop.Instance, error) {
	out := make([]*jobshop.Instance, len(names))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			inst, err := jobshop.LoadInstance(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			out[i] = inst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func WriteCSV(path string, records []Record) error {
	if d := dirOf(path); d != "" {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"run_id", "algo", "instance", "jobs", "machines", "runs", "timed_out",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"makespan_best", "makespan_mean", "makespan_std",
		"best_known", "gap",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.RunID,
			r.Algo,
			r.Instance,
			itoa(r.Jobs),
			itoa(r.Machines),
			itoa(r.Runs),
			itoa(r.TimedOut),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			itoa(r.MakespanBest),
			ftoa(r.MakespanMean),
			ftoa(r.MakespanStd),

			itoa(r.BestKnown),
			ftoa(r.Gap),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
