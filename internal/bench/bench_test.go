package bench

import (
	"bytes"
	"context"
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"jobShop/internal/basic"
	"jobShop/internal/jobshop"
	"jobShop/internal/opt"
	"jobShop/internal/taboo"
)

const instancesDir = "../../instances"

// broken возвращает расписание, нарушающее порядок операций.
type broken struct{}

func (broken) Solve(_ context.Context, inst *jobshop.Instance) (opt.Result, error) {
	ro := jobshop.NewResourceOrder(inst)
	s, err := ro.Decode()
	return opt.Result{Schedule: s}, err
}

func basicAlgo(random bool) Algorithm {
	return Algorithm{
		Name: "basic",
		Factory: func(seed int64) (opt.Optimizer, error) {
			if random {
				return basic.Solver{Rng: rand.New(rand.NewSource(seed))}, nil
			}
			return basic.Solver{}, nil
		},
	}
}

func TestCalcStats(t *testing.T) {
	s := CalcStats([]int{5, 3, 4})
	assert.Equal(t, 3, s.Best)
	assert.InDelta(t, 4.0, s.Mean, 1e-9)
	assert.InDelta(t, 1.0, s.Std, 1e-9)

	f := CalcStats([]float64{2.5})
	assert.Equal(t, 2.5, f.Best)
	assert.Zero(t, f.Std)

	assert.Zero(t, CalcStats[int](nil).N)
}

func TestGap(t *testing.T) {
	assert.InDelta(t, 10.0, Gap(66, 60), 1e-9)
	assert.Zero(t, Gap(66, 0))
}

func TestSelectInstances(t *testing.T) {
	names, err := SelectInstances(instancesDir, []string{"ft", "ft06", "aaa"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ft06", "aaa1"}, names)

	// la01..la40 известны, но файлов нет
	_, err = SelectInstances(instancesDir, []string{"la"})
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = SelectInstances(instancesDir, []string{"ta"})
	assert.ErrorIs(t, err, ErrNoMatch)

	_, err = SelectInstances(t.TempDir(), []string{"ft"})
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestSelectInstances_LoadsEverySelected(t *testing.T) {
	names, err := SelectInstances(instancesDir, []string{"ft"})
	require.NoError(t, err)
	insts, err := LoadInstances(context.Background(), instancesDir, names, 2)
	require.NoError(t, err)
	assert.Len(t, insts, len(names))
}

func TestAvailableInstances(t *testing.T) {
	assert.Equal(t, []string{"aaa1", "ft06"}, AvailableInstances(instancesDir))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "la01"), []byte("1 1\n0 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "ft10"), 0o755))
	assert.Equal(t, []string{"la01"}, AvailableInstances(dir))
}

func TestLoadInstances(t *testing.T) {
	insts, err := LoadInstances(context.Background(), instancesDir, []string{"ft06", "aaa1"}, 2)
	require.NoError(t, err)
	require.Len(t, insts, 2)
	assert.Equal(t, "ft06", insts[0].Name)
	assert.Equal(t, "aaa1", insts[1].Name)

	_, err = LoadInstances(context.Background(), instancesDir, []string{"ft06", "la01-missing"}, 2)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunner_RunInstance(t *testing.T) {
	insts, err := LoadInstances(context.Background(), instancesDir, []string{"ft06"}, 1)
	require.NoError(t, err)

	r := Runner{Runs: 3, BaseSeed: 7, Timeout: time.Second, RunID: NewRunID(), Log: zaptest.NewLogger(t)}
	rec, err := r.RunInstance(context.Background(), insts[0], basicAlgo(true))
	require.NoError(t, err)

	assert.Equal(t, r.RunID, rec.RunID)
	assert.Equal(t, 3, rec.Runs)
	assert.Equal(t, 55, rec.BestKnown)
	assert.GreaterOrEqual(t, rec.MakespanBest, 55)
	assert.GreaterOrEqual(t, rec.Gap, 0.0)
	assert.LessOrEqual(t, float64(rec.MakespanBest), rec.MakespanMean)
}

func TestRunner_TabooWithinDeadline(t *testing.T) {
	insts, err := LoadInstances(context.Background(), instancesDir, []string{"ft06"}, 1)
	require.NoError(t, err)

	algo := Algorithm{
		Name: "taboo",
		Factory: func(seed int64) (opt.Optimizer, error) {
			return taboo.New(taboo.DefaultConfig(), rand.New(rand.NewSource(seed)))
		},
	}
	r := Runner{Runs: 1, Timeout: 100 * time.Millisecond}
	rec, err := r.RunInstance(context.Background(), insts[0], algo)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, rec.MakespanBest, 55)
	assert.Less(t, rec.TimeBestMs, 2000.0)
}

func TestRunner_RejectsInvalidSchedule(t *testing.T) {
	insts, err := LoadInstances(context.Background(), instancesDir, []string{"aaa1"}, 1)
	require.NoError(t, err)

	algo := Algorithm{Name: "broken", Factory: func(int64) (opt.Optimizer, error) { return broken{}, nil }}
	_, err = Runner{Runs: 1}.RunInstance(context.Background(), insts[0], algo)
	assert.Error(t, err)
}

func TestWriteTableAndCSV(t *testing.T) {
	records := []Record{
		{RunID: "r1", Algo: "basic", Instance: "aaa1", Jobs: 2, Machines: 3, Runs: 1, BestKnown: 11, MakespanBest: 12, Gap: Gap(12, 11), TimeMeanMs: 1},
		{RunID: "r1", Algo: "taboo", Instance: "aaa1", Jobs: 2, Machines: 3, Runs: 1, BestKnown: 11, MakespanBest: 11, TimeMeanMs: 3},
		{RunID: "r1", Algo: "basic", Instance: "ft06", Jobs: 6, Machines: 6, Runs: 1, BestKnown: 55, MakespanBest: 60, Gap: Gap(60, 55), TimeMeanMs: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, records))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "basic")
	assert.Contains(t, lines[0], "taboo")
	assert.True(t, strings.HasPrefix(lines[2], "aaa1"))
	assert.True(t, strings.HasPrefix(lines[4], "AVG"))

	path := filepath.Join(t.TempDir(), "out", "results.csv")
	require.NoError(t, WriteCSV(path, records))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "run_id", rows[0][0])
	assert.Equal(t, "ft06", rows[3][2])
}
