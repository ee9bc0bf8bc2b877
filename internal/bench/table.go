package bench

import (
	"fmt"
	"io"
	"slices"
)

// WriteTable печатает сводную таблицу: строка на экземпляр, по колонке
// runtime/makespan/gap на алгоритм, и итоговую строку AVG со средним
// временем и средним отклонением.
func WriteTable(w io.Writer, records []Record) error {
	var algos, instances []string
	cells := make(map[[2]string]Record)
	size := make(map[string]string)
	best := make(map[string]int)
	for _, r := range records {
		if !slices.Contains(algos, r.Algo) {
			algos = append(algos, r.Algo)
		}
		if !slices.Contains(instances, r.Instance) {
			instances = append(instances, r.Instance)
			size[r.Instance] = fmt.Sprintf("%dx%d", r.Jobs, r.Machines)
			best[r.Instance] = r.BestKnown
		}
		cells[[2]string{r.Instance, r.Algo}] = r
	}

	ew := &errWriter{w: w}
	ew.printf("%-25s", "")
	for _, a := range algos {
		ew.printf("%-30s", a)
	}
	ew.printf("\n%-25s", "instance size  best")
	for range algos {
		ew.printf("%-30s", "runtime makespan gap")
	}
	ew.printf("\n")

	runtimes := make([]float64, len(algos))
	gaps := make([]float64, len(algos))
	counts := make([]int, len(algos))
	for _, inst := range instances {
		ew.printf("%-8s %-5s %4d      ", inst, size[inst], best[inst])
		for i, a := range algos {
			r, ok := cells[[2]string{inst, a}]
			if !ok {
				ew.printf("%7s %8s %5s        ", "-", "-", "-")
				continue
			}
			ew.printf("%7.0f %8d %5.1f        ", r.TimeMeanMs, r.MakespanBest, r.Gap)
			runtimes[i] += r.TimeMeanMs
			gaps[i] += r.Gap
			counts[i]++
		}
		ew.printf("\n")
	}

	ew.printf("%-8s %-5s %4s      ", "AVG", "-", "-")
	for i := range algos {
		if counts[i] == 0 {
			ew.printf("%7s %8s %5s        ", "-", "-", "-")
			continue
		}
		n := float64(counts[i])
		ew.printf("%7.1f %8s %5.1f        ", runtimes[i]/n, "-", gaps[i]/n)
	}
	ew.printf("\n")
	return ew.err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
