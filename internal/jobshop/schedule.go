package jobshop

import (
	"fmt"
	"sort"
	"strings"
)

// Schedule - конкретные времена начала всех операций.
// Создаётся только декодированием кодировок.
type Schedule struct {
	inst  *Instance
	start []int // индекс job*Tasks+op
	// seq - номер шага декодирования, на котором поставлена операция.
	// Упорядочивает одновременные старты так же, как их поставил декодер.
	seq  []int
	next int
}

func newSchedule(inst *Instance) *Schedule {
	n := inst.Size()
	return &Schedule{inst: inst, start: make([]int, n), seq: make([]int, n)}
}

// place фиксирует время начала операции с индексом id.
func (s *Schedule) place(id, start int) {
	s.start[id] = start
	s.seq[id] = s.next
	s.next++
}

func (s *Schedule) Instance() *Instance {
	return s.inst
}

func (s *Schedule) StartTime(job, op int) int {
	return s.start[job*s.inst.Tasks+op]
}

func (s *Schedule) EndTime(job, op int) int {
	return s.StartTime(job, op) + s.inst.Duration(job, op)
}

func (s *Schedule) startOf(t Task) int { return s.StartTime(t.Job, t.Op) }
func (s *Schedule) endOf(t Task) int   { return s.EndTime(t.Job, t.Op) }

// Makespan - время завершения последней операции.
func (s *Schedule) Makespan() int {
	ms := 0
	for j := 0; j < s.inst.Jobs; j++ {
		for op := 0; op < s.inst.Tasks; op++ {
			if end := s.EndTime(j, op); end > ms {
				ms = end
			}
		}
	}
	return ms
}

// IsValid проверяет ограничения предшествования внутри работ
// и отсутствие пересечений на станках.
func (s *Schedule) IsValid() bool {
	inst := s.inst
	for j := 0; j < inst.Jobs; j++ {
		if s.StartTime(j, 0) < 0 {
			return false
		}
		for op := 1; op < inst.Tasks; op++ {
			if s.StartTime(j, op) < s.EndTime(j, op-1) {
				return false
			}
		}
	}

	byMachine := s.tasksByMachine()
	for _, tasks := range byMachine {
		// Интервалы нулевой длины пусты и ни с чем не пересекаются.
		maxEnd := 0
		for _, t := range tasks {
			if inst.Duration(t.Job, t.Op) == 0 {
				continue
			}
			if s.startOf(t) < maxEnd {
				return false
			}
			maxEnd = s.endOf(t)
		}
	}
	return true
}

// tasksByMachine раскладывает операции по станкам в порядке времени начала.
// При равных временах сохраняется порядок декодирования.
func (s *Schedule) tasksByMachine() [][]Task {
	inst := s.inst
	byMachine := make([][]Task, inst.Machines)
	for j := 0; j < inst.Jobs; j++ {
		for op := 0; op < inst.Tasks; op++ {
			m := inst.Machine(j, op)
			byMachine[m] = append(byMachine[m], Task{Job: j, Op: op})
		}
	}
	for _, tasks := range byMachine {
		sort.SliceStable(tasks, func(a, b int) bool {
			return s.before(tasks[a], tasks[b])
		})
	}
	return byMachine
}

func (s *Schedule) before(a, b Task) bool {
	sa, sb := s.startOf(a), s.startOf(b)
	if sa != sb {
		return sa < sb
	}
	return s.seq[s.inst.id(a)] < s.seq[s.inst.id(b)]
}

// CriticalPath возвращает цепочку операций, определяющую makespan,
// в хронологическом порядке.
//
// Путь строится от операции, завершающейся в момент makespan, назад:
// на каждом шаге выбирается непосредственный предшественник, завершающийся
// ровно в момент начала текущей операции. Предшественник по работе имеет
// приоритет над предшественником по станку.
func (s *Schedule) CriticalPath() []Task {
	inst := s.inst
	ms := s.Makespan()

	last := Task{Job: -1}
	for j := 0; j < inst.Jobs && last.Job < 0; j++ {
		for op := 0; op < inst.Tasks; op++ {
			if s.EndTime(j, op) == ms {
				last = Task{Job: j, Op: op}
				break
			}
		}
	}
	if last.Job < 0 {
		return nil
	}

	byMachine := s.tasksByMachine()
	onPath := make([]bool, inst.Size())
	path := []Task{last}
	onPath[inst.id(last)] = true

	curr := last
	for {
		st := s.startOf(curr)
		next, ok := s.jobPredecessor(curr, st)
		if !ok || onPath[inst.id(next)] {
			next, ok = s.machinePredecessor(byMachine[inst.Machine(curr.Job, curr.Op)], curr, st, onPath)
		}
		if !ok {
			break
		}
		onPath[inst.id(next)] = true
		path = append(path, next)
		curr = next
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (s *Schedule) jobPredecessor(t Task, st int) (Task, bool) {
	if t.Op == 0 {
		return Task{}, false
	}
	p := Task{Job: t.Job, Op: t.Op - 1}
	if s.endOf(p) != st {
		return Task{}, false
	}
	return p, true
}

// machinePredecessor ищет на станке операцию, завершающуюся ровно в st.
// Среди нескольких берётся последняя по порядку на станке.
func (s *Schedule) machinePredecessor(tasks []Task, t Task, st int, onPath []bool) (Task, bool) {
	found := false
	var best Task
	for _, c := range tasks {
		if c == t || onPath[s.inst.id(c)] {
			continue
		}
		if s.endOf(c) == st {
			best = c
			found = true
		}
	}
	return best, found
}

func (s *Schedule) String() string {
	var b strings.Builder
	for j := 0; j < s.inst.Jobs; j++ {
		fmt.Fprintf(&b, "job %d:", j)
		for op := 0; op < s.inst.Tasks; op++ {
			fmt.Fprintf(&b, " [m%d %d-%d]", s.inst.Machine(j, op), s.StartTime(j, op), s.EndTime(j, op))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "makespan: %d", s.Makespan())
	return b.String()
}
