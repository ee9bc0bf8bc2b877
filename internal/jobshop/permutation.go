package jobshop

import (
	"fmt"
	"sort"
)

// Permutation - кодировка последовательностью номеров работ.
// k-е вхождение работы j обозначает её операцию k.
type Permutation struct {
	inst *Instance
	Jobs []int
}

func NewPermutation(inst *Instance) *Permutation {
	return &Permutation{inst: inst, Jobs: make([]int, 0, inst.Size())}
}

// BasicPermutation строит последовательность 0,1,..,J-1,0,1,..: по одной
// операции каждой работы за проход.
func BasicPermutation(inst *Instance) *Permutation {
	p := NewPermutation(inst)
	for op := 0; op < inst.Tasks; op++ {
		for j := 0; j < inst.Jobs; j++ {
			p.Append(j)
		}
	}
	return p
}

func (p *Permutation) Instance() *Instance { return p.inst }

func (p *Permutation) Append(job int) {
	p.Jobs = append(p.Jobs, job)
}

func (p *Permutation) Swap(i, j int) {
	p.Jobs[i], p.Jobs[j] = p.Jobs[j], p.Jobs[i]
}

func (p *Permutation) Clone() Encoding {
	return p.Copy()
}

func (p *Permutation) Copy() *Permutation {
	jobs := make([]int, len(p.Jobs))
	copy(jobs, p.Jobs)
	return &Permutation{inst: p.inst, Jobs: jobs}
}

// Validate проверяет, что каждая работа встречается ровно Tasks раз.
func (p *Permutation) Validate() error {
	inst := p.inst
	if len(p.Jobs) != inst.Size() {
		return fmt.Errorf("%w: permutation length must be %d (got %d)", ErrInconsistentEncoding, inst.Size(), len(p.Jobs))
	}
	count := make([]int, inst.Jobs)
	for i, j := range p.Jobs {
		if j < 0 || j >= inst.Jobs {
			return fmt.Errorf("%w: perm[%d]=%d out of range [0,%d)", ErrInconsistentEncoding, i, j, inst.Jobs)
		}
		count[j]++
		if count[j] > inst.Tasks {
			return fmt.Errorf("%w: job %d appears more than %d times", ErrInconsistentEncoding, j, inst.Tasks)
		}
	}
	return nil
}

// Decode моделирует выполнение: операции ставятся в порядке последовательности,
// каждая в самый ранний момент, допустимый работой и станком.
func (p *Permutation) Decode() (*Schedule, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	inst := p.inst
	s := newSchedule(inst)
	machineFree := make([]int, inst.Machines)
	jobReady := make([]int, inst.Jobs)
	nextOp := make([]int, inst.Jobs)

	for _, j := range p.Jobs {
		op := nextOp[j]
		m := inst.Machine(j, op)
		est := jobReady[j]
		if machineFree[m] > est {
			est = machineFree[m]
		}
		s.place(j*inst.Tasks+op, est)
		end := est + inst.Duration(j, op)
		machineFree[m] = end
		jobReady[j] = end
		nextOp[j] = op + 1
	}
	return s, nil
}

// PermutationFromSchedule упорядочивает операции по времени начала,
// одновременные - в порядке декодирования. Повторное декодирование
// результата даёт те же времена, в том числе при нулевых длительностях.
func PermutationFromSchedule(s *Schedule) *Permutation {
	inst := s.inst
	tasks := make([]Task, 0, inst.Size())
	for j := 0; j < inst.Jobs; j++ {
		for op := 0; op < inst.Tasks; op++ {
			tasks = append(tasks, Task{Job: j, Op: op})
		}
	}
	sort.SliceStable(tasks, func(a, b int) bool {
		return s.before(tasks[a], tasks[b])
	})

	p := NewPermutation(inst)
	for _, t := range tasks {
		p.Append(t.Job)
	}
	return p
}

// ToResourceOrder переводит кодировку через расписание.
func (p *Permutation) ToResourceOrder() (*ResourceOrder, error) {
	s, err := p.Decode()
	if err != nil {
		return nil, err
	}
	return ResourceOrderFromSchedule(s), nil
}

func (p *Permutation) String() string {
	return fmt.Sprint(p.Jobs)
}
