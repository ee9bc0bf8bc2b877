package jobshop

import (
	"fmt"
	"strings"
)

// ResourceOrder - для каждого станка упорядоченный список его операций.
type ResourceOrder struct {
	inst     *Instance
	Machines [][]Task
}

func NewResourceOrder(inst *Instance) *ResourceOrder {
	ro := &ResourceOrder{inst: inst, Machines: make([][]Task, inst.Machines)}
	for m := range ro.Machines {
		ro.Machines[m] = make([]Task, 0, inst.Jobs)
	}
	return ro
}

// ResourceOrderFromSchedule упорядочивает операции каждого станка
// по времени начала в расписании.
func ResourceOrderFromSchedule(s *Schedule) *ResourceOrder {
	ro := NewResourceOrder(s.inst)
	for m, tasks := range s.tasksByMachine() {
		ro.Machines[m] = append(ro.Machines[m], tasks...)
	}
	return ro
}

func (ro *ResourceOrder) Instance() *Instance { return ro.inst }

// Append ставит операцию в конец очереди её станка.
func (ro *ResourceOrder) Append(t Task) {
	m := ro.inst.Machine(t.Job, t.Op)
	ro.Machines[m] = append(ro.Machines[m], t)
}

// Swap меняет местами операции в позициях i и j на станке machine.
func (ro *ResourceOrder) Swap(machine, i, j int) {
	row := ro.Machines[machine]
	row[i], row[j] = row[j], row[i]
}

// IndexOf возвращает позицию операции в очереди её станка, либо -1.
func (ro *ResourceOrder) IndexOf(t Task) int {
	m := ro.inst.Machine(t.Job, t.Op)
	for i, c := range ro.Machines[m] {
		if c == t {
			return i
		}
	}
	return -1
}

func (ro *ResourceOrder) Clone() Encoding {
	return ro.Copy()
}

func (ro *ResourceOrder) Copy() *ResourceOrder {
	c := &ResourceOrder{inst: ro.inst, Machines: make([][]Task, len(ro.Machines))}
	for m, row := range ro.Machines {
		c.Machines[m] = make([]Task, len(row))
		copy(c.Machines[m], row)
	}
	return c
}

// Validate проверяет, что каждая операция стоит ровно один раз
// и в очереди своего станка.
func (ro *ResourceOrder) Validate() error {
	inst := ro.inst
	if len(ro.Machines) != inst.Machines {
		return fmt.Errorf("%w: %d machine rows, want %d", ErrInconsistentEncoding, len(ro.Machines), inst.Machines)
	}
	seen := make([]bool, inst.Size())
	total := 0
	for m, row := range ro.Machines {
		for i, t := range row {
			if t.Job < 0 || t.Job >= inst.Jobs || t.Op < 0 || t.Op >= inst.Tasks {
				return fmt.Errorf("%w: machine %d position %d: task %v out of range", ErrInconsistentEncoding, m, i, t)
			}
			if inst.Machine(t.Job, t.Op) != m {
				return fmt.Errorf("%w: task %v requires machine %d, found on %d", ErrInconsistentEncoding, t, inst.Machine(t.Job, t.Op), m)
			}
			if seen[inst.id(t)] {
				return fmt.Errorf("%w: task %v appears twice", ErrInconsistentEncoding, t)
			}
			seen[inst.id(t)] = true
			total++
		}
	}
	if total != inst.Size() {
		return fmt.Errorf("%w: %d tasks ordered, want %d", ErrInconsistentEncoding, total, inst.Size())
	}
	return nil
}

// Decode проходит очереди станков, ставя операцию, как только известно
// время окончания её предшественника по работе. Если за полный проход
// по станкам ни одна операция не поставлена, очереди образуют цикл
// ожидания и кодировка несовместна.
func (ro *ResourceOrder) Decode() (*Schedule, error) {
	if err := ro.Validate(); err != nil {
		return nil, err
	}
	inst := ro.inst
	s := newSchedule(inst)
	machineFree := make([]int, inst.Machines)
	jobReady := make([]int, inst.Jobs)
	nextOp := make([]int, inst.Jobs)
	pos := make([]int, inst.Machines)

	remaining := inst.Size()
	for remaining > 0 {
		progress := false
		for m, row := range ro.Machines {
			for pos[m] < len(row) {
				t := row[pos[m]]
				if nextOp[t.Job] != t.Op {
					break
				}
				est := jobReady[t.Job]
				if machineFree[m] > est {
					est = machineFree[m]
				}
				s.place(inst.id(t), est)
				end := est + inst.Duration(t.Job, t.Op)
				machineFree[m] = end
				jobReady[t.Job] = end
				nextOp[t.Job]++
				pos[m]++
				remaining--
				progress = true
			}
		}
		if !progress {
			return nil, fmt.Errorf("%w: cyclic wait, %d tasks unresolved", ErrInconsistentEncoding, remaining)
		}
	}
	return s, nil
}

// ToPermutation переводит кодировку через расписание.
func (ro *ResourceOrder) ToPermutation() (*Permutation, error) {
	s, err := ro.Decode()
	if err != nil {
		return nil, err
	}
	return PermutationFromSchedule(s), nil
}

// Fingerprint - компактный ключ порядка, пригодный для кэша.
func (ro *ResourceOrder) Fingerprint() string {
	b := make([]byte, 0, ro.inst.Size()*4)
	for _, row := range ro.Machines {
		for _, t := range row {
			id := uint32(ro.inst.id(t))
			b = append(b, byte(id), byte(id>>8), byte(id>>16), byte(id>>24))
		}
	}
	return string(b)
}

func (ro *ResourceOrder) String() string {
	var b strings.Builder
	for m, row := range ro.Machines {
		fmt.Fprintf(&b, "m%d:", m)
		for _, t := range row {
			b.WriteByte(' ')
			b.WriteString(t.String())
		}
		if m < len(ro.Machines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
