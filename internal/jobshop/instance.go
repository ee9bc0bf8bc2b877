package jobshop

import (
	"errors"
	"fmt"
	"math/rand"
)

type Instance struct {
	Name     string
	Jobs     int
	Tasks    int // операций в каждой работе
	Machines int
	// Durations и MachineOf имеют длину Jobs*Tasks, индекс job*Tasks+op.
	Durations []int
	MachineOf []int
}

// Task - одна операция: (работа, номер операции внутри работы).
type Task struct {
	Job int
	Op  int
}

func (t Task) String() string {
	return fmt.Sprintf("(%d,%d)", t.Job, t.Op)
}

func NewInstance(jobs, tasks, machines int, durations, machineOf []int) (*Instance, error) {
	inst := &Instance{
		Jobs:      jobs,
		Tasks:     tasks,
		Machines:  machines,
		Durations: durations,
		MachineOf: machineOf,
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return errors.New("instance is nil")
	}
	if inst.Jobs <= 0 {
		return fmt.Errorf("%w: jobs must be > 0 (got %d)", ErrMalformedInstance, inst.Jobs)
	}
	if inst.Tasks <= 0 {
		return fmt.Errorf("%w: tasks must be > 0 (got %d)", ErrMalformedInstance, inst.Tasks)
	}
	if inst.Machines <= 0 {
		return fmt.Errorf("%w: machines must be > 0 (got %d)", ErrMalformedInstance, inst.Machines)
	}
	n := inst.Jobs * inst.Tasks
	if len(inst.Durations) != n {
		return fmt.Errorf("%w: durations length must be jobs*tasks=%d (got %d)", ErrMalformedInstance, n, len(inst.Durations))
	}
	if len(inst.MachineOf) != n {
		return fmt.Errorf("%w: machines length must be jobs*tasks=%d (got %d)", ErrMalformedInstance, n, len(inst.MachineOf))
	}
	for i, v := range inst.Durations {
		if v < 0 {
			return fmt.Errorf("%w: duration of (%d,%d) must be >= 0 (got %d)", ErrMalformedInstance, i/inst.Tasks, i%inst.Tasks, v)
		}
	}
	for i, m := range inst.MachineOf {
		if m < 0 || m >= inst.Machines {
			return fmt.Errorf("%w: machine of (%d,%d) out of range [0,%d) (got %d)", ErrMalformedInstance, i/inst.Tasks, i%inst.Tasks, inst.Machines, m)
		}
	}
	return nil
}

// Size возвращает общее число операций.
func (inst *Instance) Size() int {
	return inst.Jobs * inst.Tasks
}

func (inst *Instance) Duration(job, op int) int {
	return inst.Durations[job*inst.Tasks+op]
}

func (inst *Instance) Machine(job, op int) int {
	return inst.MachineOf[job*inst.Tasks+op]
}

// TaskWithMachine возвращает номер операции работы job на станке machine, либо -1.
func (inst *Instance) TaskWithMachine(job, machine int) int {
	for op := 0; op < inst.Tasks; op++ {
		if inst.Machine(job, op) == machine {
			return op
		}
	}
	return -1
}

// id - плоский индекс операции, используется как ключ в таблицах.
func (inst *Instance) id(t Task) int {
	return t.Job*inst.Tasks + t.Op
}

// RandomInstance генерирует классический экземпляр: каждая работа проходит
// каждый станок ровно один раз в случайном порядке.
func RandomInstance(jobs, machines, minTime, maxTime int, rng *rand.Rand) *Instance {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if minTime < 0 || maxTime < 0 || maxTime < minTime {
		panic("invalid time bounds")
	}
	n := jobs * machines
	durations := make([]int, n)
	machineOf := make([]int, n)
	span := maxTime - minTime + 1
	for j := 0; j < jobs; j++ {
		route := rng.Perm(machines)
		for op := 0; op < machines; op++ {
			i := j*machines + op
			machineOf[i] = route[op]
			durations[i] = minTime
			if span > 1 {
				durations[i] += rng.Intn(span)
			}
		}
	}
	inst, err := NewInstance(jobs, machines, machines, durations, machineOf)
	if err != nil {
		panic(err)
	}
	inst.Name = fmt.Sprintf("rnd%dx%d", jobs, machines)
	return inst
}
