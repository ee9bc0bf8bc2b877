// Package neighborhood выделяет блоки критического пути в кодировке
// ResourceOrder и строит окрестность Новицкого-Смутницкого: перестановки
// первой и последней пары операций каждого блока.
package neighborhood

import (
	"fmt"

	"jobShop/internal/jobshop"
)

// Block - максимальная серия подряд идущих позиций в очереди станка,
// целиком лежащая на критическом пути. First < Last всегда.
type Block struct {
	Machine int
	First   int
	Last    int
}

func (b Block) Len() int { return b.Last - b.First + 1 }

// Swap - обмен операций в позициях I и J очереди станка Machine.
type Swap struct {
	Machine int
	I       int
	J       int
}

// Apply меняет две операции местами на месте. Результат может оказаться
// несовместным, поэтому его всегда нужно декодировать заново.
func (s Swap) Apply(ro *jobshop.ResourceOrder) {
	ro.Swap(s.Machine, s.I, s.J)
}

func (s Swap) String() string {
	return fmt.Sprintf("m%d[%d<->%d]", s.Machine, s.I, s.J)
}

// Blocks группирует критический путь в блоки. Одиночные операции
// отбрасываются: обмен внутри станка для них невозможен.
func Blocks(ro *jobshop.ResourceOrder, path []jobshop.Task) []Block {
	inst := ro.Instance()
	var blocks []Block

	machine, first, last := -1, -1, -1
	flush := func() {
		if machine >= 0 && last > first {
			blocks = append(blocks, Block{Machine: machine, First: first, Last: last})
		}
	}

	for _, t := range path {
		m := inst.Machine(t.Job, t.Op)
		idx := ro.IndexOf(t)
		if m == machine && idx == last+1 {
			last = idx
			continue
		}
		flush()
		machine, first, last = m, idx, idx
	}
	flush()
	return blocks
}

// Neighbors возвращает перестановку первой пары блока и, если блок
// длиннее двух операций, перестановку последней пары.
func Neighbors(b Block) []Swap {
	swaps := []Swap{{Machine: b.Machine, I: b.First, J: b.First + 1}}
	if b.Last-1 != b.First {
		swaps = append(swaps, Swap{Machine: b.Machine, I: b.Last - 1, J: b.Last})
	}
	return swaps
}

// Analysis - расписание порядка и его окрестность.
type Analysis struct {
	Schedule *jobshop.Schedule
	Path     []jobshop.Task
	Blocks   []Block
	Swaps    []Swap
}

// Analyze декодирует порядок и строит все ходы по блокам его критического пути.
func Analyze(ro *jobshop.ResourceOrder) (Analysis, error) {
	s, err := ro.Decode()
	if err != nil {
		return Analysis{}, err
	}
	path := s.CriticalPath()
	blocks := Blocks(ro, path)
	var swaps []Swap
	for _, b := range blocks {
		swaps = append(swaps, Neighbors(b)...)
	}
	return Analysis{Schedule: s, Path: path, Blocks: blocks, Swaps: swaps}, nil
}
