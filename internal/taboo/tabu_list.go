package taboo

import "jobShop/internal/jobshop"

// tabuList хранит запрещённые порядки на станках.
//
// Ход, переставивший соседние операции a и b (a стояла перед b), запрещает
// снова поставить a непосредственно перед b до итерации истечения.
// Запреты живут не дольше tenure итераций, поэтому одновременно активных
// записей не больше, чем итераций в окне: хватает кольца фиксированной
// ёмкости, старые записи вытесняются по кругу.
type tabuList struct {
	inst   *jobshop.Instance
	until  map[uint64]int // пара → итерация, с которой запрет снят
	ring   []tabuEntry
	cursor int
}

type tabuEntry struct {
	pair  uint64
	until int
}

func newTabuList(inst *jobshop.Instance, capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	return &tabuList{
		inst:  inst,
		until: make(map[uint64]int, capacity*2),
		ring:  make([]tabuEntry, capacity),
	}
}

// Forbidden сообщает, запрещено ли на итерации iter поставить a прямо перед b.
func (l *tabuList) Forbidden(a, b jobshop.Task, iter int) bool {
	until, ok := l.until[orderKey(l.inst, a, b)]
	return ok && iter < until
}

// Forbid запрещает порядок "a прямо перед b" до итерации until (не включая).
func (l *tabuList) Forbid(a, b jobshop.Task, until int) {
	// запись, которую вытесняет кольцо, удаляется, если её не перезаписали
	if old := l.ring[l.cursor]; old.pair != 0 {
		if cur, ok := l.until[old.pair]; ok && cur == old.until {
			delete(l.until, old.pair)
		}
	}

	pair := orderKey(l.inst, a, b)
	l.ring[l.cursor] = tabuEntry{pair: pair, until: until}
	l.until[pair] = until
	l.cursor = (l.cursor + 1) % len(l.ring)
}

// orderKey кодирует упорядоченную пару операций. Нулевой ключ не
// используется: он обозначает пустую ячейку кольца.
func orderKey(inst *jobshop.Instance, a, b jobshop.Task) uint64 {
	ia := uint64(a.Job*inst.Tasks + a.Op + 1)
	ib := uint64(b.Job*inst.Tasks + b.Op + 1)
	return ia<<32 | ib
}
