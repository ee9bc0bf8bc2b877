package jobshop

// Encoding - представление решения, из которого можно получить расписание.
// Решатели работают на копиях (Clone), поэтому мутация пробного решения
// не затрагивает текущее.
type Encoding interface {
	Instance() *Instance
	Decode() (*Schedule, error)
	Clone() Encoding
}

var (
	_ Encoding = (*Permutation)(nil)
	_ Encoding = (*ResourceOrder)(nil)
)
