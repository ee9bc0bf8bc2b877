package greedy

import (
	"fmt"
	"strings"
)

// Rule - правило приоритета при выборе готовой операции.
type Rule int

const (
	SPT  Rule = iota // кратчайшая длительность операции
	LPT              // длиннейшая длительность операции
	SRPT             // кратчайшая оставшаяся работа
	LRPT             // длиннейшая оставшаяся работа

	// EST-варианты: сначала самый ранний возможный старт, при равенстве - базовое правило.
	ESTSPT
	ESTLPT
	ESTSRPT
	ESTLRPT
)

var ruleNames = [...]string{
	SPT:     "spt",
	LPT:     "lpt",
	SRPT:    "srpt",
	LRPT:    "lrpt",
	ESTSPT:  "estspt",
	ESTLPT:  "estlpt",
	ESTSRPT: "estsrpt",
	ESTLRPT: "estlrpt",
}

// Rules возвращает все правила в порядке объявления.
func Rules() []Rule {
	return []Rule{SPT, LPT, SRPT, LRPT, ESTSPT, ESTLPT, ESTSRPT, ESTLRPT}
}

func (r Rule) String() string {
	if r < 0 || int(r) >= len(ruleNames) {
		return fmt.Sprintf("rule(%d)", int(r))
	}
	return ruleNames[r]
}

// ParseRule принимает имена вида "spt", "EST_LRPT", "est-srpt".
func ParseRule(s string) (Rule, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(strings.TrimSpace(s)))
	for i, name := range ruleNames {
		if name == norm {
			return Rule(i), nil
		}
	}
	return 0, fmt.Errorf("неизвестное правило приоритета %q", s)
}

func (r Rule) est() bool { return r >= ESTSPT && r <= ESTLRPT }

type Config struct {
	Rule Rule

	// Randomness - уровень случайности R. 0 - детерминированный выбор,
	// 1 - равновероятный выбор среди готовых операций,
	// R > 1 - перед выбором отбрасывается случайная доля size/R кандидатов.
	Randomness int
}

func DefaultConfig() Config {
	return Config{
		Rule:       SPT,
		Randomness: 0,
	}
}

func (c Config) Validate() error {
	if c.Rule < SPT || c.Rule > ESTLRPT {
		return fmt.Errorf(
			"неизвестное правило приоритета %d",
			int(c.Rule),
		)
	}
	if c.Randomness < 0 {
		return fmt.Errorf(
			"Randomness должно быть >= 0 (получено %d)",
			c.Randomness,
		)
	}
	return nil
}
