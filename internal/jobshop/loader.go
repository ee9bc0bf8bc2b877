package jobshop

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ParseInstance читает экземпляр в текстовом формате:
//
//	# комментарий (допускается и в конце строки)
//	<jobs> <machines>
//	<machine> <duration> <machine> <duration> ...   (по строке на работу)
//
// Каждая работа содержит ровно <machines> операций.
func ParseInstance(name string, r io.Reader) (*Instance, error) {
	var nums []int
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text, _, _ := strings.Cut(sc.Text(), "#")
		for _, f := range strings.Fields(text) {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: %s line %d: %q is not an integer", ErrMalformedInstance, name, line, f)
			}
			nums = append(nums, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(nums) < 2 {
		return nil, fmt.Errorf("%w: %s: missing header", ErrMalformedInstance, name)
	}
	jobs, machines := nums[0], nums[1]
	if jobs <= 0 || machines <= 0 {
		return nil, fmt.Errorf("%w: %s: header must be positive (got %d %d)", ErrMalformedInstance, name, jobs, machines)
	}
	body := nums[2:]
	if want := jobs * machines * 2; len(body) != want {
		return nil, fmt.Errorf("%w: %s: expected %d numbers after header (got %d)", ErrMalformedInstance, name, want, len(body))
	}

	n := jobs * machines
	durations := make([]int, n)
	machineOf := make([]int, n)
	for i := 0; i < n; i++ {
		machineOf[i] = body[2*i]
		durations[i] = body[2*i+1]
	}

	inst, err := NewInstance(jobs, machines, machines, durations, machineOf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	inst.Name = name
	return inst, nil
}

// LoadInstance читает экземпляр из файла; имя экземпляра - имя файла.
func LoadInstance(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseInstance(filepath.Base(path), f)
}
