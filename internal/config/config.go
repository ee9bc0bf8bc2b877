// Package config собирает настройки решателей и пакетного прогона из
// значений по умолчанию, TOML-файла и переменных окружения (.env).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"

	"jobShop/internal/descent"
	"jobShop/internal/greedy"
	"jobShop/internal/sa"
	"jobShop/internal/taboo"
)

// Переменные окружения.
const (
	EnvInstancesDir = "JSSP_INSTANCES_DIR"
	EnvTimeout      = "JSSP_TIMEOUT"
	EnvConfig       = "JSSP_CONFIG"
)

// DefaultRandomness - уровень случайности для решателей с суффиксом _random.
const DefaultRandomness = 2

type Config struct {
	// Greedy.Rule - правило решателя "greedy", Greedy.Randomness - уровень
	// случайности всех вариантов с суффиксом _random.
	Greedy  greedy.Config
	Descent descent.Config
	Taboo   taboo.Config
	SA      sa.Config
	Bench   Bench
}

// Bench - политика пакетного прогона.
type Bench struct {
	InstancesDir string
	// Timeout - бюджет времени одного решателя на один экземпляр.
	Timeout time.Duration
	Runs    int
	Seed    int64
	// Workers - число параллельных загрузок файлов экземпляров.
	Workers int
	CSV     string
}

func Default() Config {
	g := greedy.DefaultConfig()
	g.Randomness = DefaultRandomness
	return Config{
		Greedy:  g,
		Descent: descent.DefaultConfig(),
		Taboo:   taboo.DefaultConfig(),
		SA:      sa.DefaultConfig(),
		Bench: Bench{
			InstancesDir: "instances",
			Timeout:      time.Second,
			Runs:         1,
			Seed:         1000,
			Workers:      4,
		},
	}
}

func (c Config) Validate() error {
	if err := c.Greedy.Validate(); err != nil {
		return fmt.Errorf("greedy: %w", err)
	}
	if err := c.Descent.Validate(); err != nil {
		return fmt.Errorf("descent: %w", err)
	}
	if err := c.Taboo.Validate(); err != nil {
		return fmt.Errorf("taboo: %w", err)
	}
	if err := c.SA.Validate(); err != nil {
		return fmt.Errorf("sa: %w", err)
	}
	if c.Bench.Timeout <= 0 {
		return fmt.Errorf("bench: timeout должно быть > 0 (получено %s)", c.Bench.Timeout)
	}
	if c.Bench.Runs <= 0 {
		return fmt.Errorf("bench: runs должно быть > 0 (получено %d)", c.Bench.Runs)
	}
	if c.Bench.Workers <= 0 {
		return fmt.Errorf("bench: workers должно быть > 0 (получено %d)", c.Bench.Workers)
	}
	return nil
}

// Секции файла. Указатели отличают отсутствующий ключ от нулевого значения.

type greedyFile struct {
	Rule       *string `toml:"rule"`
	Randomness *int    `toml:"randomness"`
}

type descentFile struct {
	Rule       *string `toml:"rule"`
	Randomness *int    `toml:"randomness"`
	CacheSize  *int    `toml:"cache_size"`
}

type tabooFile struct {
	Rule          *string `toml:"rule"`
	Randomness    *int    `toml:"randomness"`
	MaxIterations *int    `toml:"max_iterations"`
	Tenure        *int    `toml:"tenure"`
	TenureRand    *int    `toml:"tenure_rand"`
	Aspiration    *bool   `toml:"aspiration"`
	CacheSize     *int    `toml:"cache_size"`
}

type saFile struct {
	Iterations      *int     `toml:"iterations"`
	IterationsPerOp *int     `toml:"iterations_per_op"`
	InitialTemp     *float64 `toml:"initial_temp"`
	FinalTemp       *float64 `toml:"final_temp"`
	Alpha           *float64 `toml:"alpha"`
	Neighborhood    *string  `toml:"neighborhood"`
}

type benchFile struct {
	InstancesDir *string `toml:"instances_dir"`
	Timeout      *string `toml:"timeout"`
	Runs         *int    `toml:"runs"`
	Seed         *int64  `toml:"seed"`
	Workers      *int    `toml:"workers"`
	CSV          *string `toml:"csv"`
}

type file struct {
	Greedy  *greedyFile  `toml:"greedy"`
	Descent *descentFile `toml:"descent"`
	Taboo   *tabooFile   `toml:"taboo"`
	SA      *saFile      `toml:"sa"`
	Bench   *benchFile   `toml:"bench"`
}

// Load читает TOML-файл поверх значений по умолчанию.
func Load(path string) (Config, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	return fromTree(tree)
}

// Parse - как Load, но из содержимого файла.
func Parse(data []byte) (Config, error) {
	tree, err := toml.LoadBytes(data)
	if err != nil {
		return Config{}, err
	}
	return fromTree(tree)
}

func fromTree(tree *toml.Tree) (Config, error) {
	var f file
	if err := tree.Unmarshal(&f); err != nil {
		return Config{}, err
	}
	c := Default()
	if err := f.apply(&c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (f file) apply(c *Config) error {
	if f.Greedy != nil {
		if err := f.Greedy.apply(&c.Greedy); err != nil {
			return fmt.Errorf("greedy: %w", err)
		}
	}
	if d := f.Descent; d != nil {
		if err := (greedyFile{Rule: d.Rule, Randomness: d.Randomness}).apply(&c.Descent.Initial); err != nil {
			return fmt.Errorf("descent: %w", err)
		}
		setInt(&c.Descent.CacheSize, d.CacheSize)
	}
	if t := f.Taboo; t != nil {
		if err := (greedyFile{Rule: t.Rule, Randomness: t.Randomness}).apply(&c.Taboo.Initial); err != nil {
			return fmt.Errorf("taboo: %w", err)
		}
		setInt(&c.Taboo.MaxIterations, t.MaxIterations)
		setInt(&c.Taboo.Tenure, t.Tenure)
		setInt(&c.Taboo.TenureRand, t.TenureRand)
		setInt(&c.Taboo.CacheSize, t.CacheSize)
		if t.Aspiration != nil {
			c.Taboo.Aspiration = *t.Aspiration
		}
	}
	if s := f.SA; s != nil {
		setInt(&c.SA.Iterations, s.Iterations)
		setInt(&c.SA.IterationsPerOp, s.IterationsPerOp)
		setFloat(&c.SA.InitialTemp, s.InitialTemp)
		setFloat(&c.SA.FinalTemp, s.FinalTemp)
		setFloat(&c.SA.Alpha, s.Alpha)
		if s.Neighborhood != nil {
			c.SA.Neighborhood = sa.Neighborhood(*s.Neighborhood)
		}
	}
	if b := f.Bench; b != nil {
		if b.InstancesDir != nil {
			c.Bench.InstancesDir = *b.InstancesDir
		}
		if b.Timeout != nil {
			d, err := time.ParseDuration(*b.Timeout)
			if err != nil {
				return fmt.Errorf("bench: timeout: %w", err)
			}
			c.Bench.Timeout = d
		}
		setInt(&c.Bench.Runs, b.Runs)
		setInt(&c.Bench.Workers, b.Workers)
		if b.Seed != nil {
			c.Bench.Seed = *b.Seed
		}
		if b.CSV != nil {
			c.Bench.CSV = *b.CSV
		}
	}
	return nil
}

func (g greedyFile) apply(c *greedy.Config) error {
	if g.Rule != nil {
		r, err := greedy.ParseRule(*g.Rule)
		if err != nil {
			return err
		}
		c.Rule = r
	}
	setInt(&c.Randomness, g.Randomness)
	return nil
}

func setInt(dst, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// FromEnv подгружает .env (если есть), читает файл из JSSP_CONFIG (если
// задан) и применяет JSSP_INSTANCES_DIR и JSSP_TIMEOUT поверх него.
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	c := Default()
	if path := strings.TrimSpace(os.Getenv(EnvConfig)); path != "" {
		loaded, err := Load(path)
		if err != nil {
			return Config{}, fmt.Errorf("%s=%s: %w", EnvConfig, path, err)
		}
		c = loaded
	}

	if dir := strings.TrimSpace(os.Getenv(EnvInstancesDir)); dir != "" {
		c.Bench.InstancesDir = dir
	}
	if raw := strings.TrimSpace(os.Getenv(EnvTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		c.Bench.Timeout = d
	}
	return c, c.Validate()
}
