package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"jobShop/internal/bench"
	"jobShop/internal/config"
)

func main() {
	// CLI флаги; значения по умолчанию берутся из конфигурации (TOML и окружение)
	var (
		solvers   = flag.String("solver", "", "решатели через запятую, например greedyspt,descentestlrpt,taboo")
		instances = flag.String("instance", "", "префиксы экземпляров через запятую, например ft,la0")
		cfgPath   = flag.String("config", "", "путь к TOML-файлу конфигурации (иначе $"+config.EnvConfig+")")
		timeout   = flag.Duration("t", 0, "таймаут решателя на один экземпляр (иначе из конфигурации)")
		dir       = flag.String("dir", "", "каталог с файлами экземпляров")
		runs      = flag.Int("runs", 0, "количество запусков каждого решателя (с разными сидами)")
		seed      = flag.Int64("seed", 0, "базовый сид для запусков")
		out       = flag.String("csv", "", "путь к выходному CSV-файлу")
		list      = flag.Bool("list", false, "вывести доступные решатели и экземпляры и выйти")
		verbose   = flag.Bool("v", false, "подробный журнал (development logger)")
	)
	flag.Parse()

	if *cfgPath != "" {
		os.Setenv(config.EnvConfig, *cfgPath)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка конфигурации:", err)
		os.Exit(2)
	}

	// флаги перекрывают конфигурацию, только если заданы явно
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.Bench.Timeout = *timeout
		case "dir":
			cfg.Bench.InstancesDir = *dir
		case "runs":
			cfg.Bench.Runs = *runs
		case "seed":
			cfg.Bench.Seed = *seed
		case "csv":
			cfg.Bench.CSV = *out
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка конфигурации:", err)
		os.Exit(2)
	}

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}
	defer log.Sync()

	available := registry(cfg, log)
	if *list {
		fmt.Println("Решатели:", strings.Join(keys(available), " "))
		fmt.Println("Экземпляры:", strings.Join(bench.AvailableInstances(cfg.Bench.InstancesDir), " "))
		return
	}

	var selected []bench.Algorithm
	for _, name := range splitCSV(*solvers) {
		a, ok := available[strings.ToLower(name)]
		if !ok {
			fmt.Fprintf(os.Stderr, "Решатель %q не предоставлен в программе; доступные: %v\n", name, keys(available))
			os.Exit(2)
		}
		selected = append(selected, a)
	}
	if len(selected) == 0 {
		fmt.Fprintln(os.Stderr, "Не задан ни один решатель (-solver)")
		os.Exit(2)
	}

	names, err := bench.SelectInstances(cfg.Bench.InstancesDir, splitCSV(*instances))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v; доступные экземпляры: %v\n", err, bench.AvailableInstances(cfg.Bench.InstancesDir))
		os.Exit(2)
	}
	if len(names) == 0 {
		fmt.Fprintln(os.Stderr, "Не задан ни один экземпляр (-instance)")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	insts, err := bench.LoadInstances(ctx, cfg.Bench.InstancesDir, names, cfg.Bench.Workers)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка загрузки экземпляров:", err)
		os.Exit(1)
	}

	runner := bench.Runner{
		Runs:     cfg.Bench.Runs,
		BaseSeed: cfg.Bench.Seed,
		Timeout:  cfg.Bench.Timeout,
		RunID:    bench.NewRunID(),
		Log:      log,
	}
	log.Info("batch started",
		zap.String("run_id", runner.RunID),
		zap.Strings("solvers", splitCSV(*solvers)),
		zap.Strings("instances", names),
		zap.Duration("timeout", runner.Timeout),
		zap.Int("runs", runner.Runs),
	)

	var records []bench.Record
	for _, inst := range insts {
		for _, a := range selected {
			rec, err := runner.RunInstance(ctx, inst, a)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Ошибка:", err)
				os.Exit(1)
			}
			records = append(records, rec)
		}
	}

	if err := bench.WriteTable(os.Stdout, records); err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка:", err)
		os.Exit(1)
	}

	if cfg.Bench.CSV != "" {
		if err := bench.WriteCSV(cfg.Bench.CSV, records); err != nil {
			fmt.Fprintln(os.Stderr, "Ошибка при записи в CSV:", err)
			os.Exit(1)
		}
		fmt.Println("Saved:", cfg.Bench.CSV)
	}
}

// helpers

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return zcfg.Build()
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
