// Command rlubench drives a mixed read/write workload against both
// set implementations this module ships -- rluset (RLU-based) and
// lockset (lock-coupling baseline) -- and reports throughput as CSV.
//
// It is a thin CLI driving benchmarks as an external collaborator of the
// RLU runtime: it never touches rlu's internals directly, only rluset's
// and lockset's public operations. Each invocation runs one write-ratio
// and thread-count configuration for a fixed wall-clock duration and
// prints a CSV header line followed by one CSV result line.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/4molybdenum2/safe-rlu/lockset"
	"github.com/4molybdenum2/safe-rlu/rluset"
)

type config struct {
	impl        string
	threads     int
	writeRatio  float64
	duration    time.Duration
	initialSize int
	keyRange    int
}

func main() {
	var cfg config
	flag.StringVar(&cfg.impl, "impl", "rlu", "set implementation to benchmark: rlu or lockcoupling")
	flag.IntVar(&cfg.threads, "threads", 4, "number of concurrent worker goroutines")
	flag.Float64Var(&cfg.writeRatio, "write-ratio", 0.1, "fraction of operations that are inserts/deletes")
	flag.DurationVar(&cfg.duration, "duration", 2*time.Second, "how long each configuration runs")
	flag.IntVar(&cfg.initialSize, "initial-size", 256, "number of keys to pre-populate the set with")
	flag.IntVar(&cfg.keyRange, "range", 512, "keys are drawn uniformly from [0, range)")
	flag.Parse()

	if cfg.impl != "rlu" && cfg.impl != "lockcoupling" {
		fmt.Fprintf(os.Stderr, "rlubench: unknown --impl %q (want rlu or lockcoupling)\n", cfg.impl)
		os.Exit(2)
	}

	fmt.Println("impl,write_ratio,n_threads,throughput_ops_per_sec")
	result, err := run(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rlubench: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%s,%.3f,%d,%.1f\n", cfg.impl, cfg.writeRatio, cfg.threads, result.throughput())
}

type benchResult struct {
	ops      int64
	duration time.Duration
}

func (r benchResult) throughput() float64 {
	if r.duration <= 0 {
		return 0
	}
	return float64(r.ops) / r.duration.Seconds()
}

// run executes one configuration: spawn N goroutines against a shared
// wall-clock deadline, each choosing reads vs. writes at random per
// iteration, then fold their per-worker op counts together.
func run(cfg config) (benchResult, error) {
	switch cfg.impl {
	case "rlu":
		return runRLU(cfg)
	case "lockcoupling":
		return runLockCoupling(cfg)
	default:
		return benchResult{}, fmt.Errorf("unknown impl %q", cfg.impl)
	}
}

func runRLU(cfg config) (benchResult, error) {
	set := rluset.New()
	seedTid := set.ThreadInit()
	seedRandomContents(cfg, func(key int) { set.Insert(seedTid, key) })

	var g errgroup.Group
	counts := make([]int64, cfg.threads)
	deadline := time.Now().Add(cfg.duration)

	for w := 0; w < cfg.threads; w++ {
		w := w
		g.Go(func() error {
			tid := set.ThreadInit()
			rng := rand.New(rand.NewSource(int64(w)))
			var ops int64
			for time.Now().Before(deadline) {
				key := rng.Intn(cfg.keyRange)
				if rng.Float64() < cfg.writeRatio {
					if rng.Float64() < 0.5 {
						set.Insert(tid, key)
					} else {
						set.Delete(tid, key)
					}
				} else {
					set.Contains(tid, key)
				}
				ops++
			}
			counts[w] = ops
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return benchResult{}, err
	}
	return benchResult{ops: sum(counts), duration: cfg.duration}, nil
}

func runLockCoupling(cfg config) (benchResult, error) {
	set := lockset.New()
	seedRandomContents(cfg, func(key int) { set.Insert(key) })

	var g errgroup.Group
	counts := make([]int64, cfg.threads)
	deadline := time.Now().Add(cfg.duration)

	for w := 0; w < cfg.threads; w++ {
		w := w
		g.Go(func() error {
			rng := rand.New(rand.NewSource(int64(w)))
			var ops int64
			for time.Now().Before(deadline) {
				key := rng.Intn(cfg.keyRange)
				if rng.Float64() < cfg.writeRatio {
					if rng.Float64() < 0.5 {
						set.Insert(key)
					} else {
						set.Delete(key)
					}
				} else {
					set.Contains(key)
				}
				ops++
			}
			counts[w] = ops
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return benchResult{}, err
	}
	return benchResult{ops: sum(counts), duration: cfg.duration}, nil
}

func seedRandomContents(cfg config, insert func(key int)) {
	rng := rand.New(rand.NewSource(0))
	seen := make(map[int]bool, cfg.initialSize)
	for len(seen) < cfg.initialSize && len(seen) < cfg.keyRange {
		key := rng.Intn(cfg.keyRange)
		if seen[key] {
			continue
		}
		seen[key] = true
		insert(key)
	}
}

func sum(xs []int64) int64 {
	var total int64
	for _, x := range xs {
		total += x
	}
	return total
}
