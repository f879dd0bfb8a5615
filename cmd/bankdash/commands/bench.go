package commands

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/punchamoorthee/bankdash/cmd/bankdash/output"
	"github.com/punchamoorthee/bankdash/internal/store"
	"github.com/punchamoorthee/bankdash/internal/views"
)

var (
	// Bench flags
	benchWorkers  int
	benchDuration time.Duration
	benchWorkload string
)

// benchCmd measures how fast the dashboard pages load
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Load dashboard pages concurrently and report throughput",
	Long: `Load read-only dashboard pages from concurrent workers for a fixed
duration and report throughput and failures. Nothing is written to the bank.

Workloads:
  dashboard  Only the dashboard page
  mixed      Dashboard, accounts and transactions pages in rotation

Examples:
  bankdash bench --demo --duration 5s
  bankdash bench --workers 4 --workload mixed --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if benchWorkers < 1 {
			return fmt.Errorf("workers must be at least 1")
		}
		if benchWorkload != "dashboard" && benchWorkload != "mixed" {
			return fmt.Errorf("unknown workload %q", benchWorkload)
		}
		s, _, err := open()
		if err != nil {
			return err
		}
		res := runBench(cmd.Context(), s, benchWorkers, benchDuration, benchWorkload)
		return printBench(res)
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 10, "Number of concurrent workers")
	benchCmd.Flags().DurationVar(&benchDuration, "duration", 10*time.Second, "Test duration")
	benchCmd.Flags().StringVar(&benchWorkload, "workload", "dashboard", "Workload: dashboard | mixed")
}

type benchResult struct {
	Workload      string  `json:"workload"`
	Workers       int     `json:"workers"`
	DurationSec   float64 `json:"durationSec"`
	Loads         uint64  `json:"loads"`
	Failures      uint64  `json:"failures"`
	ThroughputPS  float64 `json:"throughputPerSec"`
	AvgLatencyMS  float64 `json:"avgLatencyMs"`
	MaxLatencyMS  float64 `json:"maxLatencyMs"`
	FailureRatePc float64 `json:"failureRatePct"`
}

type loader interface {
	Load(ctx context.Context) error
}

func pageFor(s *store.Store, workload string, i int) loader {
	if workload == "mixed" {
		switch i % 3 {
		case 1:
			return views.NewAccountsPage(s)
		case 2:
			return views.NewTransactionsPage(s)
		}
	}
	return views.NewDashboard(s)
}

func runBench(ctx context.Context, s *store.Store, workers int, d time.Duration, workload string) benchResult {
	var loads, failures, totalNanos, maxNanos atomic.Uint64

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			for i := w; ctx.Err() == nil; i++ {
				began := time.Now()
				err := pageFor(s, workload, i).Load(ctx)
				if ctx.Err() != nil {
					return nil
				}
				elapsed := uint64(time.Since(began))
				loads.Add(1)
				totalNanos.Add(elapsed)
				for {
					cur := maxNanos.Load()
					if elapsed <= cur || maxNanos.CompareAndSwap(cur, elapsed) {
						break
					}
				}
				if err != nil {
					failures.Add(1)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	res := benchResult{
		Workload:     workload,
		Workers:      workers,
		DurationSec:  elapsed.Seconds(),
		Loads:        loads.Load(),
		Failures:     failures.Load(),
		MaxLatencyMS: float64(maxNanos.Load()) / float64(time.Millisecond),
	}
	if res.Loads > 0 {
		res.ThroughputPS = float64(res.Loads) / elapsed.Seconds()
		res.AvgLatencyMS = float64(totalNanos.Load()) / float64(res.Loads) / float64(time.Millisecond)
		res.FailureRatePc = float64(res.Failures) / float64(res.Loads) * 100
	}
	return res
}

func printBench(res benchResult) error {
	if jsonOutput {
		return output.JSON(res)
	}
	output.Section("Benchmark: " + res.Workload)
	output.Table([]string{"METRIC", "VALUE"}, [][]string{
		{"Workers", fmt.Sprintf("%d", res.Workers)},
		{"Duration", fmt.Sprintf("%.1fs", res.DurationSec)},
		{"Page loads", fmt.Sprintf("%d", res.Loads)},
		{"Throughput", fmt.Sprintf("%.1f/s", res.ThroughputPS)},
		{"Avg latency", fmt.Sprintf("%.2fms", res.AvgLatencyMS)},
		{"Max latency", fmt.Sprintf("%.2fms", res.MaxLatencyMS)},
		{"Failures", fmt.Sprintf("%d (%.1f%%)", res.Failures, res.FailureRatePc)},
	})
	return nil
}
