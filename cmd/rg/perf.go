package rg

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ValentinKolb/rgKV/cmd/util"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfCmd = &cobra.Command{
		Use:   "perf",
		Short: "Measures the latency of rgkeys and rgvalues against the server",
		Long:  "Runs rgkeys and rgvalues repeatedly from several goroutines and prints latency percentiles. Seed the shard first (rg seed) to get meaningful numbers.",
		Args:  cobra.NoArgs,
		RunE:  runPerf,
	}

	perfPercentiles = []float64{0.5, 0.95, 0.99}
)

func init() {
	key := "iterations"
	perfCmd.Flags().Int(key, 1000, util.WrapString("How often each command is run"))
	key = "threads"
	perfCmd.Flags().Int(key, 10, util.WrapString("Number of goroutines sending commands"))
	key = "pattern"
	perfCmd.Flags().String(key, "^2015:", util.WrapString("Pattern used for both commands"))
	key = "mask"
	perfCmd.Flags().String(key, "*", util.WrapString("Glob mask used for rgvalues"))
	key = "csv"
	perfCmd.Flags().String(key, "", util.WrapString("Optional path to save the results as CSV"))
}

// measure runs fn iterations times from threads goroutines and records each call in r
func measure(r metrics.Registry, name string, iterations, threads int, fn func() error) {
	timer := metrics.GetOrRegisterTimer(name, r)
	errs := metrics.GetOrRegisterCounter(name+".errors", r)

	jobs := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < max(threads, 1); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				start := time.Now()
				if err := fn(); err != nil {
					errs.Inc(1)
					continue
				}
				timer.UpdateSince(start)
			}
		}()
	}
	for i := 0; i < iterations; i++ {
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()
}

func runPerf(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	iterations := viper.GetInt("iterations")
	threads := viper.GetInt("threads")
	pattern := viper.GetString("pattern")
	mask := viper.GetString("mask")

	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d, Iterations: %d\n\n", threads, iterations)

	r := metrics.NewRegistry()
	measure(r, "rgkeys", iterations, threads, func() error {
		_, err := run("rgkeys", pattern)
		return err
	})
	measure(r, "rgvalues", iterations, threads, func() error {
		_, err := run("rgvalues", mask, pattern)
		return err
	})

	rows := resultRows(r)
	for _, row := range rows {
		fmt.Printf("%-10s count=%-8s errors=%-6s mean=%-12s p50=%-12s p95=%-12s p99=%s\n",
			row[0], row[1], row[2], row[3], row[4], row[5], row[6])
	}

	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, rows); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
	}
	return nil
}

var csvHeader = []string{"command", "count", "errors", "mean", "p50", "p95", "p99"}

// resultRows converts the timers of r into one row per command, sorted by name
func resultRows(r metrics.Registry) [][]string {
	var rows [][]string
	r.Each(func(name string, i interface{}) {
		timer, ok := i.(metrics.Timer)
		if !ok {
			return
		}
		snap := timer.Snapshot()
		var errCount int64
		if c, ok := r.Get(name + ".errors").(metrics.Counter); ok {
			errCount = c.Count()
		}
		ps := snap.Percentiles(perfPercentiles)
		rows = append(rows, []string{
			name,
			strconv.FormatInt(snap.Count(), 10),
			strconv.FormatInt(errCount, 10),
			time.Duration(snap.Mean()).String(),
			time.Duration(ps[0]).String(),
			time.Duration(ps[1]).String(),
			time.Duration(ps[2]).String(),
		})
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return rows
}

// writeResultsToCSV writes the result rows with a header line to csvPath
func writeResultsToCSV(csvPath string, rows [][]string) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Sync()
}
