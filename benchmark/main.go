// Package main provides a performance benchmarking tool for the TestPulse CLI.
// It generates results directories of increasing size, runs the pipeline several
// times per configuration, treating the first successful run as cold and averaging
// the rest as warm, and writes CSV output for performance analysis and documentation.
//
// Prerequisites:
// - testpulse binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the generated results directories are created
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark suite (cold run and average of warm runs per mode).
type BenchmarkResult struct {
	Subjects     int
	Mode         string
	ColdTime     string
	WarmTime     string
	HistorySize  int
	ArchiveCount int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir      string
	Timeout      time.Duration
	Runs         int
	SubjectSizes []int
	Modes        map[string][]string // mode name -> extra CLI args
	ModeOrder    []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir:      os.Args[1],
		Timeout:      2 * time.Minute,
		Runs:         5,
		SubjectSizes: []int{3, 30, 300},
		Modes: map[string][]string{
			"plain":    {"--no-archive"},
			"archive":  {},
			"tracking": {"--no-archive", "--tracking-backend", "sqlite"},
		},
		ModeOrder: []string{"plain", "archive", "tracking"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the testpulse binary exists and the work dir is usable
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("testpulse"); err != nil {
		return fmt.Errorf("testpulse binary not found in PATH")
	}
	return os.MkdirAll(config.WorkDir, 0o755)
}

// generateResults writes n synthetic result files into a fresh directory
func generateResults(config BenchmarkConfig, n int, mode string) (string, error) {
	dir := filepath.Join(config.WorkDir, fmt.Sprintf("results_%d_%s", n, mode))
	if err := os.RemoveAll(dir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	for i := range n {
		total := 5 + i%40
		passed := total - i%3
		text := fmt.Sprintf("Total Test Cases: %d\nTests Passed: %d\nTests Failed: %d\nCode Coverage: %d%%\nTest Quality Score: %d%%\n",
			total, passed, total-passed, 50+i%50, 60+i%40)
		name := filepath.Join(dir, fmt.Sprintf("PROGRAM%03d_results.txt", i))
		if err := os.WriteFile(name, []byte(text), 0o644); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// runBenchmarks executes every mode for every generated directory size
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %d modes, %v timeout, %d runs each\n",
		len(config.SubjectSizes), len(config.ModeOrder), config.Timeout, config.Runs)

	for _, n := range config.SubjectSizes {
		fmt.Printf("Benchmarking %d programs\n", n)
		for _, mode := range config.ModeOrder {
			results = append(results, runBenchmarkSuite(config, n, mode))
		}
	}

	return results
}

// runBenchmarkSuite runs one mode against a freshly generated directory
func runBenchmarkSuite(config BenchmarkConfig, n int, mode string) BenchmarkResult {
	result := BenchmarkResult{Subjects: n, Mode: mode, ColdTime: "FAILED", WarmTime: "FAILED"}

	dir, err := generateResults(config, n, mode)
	if err != nil {
		fmt.Printf("  %s: cannot generate results: %v\n", mode, err)
		return result
	}

	args := append([]string{dir}, config.Modes[mode]...)
	var env []string
	if mode == "tracking" {
		env = append(env, "TESTPULSE_TRACKING_DB_CONNECT="+filepath.Join(dir, "tracking.db"))
	}

	coldTime, warmTimes := runBenchmark(config, args, env)
	if coldTime > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", coldTime)
	}
	if len(warmTimes) > 0 {
		var sum float64
		for _, t := range warmTimes {
			sum += t
		}
		result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(warmTimes)))
	}

	if data, err := os.ReadFile(filepath.Join(dir, "metrics_history.json")); err == nil {
		result.HistorySize = strings.Count(string(data), `"timestamp"`)
	}
	if entries, err := os.ReadDir(filepath.Join(dir, "archive")); err == nil {
		result.ArchiveCount = len(entries)
	}

	fmt.Printf("  %-8s cold: %s, warm average: %s, history: %d, archives: %d\n",
		mode, result.ColdTime, result.WarmTime, result.HistorySize, result.ArchiveCount)
	return result
}

// runBenchmark executes the pipeline several times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args, env []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("testpulse", args...)
		cmd.Env = append(os.Environ(), env...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Analyzed") && strings.Contains(outputStr, "programs in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/testpulse_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"programs", "mode", "cold_time", "warm_avg", "history_size", "archives"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, r := range results {
		record := []string{
			fmt.Sprint(r.Subjects), r.Mode, r.ColdTime, r.WarmTime,
			fmt.Sprint(r.HistorySize), fmt.Sprint(r.ArchiveCount),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, mode := range config.ModeOrder {
		fmt.Printf("%s:\n", mode)
		for _, r := range results {
			if r.Mode == mode {
				fmt.Printf("  %4d programs: Cold: %s, Warm: %s\n", r.Subjects, r.ColdTime, r.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
