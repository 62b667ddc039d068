package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	benchResultsDir  = "benchmarks/results"
	benchProfilesDir = "benchmarks/profiles"
)

type BenchCommand struct{}

func (c *BenchCommand) Name() string {
	return "bench"
}

func (c *BenchCommand) Description() string {
	return "Run and manage benchmarks"
}

func (c *BenchCommand) Run(args []string) error {
	if len(args) == 0 {
		return c.runAll()
	}

	switch args[0] {
	case "run":
		return c.runAll()
	case "hot":
		return c.runHot()
	case "save":
		return c.saveAs(time.Now().Format("20060102-150405") + ".txt")
	case "baseline":
		return c.saveAs("baseline.txt")
	case "compare":
		return c.compare()
	case "profile":
		return c.profile()
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

func (c *BenchCommand) runAll() error {
	PrintHeader("Running all benchmarks...")
	//nolint:forbidigo
	return runCommandVerbose("go", "test", "-bench=.", "-benchmem", "-benchtime=2s", "./...")
}

// runHot runs only the benchmarks on the click/purchase/level-up path, the
// ones that move when formula or progression code changes.
func (c *BenchCommand) runHot() error {
	PrintHeader("Running hot path benchmarks...")

	fmt.Println("  → Service: Click")
	c.runBenchOrWarn("./benchmarks/progression", "BenchmarkClick")

	fmt.Println("  → Service: Purchase")
	c.runBenchOrWarn("./benchmarks/progression", "BenchmarkPurchase")

	fmt.Println("  → Service: AwardExperience level sweep")
	c.runBenchOrWarn("./benchmarks/progression", "BenchmarkAwardExperience_LevelSweep")

	fmt.Println("  → Formula: price, level and effect math")
	//nolint:forbidigo
	return runCommandVerbose("go", "test", "-bench=.", "-benchmem", "-benchtime=2s", "./internal/formula")
}

func (c *BenchCommand) runBenchOrWarn(dir, pattern string) {
	if dir == "" || pattern == "" {
		fmt.Println("    (invalid benchmark parameters)")
		return
	}
	if strings.ContainsAny(dir, ";|&$`") || strings.ContainsAny(pattern, ";|&$`") {
		fmt.Println("    (invalid characters in benchmark parameters)")
		return
	}

	//nolint:gosec // G204: pattern and dir are validated above
	cmd := exec.Command("go", "test", "-bench="+pattern, "-benchmem", "-benchtime=2s", dir)
	cmd.Stdout = os.Stdout
	// Stderr is discarded so partial benchmark suites stay quiet
	if err := cmd.Run(); err != nil {
		fmt.Println("    (benchmark not yet implemented)")
	}
}

// benchTo runs the full suite with output going to w. Used for both live
// display and result files.
func (c *BenchCommand) benchTo(w io.Writer) error {
	cmd := exec.Command("go", "test", "-bench=.", "-benchmem", "-benchtime=2s", "./...")
	cmd.Stdout = w
	cmd.Stderr = w
	return cmd.Run()
}

func (c *BenchCommand) saveAs(filename string) error {
	PrintHeader("Running benchmarks and saving results...")
	if err := os.MkdirAll(benchResultsDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	path := benchResultsDir + "/" + filename
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := c.benchTo(io.MultiWriter(os.Stdout, f)); err != nil {
		return fmt.Errorf("benchmark execution failed: %w", err)
	}

	PrintSuccess("Results saved to %s", path)
	return nil
}

func (c *BenchCommand) compare() error {
	baselinePath := benchResultsDir + "/baseline.txt"
	if _, err := os.Stat(baselinePath); os.IsNotExist(err) {
		return fmt.Errorf("no baseline found. Run 'devtool bench baseline' first")
	}

	PrintHeader("Running benchmarks and comparing to baseline...")
	if err := os.MkdirAll(benchResultsDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	currentPath := benchResultsDir + "/current.txt"
	f, err := os.Create(currentPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	// Compare whatever completed even if some packages failed to bench.
	_ = c.benchTo(f)
	f.Close()

	if _, err := exec.LookPath("benchstat"); err == nil {
		stat := exec.Command("benchstat", baselinePath, currentPath)
		stat.Stdout = os.Stdout
		stat.Stderr = os.Stderr
		return stat.Run()
	}

	PrintWarning("benchstat not installed. Install with: go install golang.org/x/perf/cmd/benchstat@latest")
	fmt.Println("")
	fmt.Println("Showing raw comparison:")
	fmt.Println("======================")
	fmt.Println("BASELINE:")
	c.printTopBenchmarks(baselinePath, 5)
	fmt.Println("")
	fmt.Println("CURRENT:")
	c.printTopBenchmarks(currentPath, 5)

	return nil
}

func (c *BenchCommand) printTopBenchmarks(path string, n int) {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading %s: %v\n", path, err)
		return
	}

	shown := 0
	for _, line := range strings.Split(string(content), "\n") {
		if !strings.HasPrefix(line, "Benchmark") {
			continue
		}
		fmt.Println(line)
		if shown++; shown >= n {
			return
		}
	}
}

// profile captures CPU and memory profiles from the service-level benchmarks,
// falling back to the formula package when the service suite is absent.
func (c *BenchCommand) profile() error {
	PrintHeader("Profiling hot paths...")
	if err := os.MkdirAll(benchProfilesDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	captures := []struct {
		label    string
		args     []string
		fallback []string
	}{
		{
			label:    "CPU profile",
			args:     []string{"test", "-bench=BenchmarkClick", "-cpuprofile=" + benchProfilesDir + "/cpu.prof", "./benchmarks/progression"},
			fallback: []string{"test", "-bench=BenchmarkPrice", "-cpuprofile=" + benchProfilesDir + "/cpu.prof", "./internal/formula"},
		},
		{
			label:    "Memory profile",
			args:     []string{"test", "-bench=BenchmarkRecalculate_ManyUpgrades", "-memprofile=" + benchProfilesDir + "/mem.prof", "-benchmem", "./benchmarks/progression"},
			fallback: []string{"test", "-bench=BenchmarkAggregateEffects", "-memprofile=" + benchProfilesDir + "/mem.prof", "-benchmem", "./internal/formula"},
		},
	}

	for _, capture := range captures {
		fmt.Printf("  → %s...\n", capture.label)
		if err := exec.Command("go", capture.args...).Run(); err != nil {
			_ = exec.Command("go", capture.fallback...).Run()
		}
	}

	PrintSuccess("Profiles saved to %s/", benchProfilesDir)
	fmt.Println("")
	fmt.Println("View CPU profile with:")
	fmt.Println("  go tool pprof -http=:8080 " + benchProfilesDir + "/cpu.prof")
	fmt.Println("View memory profile with:")
	fmt.Println("  go tool pprof -http=:8080 " + benchProfilesDir + "/mem.prof")

	return nil
}
