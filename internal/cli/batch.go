package cli

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/evidentia/internal/pipeline"
	"github.com/ppiankov/evidentia/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	itemTimeout  time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many inputs from a file in parallel",
	Long: `Batch analyzes many inputs concurrently:
- Read inputs from a file, one per line (URLs are fetched, other lines are text)
- Analyze inputs in parallel with a configurable worker count
- Write one JSON result per input

Example:
  evidentia batch claims.txt
  evidentia batch claims.txt --concurrency 4 --output-dir ./results
  evidentia batch claims.txt --timeout 2h --item-timeout 20m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent analyses (0 uses concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./evidentia-results", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 2*time.Hour, "total timeout for batch processing")
	batchCmd.Flags().DurationVar(&itemTimeout, "item-timeout", 15*time.Minute, "timeout for each analysis")

	addRunFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := runConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, batchTimeout)
	defer cancel()

	startMetrics(ctx, &logger)

	inputs, err := worker.ReadInputsFromFile(file)
	if err != nil {
		return fmt.Errorf("read inputs: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Evidentia Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s (%d inputs)\n", file, len(inputs))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	analyzer, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("configure analyzer: %w", err)
	}

	processor := worker.NewBatchProcessor(analyzer, cfg.Concurrency.Workers, itemTimeout, logger)
	results := processor.ProcessInputs(ctx, inputs)

	successCount := 0
	failureCount := 0

	for i, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Label(), result.Error)
			continue
		}

		path := filepath.Join(outputDir, resultFilename(i+1, result.Label()))
		if err := pipeline.WriteJSON(result.Result, path, cfg.Output.Pretty); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Label(), err)
			continue
		}

		successCount++
		v := result.Result.Verdict
		fmt.Fprintf(os.Stderr, "✓ %s: %s (%.0f%%)\n", result.Label(), v.Band, v.TruthPercentage)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d inputs\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if failureCount > 0 && successCount == 0 {
		return fmt.Errorf("all %d analyses failed", failureCount)
	}
	return nil
}

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// resultFilename builds a stable, filesystem-safe name from an input label
func resultFilename(n int, label string) string {
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(label), "-"), "-")
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	sum := sha1.Sum([]byte(label))
	return fmt.Sprintf("%03d-%s-%s.json", n, slug, hex.EncodeToString(sum[:4]))
}
