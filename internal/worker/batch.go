package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/evidentia/internal/model"
)

// Analyzer runs one complete analysis
type Analyzer interface {
	Analyze(ctx context.Context, in model.Input) (*model.Result, error)
}

// AnalysisJob analyzes one input
type AnalysisJob struct {
	Input    model.Input
	Analyzer Analyzer
	Timeout  time.Duration
}

// Execute executes the analysis job
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	result, err := j.Analyzer.Analyze(ctx, j.Input)
	if err != nil {
		return &AnalysisResult{Input: j.Input, Error: err}
	}
	return &AnalysisResult{Input: j.Input, Result: result}
}

// AnalysisResult represents the result of an analysis job
type AnalysisResult struct {
	Input  model.Input
	Result *model.Result
	Error  error
}

// GetError returns the error from the analysis
func (r *AnalysisResult) GetError() error {
	return r.Error
}

// Label names the input for logs and summaries
func (r *AnalysisResult) Label() string {
	if r.Input.URL != "" {
		return r.Input.URL
	}
	text := strings.TrimSpace(r.Input.Text)
	if runes := []rune(text); len(runes) > 60 {
		return string(runes[:60]) + "..."
	}
	return text
}

// BatchProcessor analyzes many inputs concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
	timeout     time.Duration
	logger      zerolog.Logger
}

// NewBatchProcessor creates a new batch processor. timeout bounds each
// analysis; zero means no per-input limit.
func NewBatchProcessor(analyzer Analyzer, concurrency int, timeout time.Duration, logger zerolog.Logger) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
		timeout:     timeout,
		logger:      logger,
	}
}

// ProcessInputs analyzes inputs concurrently and returns results in input order
func (b *BatchProcessor) ProcessInputs(ctx context.Context, inputs []model.Input) []*AnalysisResult {
	if len(inputs) == 0 {
		return []*AnalysisResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, in := range inputs {
		if !pool.Submit(&AnalysisJob{Input: in, Analyzer: b.analyzer, Timeout: b.timeout}) {
			break
		}
	}

	results := pool.Wait()

	out := make([]*AnalysisResult, 0, len(results))
	for _, r := range results {
		ar := r.(*AnalysisResult)
		if ar.Error != nil {
			b.logger.Warn().Err(ar.Error).Str("input", ar.Label()).Msg("analysis failed")
		}
		out = append(out, ar)
	}

	return out
}

// ReadInputsFromFile reads one input per line. Lines starting with http://
// or https:// are URLs; any other line is analyzed as text.
func ReadInputsFromFile(filePath string) ([]model.Input, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var inputs []model.Input
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if seen[line] {
			continue
		}
		seen[line] = true

		if IsURL(line) {
			inputs = append(inputs, model.Input{URL: line})
		} else {
			inputs = append(inputs, model.Input{Text: line})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return inputs, nil
}

// IsURL reports whether s looks like an http(s) URL rather than prose
func IsURL(s string) bool {
	lower := strings.ToLower(s)
	return (strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")) &&
		!strings.ContainsAny(s, " \t")
}
