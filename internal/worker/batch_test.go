package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ppiankov/evidentia/internal/model"
)

// mockAnalyzer implements Analyzer
type mockAnalyzer struct {
	shouldError bool
	calls       atomic.Int32
}

func (m *mockAnalyzer) Analyze(ctx context.Context, in model.Input) (*model.Result, error) {
	m.calls.Add(1)
	select {
	case <-time.After(10 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if m.shouldError {
		return nil, errors.New("analysis error")
	}
	return &model.Result{Input: in, Thesis: in.Text + in.URL}, nil
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inputs.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessInputs(t *testing.T) {
	analyzer := &mockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 2, 0, zerolog.Nop())

	inputs := []model.Input{
		{URL: "http://example.com"},
		{Text: "Coal is cheaper than solar"},
		{URL: "http://bing.com"},
	}

	results := processor.ProcessInputs(context.Background(), inputs)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Label(), res.Error)
			continue
		}
		if res.Input != inputs[i] {
			t.Errorf("result %d is for %+v, want %+v", i, res.Input, inputs[i])
		}
		if res.Result == nil {
			t.Error("expected result for successful analysis")
		}
	}
}

func TestBatchProcessor_ProcessInputs_Error(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{shouldError: true}, 2, 0, zerolog.Nop())

	results := processor.ProcessInputs(context.Background(), []model.Input{{URL: "http://example.com"}})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Error == nil {
		t.Error("expected error, got nil")
	}
	if results[0].Result != nil {
		t.Error("expected nil result on error")
	}
}

func TestBatchProcessor_Timeout(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 1, time.Millisecond, zerolog.Nop())

	results := processor.ProcessInputs(context.Background(), []model.Input{{Text: "slow"}})
	if len(results) != 1 || !errors.Is(results[0].Error, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %+v", results)
	}
}

func TestBatchProcessor_ProcessInputs_Empty(t *testing.T) {
	analyzer := &mockAnalyzer{}
	processor := NewBatchProcessor(analyzer, 2, 0, zerolog.Nop())

	results := processor.ProcessInputs(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
	if analyzer.calls.Load() != 0 {
		t.Errorf("analyzer called %d times", analyzer.calls.Load())
	}
}

func TestReadInputsFromFile(t *testing.T) {
	path := writeTemp(t, `http://example.com
# comment
The minimum wage rose in 2023

https://google.com
http://example.com
   `)

	inputs, err := ReadInputsFromFile(path)
	if err != nil {
		t.Fatalf("ReadInputsFromFile failed: %v", err)
	}

	expected := []model.Input{
		{URL: "http://example.com"},
		{Text: "The minimum wage rose in 2023"},
		{URL: "https://google.com"},
	}
	if len(inputs) != len(expected) {
		t.Fatalf("expected %d inputs, got %d", len(expected), len(inputs))
	}
	for i, in := range inputs {
		if in != expected[i] {
			t.Errorf("input %d = %+v, want %+v", i, in, expected[i])
		}
	}
}

func TestReadInputsFromFile_NonExistent(t *testing.T) {
	_, err := ReadInputsFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestAnalysisResult_GetError(t *testing.T) {
	r1 := &AnalysisResult{Input: model.Input{URL: "http://example.com"}}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("analysis failed")
	r2 := &AnalysisResult{Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestIsURL(t *testing.T) {
	tests := map[string]bool{
		"https://example.com/a":         true,
		"HTTP://EXAMPLE.COM":            true,
		"http://example.com has spaces": false,
		"example.com":                   false,
		"Solar is cheaper":              false,
	}
	for in, want := range tests {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}
