package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/evidentia/internal/model"
)

// WriteJSON writes a result to path, creating parent directories
func WriteJSON(res *model.Result, path string, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(res, "", "  ")
	} else {
		data, err = json.Marshal(res)
	}
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteSummary prints a one-screen summary of a result
func WriteSummary(w io.Writer, res *model.Result, verbose bool) {
	v := res.Verdict
	fmt.Fprintf(w, "Thesis:  %s\n", res.Thesis)
	fmt.Fprintf(w, "Verdict: %s (%.0f%% true, %.0f%% confidence)\n", v.Band, v.TruthPercentage, v.Confidence)
	if v.Summary != "" {
		fmt.Fprintf(w, "         %s\n", v.Summary)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Claims:")
	for _, cv := range res.ClaimVerdicts {
		marks := make([]string, 0, 3)
		if cv.DependencyFailed {
			marks = append(marks, "dependency failed")
		}
		if cv.Tier == model.TierInsufficient {
			marks = append(marks, "manual review")
		}
		if cv.Defaulted {
			marks = append(marks, "defaulted")
		}
		suffix := ""
		if len(marks) > 0 {
			suffix = " [" + strings.Join(marks, ", ") + "]"
		}
		fmt.Fprintf(w, "  %-4s %-13s %3.0f%%  %s%s\n", cv.ClaimID, cv.Band, cv.TruthPercentage, truncateLine(cv.ClaimText, 70), suffix)
	}

	if len(res.ScopeVerdicts) > 1 || verbose {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Scopes:")
		for _, sv := range res.ScopeVerdicts {
			fmt.Fprintf(w, "  %-13s %3.0f%%  %s (%d claims)\n", sv.Band, sv.TruthPercentage, sv.Name, sv.ClaimCount)
		}
	}

	s := res.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Evidence: %d facts from %d sources (%d failed), %d searches in %d iterations\n",
		s.Facts, s.SourcesFetched, s.SourcesFailed, s.Searches, s.Iterations)
	fmt.Fprintf(w, "Gates:    gate-1 %d passed, %d failed, %d central kept; gate-4 %d high, %d medium, %d low, %d insufficient\n",
		s.Gate1.Passed, s.Gate1.Failed, s.Gate1.CentralKept, s.Gate4.High, s.Gate4.Medium, s.Gate4.Low, s.Gate4.Insufficient)
	fmt.Fprintf(w, "Run:      %s in %s, %d inference calls\n", res.RunID, res.Duration, s.InferenceCalls)

	if verbose && len(s.Repairs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Repairs:")
		for _, r := range s.Repairs {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
}

func truncateLine(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
