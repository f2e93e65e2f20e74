package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/evidentia/internal/model"
	"github.com/ppiankov/evidentia/internal/observability"
	"github.com/ppiankov/evidentia/internal/pipeline"
	"github.com/ppiankov/evidentia/internal/worker"
)

var (
	inputURL     string
	inputText    string
	inputFile    string
	outJSON      string
	runTimeout   time.Duration
	metricsAddr  string
	noCache      bool
	noRobots     bool
	httpProxy    string
	httpsProxy   string
	maxIteration int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text | url]",
	Short: "Fact-check a text or a web page",
	Long: `Analyze researches evidence for a text or a web page and judges it:
- Break the input into a thesis and checkable claims
- Search and read sources until the evidence is sufficient
- Judge every claim against the collected facts
- Report calibrated truth bands with confidence and quality tiers

Example:
  evidentia analyze "The Eiffel Tower was completed in 1889"
  evidentia analyze --url https://example.com/article --json result.json
  evidentia analyze --file statement.txt --metrics-addr :9090`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVar(&inputURL, "url", "", "analyze the page at this URL")
	analyzeCmd.Flags().StringVar(&inputText, "text", "", "analyze this text")
	analyzeCmd.Flags().StringVar(&inputFile, "file", "", "analyze the text in this file (- for stdin)")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the full result as JSON to this path")

	addRunFlags(analyzeCmd)
	analyzeCmd.Flags().DurationVar(&runTimeout, "timeout", 15*time.Minute, "overall analysis timeout")
}

// addRunFlags registers the flags shared by analyze and batch
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics and /healthz on this address while running (e.g. :9090)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the search and fetch cache")
	cmd.Flags().BoolVar(&noRobots, "no-robots", false, "do not consult robots.txt")
	cmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	cmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	cmd.Flags().IntVar(&maxIteration, "max-iterations", 0, "research iteration cap (0 keeps the configured value)")
}

// runConfig loads the configuration and applies the shared run flags
func runConfig() (model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noRobots {
		cfg.HTTP.RespectRobots = false
	}
	if httpProxy != "" {
		cfg.HTTP.HTTPProxy = httpProxy
	}
	if httpsProxy != "" {
		cfg.HTTP.HTTPSProxy = httpsProxy
	}
	if maxIteration > 0 {
		cfg.Research.MaxIterations = maxIteration
	}
	cfg.Output.Verbose = viper.GetBool("output.verbose")
	return cfg, nil
}

// startMetrics serves metrics until ctx ends when an address is configured
func startMetrics(ctx context.Context, logger *zerolog.Logger) {
	if metricsAddr == "" {
		return
	}
	srv := observability.NewServer(metricsAddr, logger)
	go func() {
		if err := srv.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	in, err := resolveInput(args)
	if err != nil {
		return err
	}

	cfg, err := runConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	startMetrics(ctx, &logger)

	analyzer, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("configure analyzer: %w", err)
	}

	progress := func(msg string, pct int) {
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", pct, msg)
		}
	}

	res, err := analyzer.Run(ctx, in, progress)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if outJSON != "" {
		if err := pipeline.WriteJSON(res, outJSON, cfg.Output.Pretty); err != nil {
			return err
		}
		if cfg.Output.Verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}

	pipeline.WriteSummary(os.Stdout, res, cfg.Output.Verbose)
	return nil
}

// resolveInput picks the input from flags or the positional argument. A
// positional argument that looks like a URL is fetched; anything else is text.
func resolveInput(args []string) (model.Input, error) {
	var in model.Input
	set := 0

	if inputURL != "" {
		in.URL = inputURL
		set++
	}
	if inputText != "" {
		in.Text = inputText
		set++
	}
	if inputFile != "" {
		text, err := readInputFile(inputFile)
		if err != nil {
			return in, err
		}
		in.Text = text
		set++
	}
	if len(args) == 1 {
		if worker.IsURL(args[0]) {
			in.URL = args[0]
		} else {
			in.Text = args[0]
		}
		set++
	}

	switch {
	case set == 0:
		return in, errors.New("nothing to analyze: pass text, --url, --text or --file")
	case set > 1:
		return in, errors.New("pass exactly one input: text, --url, --text or --file")
	}
	if strings.TrimSpace(in.Text) == "" && in.URL == "" {
		return in, pipeline.ErrEmptyInput
	}
	return in, nil
}

func readInputFile(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
