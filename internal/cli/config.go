package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/evidentia/internal/model"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Evidentia configuration",
	Long: `Manage Evidentia configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (EVIDENTIA_*)
3. Config file (~/.evidentia/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Display the configuration after defaults, config file, environment variables and flags are merged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println("  Current Configuration")
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()

		if err := writeConfig(os.Stdout, redact(cfg)); err != nil {
			return err
		}

		fmt.Println()
		fmt.Println("═══════════════════════════════════════════════════════════")
		fmt.Println()
		fmt.Println("Configuration hierarchy (highest to lowest priority):")
		fmt.Println("  1. CLI flags")
		fmt.Println("  2. Environment variables (EVIDENTIA_*, OPENAI_API_KEY, ANTHROPIC_API_KEY,")
		fmt.Println("     OLLAMA_BASE_URL, SEARXNG_URL, GOOGLE_CSE_KEY, GOOGLE_CSE_CX)")
		fmt.Println("  3. Config file (~/.evidentia/config.yaml)")
		fmt.Println("  4. Defaults")
		fmt.Println()

		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.evidentia/config.yaml with all available options.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		dir, err := configDir()
		if err != nil {
			return err
		}
		configPath := filepath.Join(dir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'evidentia config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		if err := writeDefaultConfig(f); err != nil {
			return err
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n")
		fmt.Printf("  evidentia config show\n")
		fmt.Printf("\nTo customize, edit the file with your preferred editor:\n")
		fmt.Printf("  $EDITOR %s\n", configPath)
		fmt.Printf("\n")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

func writeConfig(w io.Writer, cfg model.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	return enc.Close()
}

// writeDefaultConfig writes the commented default configuration file
func writeDefaultConfig(w io.Writer) error {
	var err error
	printf := func(format string, a ...any) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, a...)
	}

	printf("# Evidentia Configuration File\n")
	printf("#\n")
	printf("# Configuration hierarchy (highest to lowest priority):\n")
	printf("#   1. CLI flags\n")
	printf("#   2. Environment variables (EVIDENTIA_*, e.g. EVIDENTIA_RESEARCH_MAX_ITERATIONS)\n")
	printf("#   3. This config file\n")
	printf("#   4. Built-in defaults\n")
	printf("#\n")
	printf("# Inference providers are tried in the order listed under llm.providers:\n")
	printf("#   llm:\n")
	printf("#     providers:\n")
	printf("#       - name: openai\n")
	printf("#         model: gpt-4o-mini\n")
	printf("#       - name: ollama\n")
	printf("#         model: llama3.1\n")
	printf("#         base_url: http://localhost:11434\n")
	printf("#\n")
	printf("# Search providers likewise under search.providers (searxng, google).\n\n")
	if err != nil {
		return err
	}

	if err := writeConfig(w, model.DefaultConfig()); err != nil {
		return err
	}

	printf("\n# API keys (recommended to use environment variables instead):\n")
	printf("#   export OPENAI_API_KEY=sk-...\n")
	printf("#   export ANTHROPIC_API_KEY=sk-ant-...\n")
	printf("#   export OLLAMA_BASE_URL=http://localhost:11434\n")
	printf("#   export SEARXNG_URL=http://localhost:8888\n")
	printf("#   export GOOGLE_CSE_KEY=... GOOGLE_CSE_CX=...\n")
	return err
}

// redact hides credentials before the configuration is printed
func redact(cfg model.Config) model.Config {
	llmProviders := append([]model.ProviderConfig(nil), cfg.LLM.Providers...)
	for i := range llmProviders {
		if llmProviders[i].APIKey != "" {
			llmProviders[i].APIKey = "***"
		}
	}
	cfg.LLM.Providers = llmProviders

	searchProviders := append([]model.SearchProviderConfig(nil), cfg.Search.Providers...)
	for i := range searchProviders {
		if searchProviders[i].APIKey != "" {
			searchProviders[i].APIKey = "***"
		}
	}
	cfg.Search.Providers = searchProviders
	return cfg
}
