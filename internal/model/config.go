package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Search      SearchConfig      `yaml:"search" mapstructure:"search"`
	Research    ResearchConfig    `yaml:"research" mapstructure:"research"`
	Scope       ScopeConfig       `yaml:"scope" mapstructure:"scope"`
	Gates       GateConfig        `yaml:"gates" mapstructure:"gates"`
	Calibration CalibrationConfig `yaml:"calibration" mapstructure:"calibration"`
	Reliability ReliabilityConfig `yaml:"reliability" mapstructure:"reliability"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls evidence fetching
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"` // Per fetch
	UserAgent         string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRedirects      int           `yaml:"max_redirects" mapstructure:"max_redirects"`
	MaxRetries        int           `yaml:"max_retries" mapstructure:"max_retries"`
	RespectRobots     bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Per domain
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	HTTPProxy         string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy        string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy           string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// LLMConfig lists judgment providers in priority order
type LLMConfig struct {
	Providers   []ProviderConfig `yaml:"providers" mapstructure:"providers"`
	Timeout     time.Duration    `yaml:"timeout" mapstructure:"timeout"` // Per inference call
	MaxTokens   int              `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float32          `yaml:"temperature" mapstructure:"temperature"`
}

// ProviderConfig configures one judgment provider
type ProviderConfig struct {
	Name    string `yaml:"name" mapstructure:"name"` // openai, anthropic, ollama
	Model   string `yaml:"model" mapstructure:"model"`
	APIKey  string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL string `yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// SearchConfig lists search providers in priority order
type SearchConfig struct {
	Providers        []SearchProviderConfig `yaml:"providers" mapstructure:"providers"`
	MaxResults       int                    `yaml:"max_results" mapstructure:"max_results"`
	DateRestrict     string                 `yaml:"date_restrict,omitempty" mapstructure:"date_restrict"` // e.g. "y5"
	DomainWhitelist  []string               `yaml:"domain_whitelist,omitempty" mapstructure:"domain_whitelist"`
	DomainDenylist   []string               `yaml:"domain_denylist,omitempty" mapstructure:"domain_denylist"`
	Timeout          time.Duration          `yaml:"timeout" mapstructure:"timeout"`
	FailureThreshold int                    `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	Cooldown         time.Duration          `yaml:"cooldown" mapstructure:"cooldown"`
}

// SearchProviderConfig configures one search backend
type SearchProviderConfig struct {
	Name    string   `yaml:"name" mapstructure:"name"` // searxng, google
	BaseURL string   `yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey  string   `yaml:"api_key,omitempty" mapstructure:"api_key"`
	CX      string   `yaml:"cx,omitempty" mapstructure:"cx"` // Google programmable search engine id
	Engines []string `yaml:"engines,omitempty" mapstructure:"engines"`
}

// ResearchConfig bounds the research loop
type ResearchConfig struct {
	MaxIterations          int     `yaml:"max_iterations" mapstructure:"max_iterations"`
	MaxSourcesPerIteration int     `yaml:"max_sources_per_iteration" mapstructure:"max_sources_per_iteration"`
	MinFacts               int     `yaml:"min_facts" mapstructure:"min_facts"`
	MinCategories          int     `yaml:"min_categories" mapstructure:"min_categories"`
	MaxGapSearches         int     `yaml:"max_gap_searches" mapstructure:"max_gap_searches"`
	MaxFactsPerSource      int     `yaml:"max_facts_per_source" mapstructure:"max_facts_per_source"`
	MaxSourceChars         int     `yaml:"max_source_chars" mapstructure:"max_source_chars"` // Text passed to extraction
	FactSimilarity         float64 `yaml:"fact_similarity" mapstructure:"fact_similarity"`
	Concurrency            int     `yaml:"concurrency" mapstructure:"concurrency"` // Fan-out limit per phase
}

// ScopeConfig controls scope canonicalization and refinement
type ScopeConfig struct {
	DedupThreshold        float64 `yaml:"dedup_threshold" mapstructure:"dedup_threshold"`
	MinFactsForRefinement int     `yaml:"min_facts_for_refinement" mapstructure:"min_facts_for_refinement"`
}

// GateConfig holds the quality gate thresholds
type GateConfig struct {
	MinSpecificity        float64 `yaml:"min_specificity" mapstructure:"min_specificity"`
	MinIndependentSources int     `yaml:"min_independent_sources" mapstructure:"min_independent_sources"`
	MinReliability        float64 `yaml:"min_reliability" mapstructure:"min_reliability"`
	MinAgreement          float64 `yaml:"min_agreement" mapstructure:"min_agreement"`
}

// CalibrationConfig controls judgment calibration and aggregation
type CalibrationConfig struct {
	// Claims matching any pattern are stepped toward refuted when counter-evidence exists
	EscalationPatterns  []string `yaml:"escalation_patterns,omitempty" mapstructure:"escalation_patterns"`
	DependencyThreshold float64  `yaml:"dependency_threshold" mapstructure:"dependency_threshold"`
	ClusterThreshold    float64  `yaml:"cluster_threshold" mapstructure:"cluster_threshold"`
}

// ReliabilityConfig configures source reliability scoring
type ReliabilityConfig struct {
	BundlePath       string   `yaml:"bundle_path,omitempty" mapstructure:"bundle_path"` // YAML/JSON domain -> score
	PrimaryDomains   []string `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string `yaml:"secondary_domains" mapstructure:"secondary_domains"`
	TertiaryDomains  []string `yaml:"tertiary_domains" mapstructure:"tertiary_domains"`
	PrimaryScore     float64  `yaml:"primary_score" mapstructure:"primary_score"`
	SecondaryScore   float64  `yaml:"secondary_score" mapstructure:"secondary_score"`
	TertiaryScore    float64  `yaml:"tertiary_score" mapstructure:"tertiary_score"`
}

// CacheConfig controls the search and fetch cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch analysis
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // console, json
}

// OutputConfig controls result rendering
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	Pretty  bool `yaml:"pretty" mapstructure:"pretty"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Timeout:           20 * time.Second,
			UserAgent:         "Evidentia/0.1 (+https://github.com/ppiankov/evidentia)",
			MaxBodyBytes:      2_000_000,
			MaxRedirects:      3,
			MaxRetries:        2,
			RespectRobots:     true,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		LLM: LLMConfig{
			Timeout:     60 * time.Second,
			MaxTokens:   4000,
			Temperature: 0.1,
		},
		Search: SearchConfig{
			MaxResults:       6,
			Timeout:          15 * time.Second,
			FailureThreshold: 3,
			Cooldown:         2 * time.Minute,
			DomainDenylist: []string{
				"facebook.com", "instagram.com", "tiktok.com", "pinterest.com",
				"bit.ly", "t.co", "tinyurl.com",
			},
		},
		Research: ResearchConfig{
			MaxIterations:          10,
			MaxSourcesPerIteration: 6,
			MinFacts:               6,
			MinCategories:          2,
			MaxGapSearches:         2,
			MaxFactsPerSource:      8,
			MaxSourceChars:         12000,
			FactSimilarity:         0.85,
			Concurrency:            6,
		},
		Scope: ScopeConfig{
			DedupThreshold:        0.85,
			MinFactsForRefinement: 4,
		},
		Gates: GateConfig{
			MinSpecificity:        0.4,
			MinIndependentSources: 2,
			MinReliability:        0.6,
			MinAgreement:          0.6,
		},
		Calibration: CalibrationConfig{
			DependencyThreshold: 43,
			ClusterThreshold:    0.6,
		},
		Reliability: ReliabilityConfig{
			PrimaryDomains: []string{
				"gov", "gov.uk", "europa.eu", "un.org", "who.int", "supremecourt.gov",
				"nih.gov", "nature.com", "science.org", "thelancet.com", "nejm.org",
			},
			SecondaryDomains: []string{
				"reuters.com", "apnews.com", "bbc.co.uk", "bbc.com", "nytimes.com",
				"theguardian.com", "wikipedia.org", "britannica.com", "economist.com",
			},
			TertiaryDomains: []string{
				"medium.com", "substack.com", "blogspot.com", "wordpress.com",
				"reddit.com", "quora.com", "x.com", "twitter.com", "youtube.com",
			},
			PrimaryScore:   0.9,
			SecondaryScore: 0.75,
			TertiaryScore:  0.4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".evidentia-cache",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{
			Pretty: true,
		},
	}
}
