package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/evidentia/internal/model"
)

func testReliabilityConfig() model.ReliabilityConfig {
	return model.ReliabilityConfig{
		PrimaryDomains:   []string{"legislation.gov.uk", "doi.org", "gov"},
		SecondaryDomains: []string{"wikipedia.org", "reuters.com"},
		TertiaryDomains:  []string{"medium.com"},
		PrimaryScore:     0.9,
		SecondaryScore:   0.75,
		TertiaryScore:    0.4,
	}
}

func TestReliabilityTable_Tiers(t *testing.T) {
	table, err := NewReliabilityTable(testReliabilityConfig())
	if err != nil {
		t.Fatalf("NewReliabilityTable: %v", err)
	}

	tests := []struct {
		url      string
		expected model.AuthorityTier
		score    float64
		desc     string
	}{
		{"https://www.legislation.gov.uk/ukpga/1998/42", model.TierPrimary, 0.9, "Primary domain with www"},
		{"https://data.census.gov/table", model.TierPrimary, 0.9, "Bare TLD entry"},
		{"https://en.wikipedia.org/wiki/Laksa", model.TierSecondary, 0.75, "Secondary subdomain"},
		{"https://someone.medium.com/post", model.TierTertiary, 0.4, "Tertiary subdomain"},
		{"https://cs.stanford.edu/paper", model.TierPrimary, 0.9, "Academic TLD"},
		{"https://reuters.com:443/world", model.TierSecondary, 0.75, "Port is ignored"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			tier, rel := table.Lookup(tt.url)
			if tier != tt.expected {
				t.Errorf("Expected %v for %s, got %v", tt.expected, tt.url, tier)
			}
			if rel == nil || *rel != tt.score {
				t.Errorf("Expected reliability %v for %s, got %v", tt.score, tt.url, rel)
			}
		})
	}
}

func TestReliabilityTable_UnknownStaysUnknown(t *testing.T) {
	table, err := NewReliabilityTable(testReliabilityConfig())
	if err != nil {
		t.Fatalf("NewReliabilityTable: %v", err)
	}

	for _, u := range []string{"https://random-blog.example/post", "not a url", ""} {
		tier, rel := table.Lookup(u)
		if tier != model.TierUnknown {
			t.Errorf("Lookup(%q) tier = %v, want unknown", u, tier)
		}
		if rel != nil {
			t.Errorf("Lookup(%q) reliability = %v, want nil", u, *rel)
		}
	}
}

func TestReliabilityTable_BundleWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.yaml")
	bundle := "domains:\n  reuters.com: 0.92\n  news.example.org: 55\n  example.org: 0.3\n"
	if err := os.WriteFile(path, []byte(bundle), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testReliabilityConfig()
	cfg.BundlePath = path
	table, err := NewReliabilityTable(cfg)
	if err != nil {
		t.Fatalf("NewReliabilityTable: %v", err)
	}

	tier, rel := table.Lookup("https://www.reuters.com/world")
	if tier != model.TierPrimary || rel == nil || *rel != 0.92 {
		t.Errorf("reuters.com: got %v %v, want primary 0.92", tier, rel)
	}

	// Most specific bundle entry, percent score normalized
	_, rel = table.Lookup("https://a.news.example.org/x")
	if rel == nil || *rel != 0.55 {
		t.Errorf("news.example.org: got %v, want 0.55", rel)
	}

	tier, _ = table.Lookup("https://example.org/")
	if tier != model.TierTertiary {
		t.Errorf("example.org tier = %v, want tertiary", tier)
	}
}

func TestReliabilityTable_FlatJSONBundle(t *testing.T) {
	table, err := NewReliabilityTable(model.ReliabilityConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if err := table.LoadBundle([]byte(`{"apnews.com": 0.8}`)); err != nil {
		t.Fatalf("LoadBundle: %v", err)
	}
	if _, rel := table.Lookup("https://apnews.com/article"); rel == nil || *rel != 0.8 {
		t.Errorf("got %v, want 0.8", rel)
	}

	if err := table.LoadBundle([]byte(`{"bad.com": -2}`)); err == nil {
		t.Error("expected error for negative score")
	}
}

func TestReliabilityTable_MissingBundle(t *testing.T) {
	cfg := testReliabilityConfig()
	cfg.BundlePath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := NewReliabilityTable(cfg); err == nil {
		t.Error("expected error for missing bundle")
	}
}

func TestReliabilityTable_Annotate(t *testing.T) {
	table, err := NewReliabilityTable(testReliabilityConfig())
	if err != nil {
		t.Fatal(err)
	}

	sources := []model.Source{
		{ID: "s1", URL: "https://www.reuters.com/a"},
		{ID: "s2", URL: "https://unknown.example/b"},
	}
	table.Annotate(sources)

	if sources[0].Domain != "reuters.com" || sources[0].Authority != model.TierSecondary || !sources[0].ReliabilityKnown() {
		t.Errorf("s1 = %+v", sources[0])
	}
	if sources[1].Domain != "unknown.example" || sources[1].ReliabilityKnown() {
		t.Errorf("s2 = %+v", sources[1])
	}
}
