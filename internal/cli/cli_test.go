package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/evidentia/internal/cache"
	"github.com/ppiankov/evidentia/internal/model"
)

func resetInputFlags(t *testing.T) {
	t.Helper()
	inputURL, inputText, inputFile = "", "", ""
	t.Cleanup(func() { inputURL, inputText, inputFile = "", "", "" })
}

func TestResolveInput(t *testing.T) {
	resetInputFlags(t)

	in, err := resolveInput([]string{"https://example.com/a"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", in.URL)

	in, err = resolveInput([]string{"The Eiffel Tower was completed in 1889"})
	require.NoError(t, err)
	assert.Equal(t, "The Eiffel Tower was completed in 1889", in.Text)

	_, err = resolveInput(nil)
	assert.Error(t, err)

	inputText = "text"
	_, err = resolveInput([]string{"https://example.com/a"})
	assert.Error(t, err, "two inputs")
}

func TestResolveInputBlankText(t *testing.T) {
	resetInputFlags(t)
	inputText = "   "
	_, err := resolveInput(nil)
	assert.Error(t, err)
}

func TestDefaultsRoundTripThroughViper(t *testing.T) {
	v := viper.New()
	require.NoError(t, setDefaults(v))

	t.Setenv("EVIDENTIA_RESEARCH_MAX_ITERATIONS", "3")
	v.SetEnvPrefix("EVIDENTIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg model.Config
	require.NoError(t, v.Unmarshal(&cfg))

	want := model.DefaultConfig()
	assert.Equal(t, 3, cfg.Research.MaxIterations)
	assert.Equal(t, want.HTTP.Timeout, cfg.HTTP.Timeout)
	assert.Equal(t, want.Search.DomainDenylist, cfg.Search.DomainDenylist)
	assert.Equal(t, want.Gates, cfg.Gates)
}

func TestWriteDefaultConfigIsValidYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDefaultConfig(&buf))

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &cfg))
	assert.Equal(t, model.DefaultConfig().Research.MaxIterations, cfg.Research.MaxIterations)
	assert.Contains(t, buf.String(), "OPENAI_API_KEY")
}

func TestRedact(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Providers = []model.ProviderConfig{{Name: "openai", APIKey: "sk-secret"}}
	cfg.Search.Providers = []model.SearchProviderConfig{{Name: "google", APIKey: "g-secret"}}

	out := redact(cfg)
	assert.Equal(t, "***", out.LLM.Providers[0].APIKey)
	assert.Equal(t, "***", out.Search.Providers[0].APIKey)
	assert.Equal(t, "sk-secret", cfg.LLM.Providers[0].APIKey, "input untouched")
}

func TestResultFilename(t *testing.T) {
	name := resultFilename(7, "https://Example.com/a b?c")
	assert.True(t, strings.HasPrefix(name, "007-https-example-com-a-b-c-"), name)
	assert.True(t, strings.HasSuffix(name, ".json"))
	assert.Equal(t, name, resultFilename(7, "https://Example.com/a b?c"))
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cfg := model.CacheConfig{Enabled: false, Dir: dir, MemoryTTL: time.Minute, DiskTTL: time.Hour}

	disk := cache.NewDiskCache(dir, time.Hour)
	require.NoError(t, disk.Set(cache.Key("fetch", "https://example.com"), []byte("page"), 0))

	var out bytes.Buffer
	require.NoError(t, clearCache(&out, cfg))
	assert.Contains(t, out.String(), "Cleared cache at "+dir)

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "cache dir still present: %v", err)

	out.Reset()
	require.NoError(t, clearCache(&out, model.CacheConfig{}))
	assert.Contains(t, out.String(), "nothing to clear")
}
