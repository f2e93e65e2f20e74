package retrieval

import (
	"time"

	"github.com/ppiankov/evidentia/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "test-agent",
		MaxBodyBytes: 1 << 20,
		MaxRedirects: 3,
		MaxRetries:   2,
	}
}
