package config

import (
	"fmt"
	"net/url"
	"strings"
)

// OllamaURL returns the base URL of the Ollama server. OLLAMA_HOST may be a
// bare host name (as in docker-compose service names) or a full URL.
func (c *Config) OllamaURL() (*url.URL, error) {
	host := strings.TrimSpace(c.Ollama.Host)
	if host == "" {
		host = "localhost"
	}

	raw := host
	if !strings.Contains(host, "://") {
		if strings.Contains(host, ":") {
			raw = "http://" + host
		} else {
			raw = fmt.Sprintf("http://%s:%s", host, c.Ollama.Port)
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_HOST %q: %w", c.Ollama.Host, err)
	}
	return u, nil
}

// PostgresEnabled reports whether history should go to PostgreSQL instead of
// the local SQLite file.
func (c *Config) PostgresEnabled() bool {
	return strings.HasPrefix(c.History.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.History.DatabaseURL, "postgresql://") ||
		strings.Contains(c.History.DatabaseURL, "host=")
}
