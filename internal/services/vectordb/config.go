// File: internal/services/vectordb/config.go
package vectordb

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Connection settings
	Host   string
	Port   int
	APIKey string
	UseTLS bool

	// Dimension of stored vectors; must match the embedding model.
	VectorSize uint64

	// Operation settings
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Upper bound for the single-pass payload scan behind collection stats.
	ScrollLimit uint32
}

func DefaultConfig() *Config {
	return &Config{
		Host:        "localhost",
		Port:        6334,
		VectorSize:  384,
		Timeout:     30 * time.Second,
		MaxRetries:  3,
		RetryDelay:  2 * time.Second,
		ScrollLimit: 10000,
	}
}

// ParseURL fills Host/Port/UseTLS from a "host:port", "http://host:port" or
// "https://host" style address.
func (c *Config) ParseURL(rawURL string) error {
	addr := rawURL
	switch {
	case strings.HasPrefix(addr, "https://"):
		c.UseTLS = true
		addr = strings.TrimPrefix(addr, "https://")
	case strings.HasPrefix(addr, "http://"):
		addr = strings.TrimPrefix(addr, "http://")
	}
	addr = strings.TrimSuffix(addr, "/")
	if addr == "" {
		return errors.New("qdrant URL is empty")
	}

	host, portStr, found := strings.Cut(addr, ":")
	c.Host = host
	if found {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid qdrant port %q", portStr)
		}
		c.Port = port
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("qdrant host is required")
	}
	if c.Port <= 0 {
		return errors.New("qdrant port must be positive")
	}
	if c.VectorSize == 0 {
		return errors.New("vector size is required")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("max retries cannot be negative")
	}
	return nil
}
