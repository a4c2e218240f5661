package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/credit-simulator/internal/config"
	"github.com/iwvelando/credit-simulator/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address        string               `yaml:"address"`
	MaxUploadSize  string               `yaml:"maxUploadSize"`
	RequestTimeout string               `yaml:"requestTimeout"`
	Logging        config.LoggingConfig `yaml:"logging"`

	uploadSizeBytes int64
	requestTimeout  time.Duration
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	timeout, _ := time.ParseDuration(constants.DefaultRequestTimeout)
	return &Config{
		Address:         constants.DefaultServerAddress,
		MaxUploadSize:   strconv.FormatInt(constants.DefaultMaxUploadSizeBytes, 10),
		RequestTimeout:  constants.DefaultRequestTimeout,
		uploadSizeBytes: constants.DefaultMaxUploadSizeBytes,
		requestTimeout:  timeout,
	}
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UploadSizeBytes returns the configured request body limit in bytes.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadSizeBytes
}

// SetUploadSizeBytes overrides the configured request body limit.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size > 0 {
		c.uploadSizeBytes = size
		c.MaxUploadSize = strconv.FormatInt(size, 10)
	}
}

// Timeout returns the outer deadline applied to each request.
func (c *Config) Timeout() time.Duration {
	return c.requestTimeout
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	bytes, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return err
	}
	if bytes <= 0 {
		bytes = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadSizeBytes = bytes
	c.MaxUploadSize = strconv.FormatInt(bytes, 10)

	timeoutStr := strings.TrimSpace(c.RequestTimeout)
	if timeoutStr == "" {
		timeoutStr = constants.DefaultRequestTimeout
	}
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return fmt.Errorf("invalid requestTimeout %q: %w", c.RequestTimeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("requestTimeout must be positive, got %s", c.RequestTimeout)
	}
	c.requestTimeout = timeout
	c.RequestTimeout = timeoutStr
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	if upper == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	idx := strings.IndexFunc(upper, func(r rune) bool { return !unicode.IsDigit(r) })
	if idx == -1 {
		idx = len(upper)
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}

	n, err := strconv.ParseInt(upper[:idx], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch strings.TrimSpace(upper[idx:]) {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1 << 10
	case "M", "MB":
		multiplier = 1 << 20
	case "G", "GB":
		multiplier = 1 << 30
	default:
		return 0, fmt.Errorf("unsupported size unit %q", strings.TrimSpace(upper[idx:]))
	}

	if n > (1<<63-1)/multiplier {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return n * multiplier, nil
}
