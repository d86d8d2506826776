package telemetry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	envEndpoint    = "ACTIONRUN_OTEL_ENDPOINT"
	envInsecure    = "ACTIONRUN_OTEL_INSECURE"
	envService     = "ACTIONRUN_OTEL_SERVICE"
	envDialTimeout = "ACTIONRUN_OTEL_DIAL_TIMEOUT"
	envHeaders     = "ACTIONRUN_OTEL_HEADERS"

	defaultServiceName = "actionrun"
)

type Config struct {
	Endpoint    string
	Insecure    bool
	ServiceName string
	Version     string
	DialTimeout time.Duration
	Headers     map[string]string
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// ConfigFromEnv never fails; malformed values are dropped.
func ConfigFromEnv(getenv func(string) string) Config {
	cfg := Config{ServiceName: defaultServiceName}
	if getenv == nil {
		return cfg
	}
	cfg.Endpoint = strings.TrimSpace(getenv(envEndpoint))
	if v, err := strconv.ParseBool(strings.TrimSpace(getenv(envInsecure))); err == nil {
		cfg.Insecure = v
	}
	if svc := strings.TrimSpace(getenv(envService)); svc != "" {
		cfg.ServiceName = svc
	}
	if d, err := time.ParseDuration(strings.TrimSpace(getenv(envDialTimeout))); err == nil {
		cfg.DialTimeout = d
	}
	if headers, err := ParseHeaders(getenv(envHeaders)); err == nil {
		cfg.Headers = headers
	}
	return cfg
}

// ParseHeaders reads "k=v, k2=v2". Blank input yields nil.
func ParseHeaders(raw string) (map[string]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q", part)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
