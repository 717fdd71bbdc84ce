package service

import (
	"fmt"
	"strings"
)

// Default configuration values.
const (
	// DefaultSubject is the NATS subject the server subscribes to.
	DefaultSubject = "shardplan.plan"

	// DefaultKVBucket is the JetStream KV bucket accepted plans are stored in.
	DefaultKVBucket = "shardplan-plans"
)

// Config configures the planning service.
type Config struct {
	// Subject is the NATS request/reply subject for plan requests.
	Subject string `yaml:"subject"`

	// KVBucket is the JetStream KV bucket name for accepted plans. Plans are
	// stored under their request fingerprint so identical requests can be
	// served from storage after a restart.
	KVBucket string `yaml:"kvBucket"`

	// DisablePersistence skips the JetStream KV bucket entirely. Useful when
	// the NATS deployment has JetStream disabled.
	DisablePersistence bool `yaml:"disablePersistence"`
}

// SetDefaults fills in missing configuration values with defaults.
func SetDefaults(cfg *Config) {
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.KVBucket == "" {
		cfg.KVBucket = DefaultKVBucket
	}
}

// Validate checks the configuration for consistency.
//
// Returns:
//   - error: ErrInvalidConfig describing the first problem found, or nil
func (c *Config) Validate() error {
	if c.Subject == "" {
		return fmt.Errorf("%w: subject must not be empty", ErrInvalidConfig)
	}
	if strings.ContainsAny(c.Subject, " *>") {
		return fmt.Errorf("%w: subject %q must be a literal subject without wildcards", ErrInvalidConfig, c.Subject)
	}
	if !c.DisablePersistence {
		if c.KVBucket == "" {
			return fmt.Errorf("%w: kv bucket must not be empty", ErrInvalidConfig)
		}
		if strings.ContainsAny(c.KVBucket, " .*>") {
			return fmt.Errorf("%w: kv bucket %q contains invalid characters", ErrInvalidConfig, c.KVBucket)
		}
	}

	return nil
}
