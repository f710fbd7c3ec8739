package telemetrysvc

import (
	"encoding/json"
	"errors"

	"github.com/carverauto/taskradar/pkg/config"
	"github.com/carverauto/taskradar/pkg/logger"
	"github.com/carverauto/taskradar/pkg/models"
)

var (
	ErrMissingListenAddr     = errors.New("listen_addr is required")
	ErrMissingDatabaseConfig = errors.New("database configuration is required")
	ErrMissingNATSConfig     = errors.New("nats configuration is required when events are enabled")
	ErrInvalidJSON           = errors.New("failed to unmarshal JSON configuration")
)

// Config holds configuration for the telemetry service.
type Config struct {
	ListenAddr      string                 `json:"listen_addr"`
	Database        models.ProtonDatabase  `json:"database"`
	NATS            *models.NATSConfig     `json:"nats,omitempty"`
	Events          models.EventsConfig    `json:"events"`
	ImmediateWrites bool                   `json:"immediate_writes"`
	Verbose         bool                   `json:"verbose"`
	Logging         *logger.Config         `json:"logging,omitempty"`
	Security        *models.SecurityConfig `json:"security,omitempty"`
}

// UnmarshalJSON ensures TLS paths are normalized.
func (c *Config) UnmarshalJSON(data []byte) error {
	type Alias Config

	var alias struct{ Alias }

	alias.Alias = Alias{}

	if err := json.Unmarshal(data, &alias); err != nil {
		return errors.Join(ErrInvalidJSON, err)
	}

	*c = Config(alias.Alias)

	if c.Security != nil && c.Security.CertDir != "" {
		config.NormalizeTLSPaths(&c.Security.TLS, c.Security.CertDir)
	}

	if c.Database.Security != nil && c.Database.Security.CertDir != "" {
		config.NormalizeTLSPaths(&c.Database.Security.TLS, c.Database.Security.CertDir)
	}

	if c.NATS != nil && c.NATS.Security != nil && c.NATS.Security.CertDir != "" {
		config.NormalizeTLSPaths(&c.NATS.Security.TLS, c.NATS.Security.CertDir)
	}

	return nil
}

// Validate checks the configuration for required fields and fills event
// publishing defaults.
func (c *Config) Validate() error {
	var errs []error

	if c.ListenAddr == "" {
		errs = append(errs, ErrMissingListenAddr)
	}

	if c.Database.Name == "" || len(c.Database.Addresses) == 0 {
		errs = append(errs, ErrMissingDatabaseConfig)
	}

	if c.Events.Enabled {
		if c.NATS == nil {
			errs = append(errs, ErrMissingNATSConfig)
		} else if err := c.NATS.Validate(); err != nil {
			errs = append(errs, err)
		}

		if err := c.Events.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
