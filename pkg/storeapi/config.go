package storeapi

import "time"

// Config represents the configuration for the AlienStore backend client
type Config struct {
	// BaseURL is the upstream REST API base URL, e.g. http://alienstore.test/api
	BaseURL string

	// Timeout bounds every single HTTP round trip to the upstream
	Timeout time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}
