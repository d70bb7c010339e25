package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. A missing gateway API key is
// deliberately not a validation failure; it is surfaced at call time so the
// user gets an actionable message instead of a startup crash.
func (c *Config) Validate() error {
	if err := c.validateGateway(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateGateway() error {
	if c.Gateway.BaseURL == "" {
		return errors.New("gateway.base_url must be set")
	}
	if c.Gateway.TextModel == "" {
		return errors.New("gateway.text_model must be set")
	}
	if c.Gateway.ImageModel == "" {
		return errors.New("gateway.image_model must be set")
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Capture.Device == "" {
		return errors.New("capture.device must be set")
	}
	if c.Capture.JPEGQuality <= 0 || c.Capture.JPEGQuality > 1 {
		return fmt.Errorf("capture.jpeg_quality must be in (0, 1], got %v", c.Capture.JPEGQuality)
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.TickStep > 100 {
		return fmt.Errorf("scan.tick_step must not exceed 100, got %v", c.Scan.TickStep)
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.URL == "" {
		return nil
	}
	if c.Sync.Token == "" {
		return errors.New("sync.token must be set when sync.url is configured (or set SKINSIGHT_SYNC_TOKEN)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
