package config

import "strings"

func (c *Config) normalize() error {
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	c.Gateway.APIKey = strings.TrimSpace(c.Gateway.APIKey)
	c.Gateway.BaseURL = strings.TrimRight(strings.TrimSpace(c.Gateway.BaseURL), "/")
	c.Gateway.TextModel = strings.TrimSpace(c.Gateway.TextModel)
	c.Gateway.ImageModel = strings.TrimSpace(c.Gateway.ImageModel)
	if c.Gateway.TimeoutSeconds <= 0 {
		c.Gateway.TimeoutSeconds = defaultGatewayTimeout
	}

	c.Capture.Device = strings.TrimSpace(c.Capture.Device)
	if c.Capture.Width <= 0 {
		c.Capture.Width = defaultCaptureWidth
	}
	if c.Capture.Height <= 0 {
		c.Capture.Height = defaultCaptureHeight
	}
	if c.Capture.JPEGQuality <= 0 {
		c.Capture.JPEGQuality = defaultJPEGQuality
	}

	if c.Scan.DetectionDelayMS <= 0 {
		c.Scan.DetectionDelayMS = defaultDetectionDelayMS
	}
	if c.Scan.TickIntervalMS <= 0 {
		c.Scan.TickIntervalMS = defaultTickIntervalMS
	}
	if c.Scan.TickStep <= 0 {
		c.Scan.TickStep = defaultTickStep
	}
	if c.Scan.CooldownMS < 0 {
		c.Scan.CooldownMS = defaultCooldownMS
	}

	if c.Enrichment.MaxSteps <= 0 {
		c.Enrichment.MaxSteps = defaultEnrichMaxSteps
	}
	if c.Enrichment.Parallelism <= 0 {
		c.Enrichment.Parallelism = defaultEnrichParallelism
	}

	if c.Rewards.CompletionPoints < 0 {
		c.Rewards.CompletionPoints = defaultCompletionPoints
	}
	if c.Rewards.StreakMilestone <= 0 {
		c.Rewards.StreakMilestone = defaultStreakMilestone
	}

	c.Sync.URL = strings.TrimSpace(c.Sync.URL)
	c.Sync.Token = strings.TrimSpace(c.Sync.Token)
	if c.Sync.TimeoutSeconds <= 0 {
		c.Sync.TimeoutSeconds = defaultSyncTimeoutSeconds
	}

	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}
