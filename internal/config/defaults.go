package config

const (
	defaultDataDir            = "~/.local/share/skinsight"
	defaultLogDir             = "~/.local/share/skinsight/logs"
	defaultGatewayBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	defaultTextModel          = "gemini-3-flash-preview"
	defaultImageModel         = "gemini-2.5-flash-image"
	defaultGatewayTimeout     = 45
	defaultCaptureDevice      = "/dev/video0"
	defaultCaptureWidth       = 1280
	defaultCaptureHeight      = 720
	defaultJPEGQuality        = 0.85
	defaultDetectionDelayMS   = 3000
	defaultTickIntervalMS     = 80
	defaultTickStep           = 1.2
	defaultCooldownMS         = 2000
	defaultEnrichMaxSteps     = 3
	defaultEnrichParallelism  = 3
	defaultCompletionPoints   = 250
	defaultStreakMilestone    = 7
	defaultSyncTimeoutSeconds = 15
	defaultNotifyTimeout      = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Gateway: Gateway{
			BaseURL:        defaultGatewayBaseURL,
			TextModel:      defaultTextModel,
			ImageModel:     defaultImageModel,
			TimeoutSeconds: defaultGatewayTimeout,
		},
		Capture: Capture{
			Device:      defaultCaptureDevice,
			Width:       defaultCaptureWidth,
			Height:      defaultCaptureHeight,
			JPEGQuality: defaultJPEGQuality,
		},
		Scan: Scan{
			DetectionDelayMS: defaultDetectionDelayMS,
			TickIntervalMS:   defaultTickIntervalMS,
			TickStep:         defaultTickStep,
			CooldownMS:       defaultCooldownMS,
		},
		Enrichment: Enrichment{
			MaxSteps:    defaultEnrichMaxSteps,
			Parallelism: defaultEnrichParallelism,
		},
		Rewards: Rewards{
			CompletionPoints: defaultCompletionPoints,
			StreakMilestone:  defaultStreakMilestone,
		},
		Sync: Sync{
			TimeoutSeconds: defaultSyncTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
