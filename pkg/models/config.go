package models

// Config represents the application configuration
type Config struct {
	WebServerPort          int    `json:"webServerPort"`
	YtdlPath               string `json:"ytdlPath"`
	YtdlAutoUpdate         bool   `json:"ytdlAutoUpdate"`
	YtdlAdditionalArgs     string `json:"ytdlAdditionalArgs"`
	AnalyzeTimeoutSeconds  int    `json:"analyzeTimeoutSeconds"`
	DownloadTimeoutMinutes int    `json:"downloadTimeoutMinutes"`
	SessionTTLMinutes      int    `json:"sessionTtlMinutes"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		WebServerPort:          9595,
		YtdlPath:               "",
		YtdlAutoUpdate:         true,
		YtdlAdditionalArgs:     "",
		AnalyzeTimeoutSeconds:  60,
		DownloadTimeoutMinutes: 30,
		SessionTTLMinutes:      60,
	}
}
