package types

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of trace, debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" for human-readable output or "json".
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// ServerConfig holds settings for the HTTP upload/download surface.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// MaxUploadMB bounds the size of an uploaded document (default 10).
	MaxUploadMB int `json:"max_upload_mb" yaml:"max_upload_mb" mapstructure:"max_upload_mb"`
}

// MaxUploadBytes returns MaxUploadMB in bytes, falling back to 10MB when unset.
func (c ServerConfig) MaxUploadBytes() int64 {
	mb := c.MaxUploadMB
	if mb <= 0 {
		mb = 10
	}
	return int64(mb) * 1024 * 1024
}

// ConvertConfig holds settings for file-based conversion.
type ConvertConfig struct {
	// OutputDir is where workbooks are written. Empty means next to the input.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
}

// Config groups the startup configuration handed to the orchestration layer.
type Config struct {
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Convert ConvertConfig `json:"convert" yaml:"convert" mapstructure:"convert"`
}
