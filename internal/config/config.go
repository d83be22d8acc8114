// Package config handles tool configuration loading and management.
package config

// Config holds all tool settings.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Data    DataConfig    `yaml:"data"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig controls how reports are rendered.
type OutputConfig struct {
	Format string `yaml:"format"` // "text" or "json"
	Pretty bool   `yaml:"pretty"` // indent json output
}

// JSON reports whether reports render as JSON.
func (o OutputConfig) JSON() bool {
	return o.Format == "json"
}

// DataConfig holds asset lookup settings.
type DataConfig struct {
	SearchPaths []string `yaml:"search_paths"` // Directories searched for asset files
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "text",
			Pretty: true,
		},
		Data: DataConfig{
			SearchPaths: []string{"."},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
