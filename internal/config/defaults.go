package config

import "github.com/msomdec/tasktrack/internal/imaging"

// DefaultPath is where the server looks for a config file when CONFIG_FILE
// is unset.
const DefaultPath = "tasktrack.toml"

// Default returns a Config populated with default values. JWTSecret has no
// default and must be supplied.
func Default() *Config {
	return &Config{
		Server: Server{
			Port:            "5000",
			MaxBodyBytes:    8 << 20, // photos arrive base64-encoded in JSON
			ShutdownSeconds: 5,
		},
		Database: Database{
			Path: "tasktrack.db",
		},
		Auth: Auth{
			BcryptCost:         10,
			TokenTTLHours:      30 * 24,
			LoginRatePerMinute: 10,
		},
		Photo: Photo{
			MaxBytes:       imaging.DefaultMaxSizeBytes,
			InitialQuality: imaging.DefaultInitialQuality,
			MaxWidth:       imaging.DefaultMaxWidth,
			MaxHeight:      imaging.DefaultMaxHeight,
			MaxPixels:      imaging.DefaultMaxPixels,
		},
	}
}
