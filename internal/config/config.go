package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/msomdec/tasktrack/internal/imaging"
	"github.com/pelletier/go-toml/v2"
)

// Server contains HTTP listener configuration.
type Server struct {
	Port            string `toml:"port"`
	MaxBodyBytes    int64  `toml:"max_body_bytes"`
	ShutdownSeconds int    `toml:"shutdown_seconds"`
}

// Database contains the SQLite location.
type Database struct {
	Path string `toml:"path"`
}

// Auth contains token signing and password hashing settings.
type Auth struct {
	JWTSecret     string `toml:"jwt_secret"`
	BcryptCost    int    `toml:"bcrypt_cost"`
	TokenTTLHours int    `toml:"token_ttl_hours"`
	// LoginRatePerMinute bounds login/register attempts per client IP.
	LoginRatePerMinute int `toml:"login_rate_per_minute"`
}

// Photo contains the profile photo byte budget, compression settings and
// the source dimension limits checked before decoding.
type Photo struct {
	MaxBytes       int64   `toml:"max_bytes"`
	InitialQuality float64 `toml:"initial_quality"`
	MaxWidth       int     `toml:"max_width"`
	MaxHeight      int     `toml:"max_height"`
	MaxPixels      int64   `toml:"max_pixels"`
}

// Config is the complete server configuration.
type Config struct {
	Server   Server   `toml:"server"`
	Database Database `toml:"database"`
	Auth     Auth     `toml:"auth"`
	Photo    Photo    `toml:"photo"`
}

// TokenTTL returns the JWT lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

// PhotoLimits returns the source dimension limits for photo decoding.
func (c *Config) PhotoLimits() imaging.Limits {
	return imaging.Limits{
		MaxWidth:  c.Photo.MaxWidth,
		MaxHeight: c.Photo.MaxHeight,
		MaxPixels: c.Photo.MaxPixels,
	}
}

// ShutdownTimeout returns the graceful shutdown deadline.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownSeconds) * time.Second
}

// Load builds a Config from defaults, an optional TOML file and environment
// overrides, in that order. A missing file is not an error when path came
// from the default location; an explicitly named file must exist.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("PORT", &cfg.Server.Port)
	str("DATABASE_PATH", &cfg.Database.Path)
	str("JWT_SECRET", &cfg.Auth.JWTSecret)

	if err := integer("BCRYPT_COST", &cfg.Auth.BcryptCost); err != nil {
		return err
	}
	if err := integer("TOKEN_TTL_HOURS", &cfg.Auth.TokenTTLHours); err != nil {
		return err
	}
	if v, ok := lookup("PHOTO_MAX_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid PHOTO_MAX_BYTES: %w", err)
		}
		cfg.Photo.MaxBytes = n
	}
	if v, ok := lookup("PHOTO_MAX_PIXELS"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid PHOTO_MAX_PIXELS: %w", err)
		}
		cfg.Photo.MaxPixels = n
	}
	if v, ok := lookup("PHOTO_INITIAL_QUALITY"); ok && v != "" {
		q, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid PHOTO_INITIAL_QUALITY: %w", err)
		}
		cfg.Photo.InitialQuality = q
	}
	return nil
}
