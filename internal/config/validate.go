package config

import (
	"errors"
	"fmt"
)

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("server max_body_bytes must be positive"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("bcrypt cost must be between 4 and 14, got %d", c.Auth.BcryptCost))
	}
	if c.Auth.TokenTTLHours <= 0 {
		errs = append(errs, errors.New("token_ttl_hours must be positive"))
	}
	if c.Auth.LoginRatePerMinute <= 0 {
		errs = append(errs, errors.New("login_rate_per_minute must be positive"))
	}
	if c.Photo.MaxBytes <= 0 {
		errs = append(errs, errors.New("photo max_bytes must be positive"))
	}
	if c.Photo.MaxWidth <= 0 || c.Photo.MaxHeight <= 0 {
		errs = append(errs, fmt.Errorf("photo max_width and max_height must be positive, got %dx%d", c.Photo.MaxWidth, c.Photo.MaxHeight))
	}
	if c.Photo.MaxPixels <= 0 {
		errs = append(errs, errors.New("photo max_pixels must be positive"))
	}
	if c.Photo.InitialQuality <= 0 || c.Photo.InitialQuality > 1 {
		errs = append(errs, fmt.Errorf("photo initial_quality must be in (0, 1], got %v", c.Photo.InitialQuality))
	}

	return errors.Join(errs...)
}
