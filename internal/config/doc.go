// Package config provides configuration management for flare.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Environment overrides (FLARE_* variables, optionally from a .env file)
//   - Conversion to the option structs used by other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Volume 50, 5 second seek step, 500ms position ticks
//	// Thumbnails drawn with "kitten icat"
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // A missing file is not an error, defaults are returned
//	}
//
// # Environment
//
// ApplyEnv overrides individual fields, after loading a .env file from the
// working directory when one exists:
//
//	FLARE_VOLUME=80 FLARE_LOG_LEVEL=debug flare ~/Music
package config
