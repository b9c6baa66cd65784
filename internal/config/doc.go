// Package config provides configuration management for osu-collector-dl.
//
// Settings are layered, later sources winning:
//   - DefaultSettings()
//   - config.toml, read with Load
//   - .env files (LoadEnvFiles) and OSU_* environment variables (ApplyEnv)
//   - command-line flags, applied by the caller
//
// # Loading from File
//
//	settings, err := config.Load("config.toml")
//	if err != nil {
//	    // A missing file is not an error; defaults are returned instead
//	}
//
// A complete file looks like:
//
//	[user]
//	mirror_type = "catboy"
//	collection_name_format = "{collection_title} ({collection_author})"
//	concurrent_downloads = 3
//
//	[collector]
//	id = 7421
//
//	[osu]
//	songs_path = "/home/me/osu!/Songs"
//	collection_path = "/home/me/osu!/collection.db"
//
// Call Validate before starting a run and log any Warnings.
package config
