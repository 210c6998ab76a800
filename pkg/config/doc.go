// Package config fills env-tagged structs from the process environment,
// optionally seeded from .env files.
//
// Load parses a struct type once and hands out copies of the cached result on
// later calls; ForceReload re-parses after the environment changed and
// ResetCache forgets every type. LoadEnv reads .env files with godotenv
// without overriding variables the process already has. Field parsing is done
// by github.com/caarlos0/env/v11, so any field type implementing
// encoding.TextUnmarshaler can be configured.
//
//	var cfg priorityqueue.Config
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
//
// Failures wrap ErrParsingConfig, ErrLoadingEnvFile or ErrNilPointer.
// MustLoad and MustLoadEnv panic instead of returning them.
package config
