// Package config loads server configuration from a CUE file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue/cuecontext"
)

// Config holds everything the server needs to start.
type Config struct {
	Addr string `json:"addr"`
	DSN  string `json:"dsn"`
	Seed bool   `json:"seed"`
}

// defaults is unified with the loaded file, so a partial config file is
// valid and omitted fields take these values.
const defaults = `
addr: string | *":8080"
dsn:  string | *"file:lodestar.db?_pragma=foreign_keys(1)"
seed: bool | *false
`

// Load reads the config file at path, or only defaults when path is empty.
// LODESTAR_ADDR, DATABASE_URL, and LODESTAR_SEED override the file.
func Load(path string) (*Config, error) {
	ctx := cuecontext.New()

	val := ctx.CompileString(defaults)
	if val.Err() != nil {
		return nil, fmt.Errorf("compiling config schema: %w", val.Err())
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		file := ctx.CompileBytes(data)
		if file.Err() != nil {
			return nil, fmt.Errorf("parsing config file: %w", file.Err())
		}
		val = val.Unify(file)
		if val.Err() != nil {
			return nil, fmt.Errorf("config file does not match schema: %w", val.Err())
		}
	}

	var cfg Config
	if err := val.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if addr := os.Getenv("LODESTAR_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		cfg.DSN = dsn
	}
	if seed := os.Getenv("LODESTAR_SEED"); seed != "" {
		cfg.Seed = seed == "true" || seed == "1"
	}
	return &cfg, nil
}
