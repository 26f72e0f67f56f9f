package config

import (
	"log/slog"

	"github.com/subosito/gotenv"
)

// LoadEnv loads the env file for the given environment name. A missing file
// is not fatal; the process falls back to whatever the OS environment has.
func LoadEnv(env string) {
	envFile := "config/envs/.env." + env
	if err := gotenv.Load(envFile); err != nil {
		slog.Warn("[Config] No .env file found, using OS environment",
			slog.String("file", envFile))
	}
}
