package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// parseEnv overlays cfg with FORUMCTL_-prefixed environment variables. A
// .env file in the working directory is loaded first; a missing file is
// fine, that is the common case.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "FORUMCTL_"}); err != nil {
		panic(err)
	}
}
