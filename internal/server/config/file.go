package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// dotEnvFile is read from the working directory when present.
var dotEnvFile = ".env"

// loadDotEnv exports variables from path into the process environment.
// Variables already set in the environment win. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// readConfig applies defaults and environment variables to cfg. When a config
// file is given with -c/-config it is read first, and the environment still
// overrides it.
func readConfig(cfg *Config) error {
	path := flagx.ConfigFileFlag()

	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return fmt.Errorf("read env: %w", err)
		}
		return nil
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}
