package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/hotelbook/internal/flagx"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv loads the dotenv file into the process environment, then
// overlays cfg with the HOTELBOOK_* variables that are set.
//
// A missing default .env is not an error; a missing file named with -env is.
func parseEnv(cfg *Config, args []string) error {
	path := flagx.Lookup(args, "env")
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}
