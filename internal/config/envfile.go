package config

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
)

// ErrEnvFile indicates an env file that could not be read.
var ErrEnvFile = errors.New("cannot load env file")

// LoadEnvFile sets environment variables from a dotenv file so that Load
// picks them up. Variables already present in the environment win.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w %s: %w", ErrEnvFile, path, err)
	}
	return nil
}
