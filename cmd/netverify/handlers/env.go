package handlers

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded when --env-file is not given.
const DefaultEnvFile = ".env"

// loadDotEnv can be replaced in tests.
var loadDotEnv = godotenv.Load

// LoadEnvFile loads variables from path into the process environment.
// Variables that are already set are not overridden. A missing file is
// ignored unless the path was given explicitly.
func LoadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := loadDotEnv(path)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return nil
	}
	return fmt.Errorf("failed to load env file %s: %w", path, err)
}
