package application

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	sharedlogger "holostream/internal/shared/logger"
)

// DefaultEnvFiles are tried in order when no file is named. Earlier files
// take precedence since godotenv never overrides a variable already set.
var DefaultEnvFiles = []string{".env.local", ".env"}

// LoadEnvFiles loads every existing file of files into the process
// environment, or DefaultEnvFiles when files is empty. Variables already in
// the environment are kept. It returns the files that were loaded.
func LoadEnvFiles(logger sharedlogger.Logger, files ...string) []string {
	if len(files) == 0 {
		files = DefaultEnvFiles
	}

	var loaded []string
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			logger.Debug("No .env file found", "path", file)
			continue
		}

		if err := godotenv.Load(file); err != nil {
			logger.Warn("Failed to load .env file", "path", file, "err", err)
			continue
		}
		logger.Debug("Loaded .env file", "path", file)
		loaded = append(loaded, file)
	}
	return loaded
}
