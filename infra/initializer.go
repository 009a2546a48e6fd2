package infra

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// EnvFileVar names an extra dotenv file to load after .env.
const EnvFileVar = "ENV_FILE"

// LoadEnvFiles loads the given dotenv files, or .env and $ENV_FILE when none
// are given, and returns the ones that were read. Variables already present
// in the environment keep their value. Missing files are skipped.
func LoadEnvFiles(files ...string) []string {
	if len(files) == 0 {
		files = []string{".env"}
		if extra := os.Getenv(EnvFileVar); extra != "" {
			files = append(files, extra)
		}
	}

	var loaded []string
	for _, file := range files {
		err := godotenv.Load(file)
		switch {
		case err == nil:
			loaded = append(loaded, file)
		case errors.Is(err, fs.ErrNotExist):
			logrus.Debugf("env file %s not found", file)
		default:
			logrus.Warnf("env file %s: %v", file, err)
		}
	}
	if len(loaded) == 0 {
		logrus.Info("No .env file found; using environment variables")
	}
	return loaded
}
