package settings

import (
	"bufio"
	"os"
	"strings"
)

// LoadDotEnv parses a .env style file and exports its variables into the
// process environment. Blank lines and lines starting with '#' are
// skipped; everything after the first '=' is the value. Variables
// already present in the environment are never overwritten, so real
// environment always wins over the file.
func LoadDotEnv(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
