package designerconfig

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// EnvFile is the optional dotenv file read at startup.
const EnvFile = ".env"

// Environment variables that override the preferences file.
const (
	EnvCacheSize = "DESIGNER_CACHE_SIZE"
	EnvSeed      = "DESIGNER_SEED"
	EnvExportDir = "DESIGNER_EXPORT_DIR"
	EnvFormat    = "DESIGNER_FORMAT"
	EnvWorkers   = "DESIGNER_WORKERS"
	EnvLogLevel  = "DESIGNER_LOG_LEVEL"
)

// LoadEnvFile sets an environment variable for each KEY=VALUE line of path. Blank
// lines and # comments are skipped, surrounding quotes are removed, and variables
// already set in the environment win. A missing file is not an error.
func LoadEnvFile(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimPrefix(line, "export "), "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, unquote(strings.TrimSpace(value))); err != nil {
			return err
		}
	}
	return sc.Err()
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// ApplyEnv returns p with the DESIGNER_* overrides found through lookup applied
// (os.LookupEnv in production). A malformed number is reported and leaves the field
// unchanged; the other overrides still apply.
func ApplyEnv(p Prefs, lookup func(string) (string, bool)) (Prefs, error) {
	var errs []error
	intVar := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	strVar := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	intVar(EnvCacheSize, &p.CacheSize)
	intVar(EnvWorkers, &p.Workers)
	if v, ok := lookup(EnvSeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSeed, err))
		} else {
			p.Seed = seed
		}
	}
	strVar(EnvExportDir, &p.ExportDir)
	strVar(EnvFormat, &p.DefaultFormat)
	strVar(EnvLogLevel, &p.Log.Level)
	return p.Normalize(), errors.Join(errs...)
}
