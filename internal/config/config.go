// Package config loads runtime settings from a .env file and the environment.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	envDataDir   = "MILB_DATA_DIR"
	envDBPath    = "MILB_DB_PATH"
	envUserAgent = "MILB_USER_AGENT"
	envSleep     = "MILB_SLEEP"
	envAPISleep  = "MILB_API_SLEEP"
	envTimeout   = "MILB_HTTP_TIMEOUT"
	envProxy     = "MILB_HTTP_PROXY"
	envCensusKey = "CENSUS_API_KEY"
	envFREDKey   = "FRED_API_KEY"
	envACSYear   = "ACS_YEAR"

	DefaultDataDir   = "~/.local/share/milb-data"
	DefaultDBName    = "milb.db"
	DefaultUserAgent = "milb-data/1.0 (github.com/pfrederiksen/milb-data)"
	DefaultSleep     = 6 * time.Second
	DefaultAPISleep  = time.Second
	DefaultTimeout   = 30 * time.Second
	DefaultACSYear   = 2023
)

// Config holds settings shared by every command
type Config struct {
	DataDir   string
	DBPath    string
	UserAgent string
	CensusKey string
	FREDKey   string
	ACSYear   int

	Sleep    time.Duration // between Wikipedia requests
	APISleep time.Duration // between Census, geocoder and FRED requests
	Timeout  time.Duration // per request; zero disables it
	Proxy    string        // HTTP proxy for every request, if set
}

// Load reads envFile (a missing file is not an error) and then the process
// environment. Variables already set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	dataDir := envOrDefault(envDataDir, DefaultDataDir)
	return Config{
		DataDir:   dataDir,
		DBPath:    envOrDefault(envDBPath, defaultDBPath(dataDir)),
		UserAgent: envOrDefault(envUserAgent, DefaultUserAgent),
		Sleep:     durationEnvOrDefault(envSleep, DefaultSleep),
		APISleep:  durationEnvOrDefault(envAPISleep, DefaultAPISleep),
		Timeout:   durationEnvOrDefault(envTimeout, DefaultTimeout),
		Proxy:     strings.TrimSpace(os.Getenv(envProxy)),
		CensusKey: os.Getenv(envCensusKey),
		FREDKey:   os.Getenv(envFREDKey),
		ACSYear:   intEnvOrDefault(envACSYear, DefaultACSYear),
	}, nil
}

// SetDataDir moves the data directory. A database path that still points at
// the default location under the old directory follows it.
func (c *Config) SetDataDir(dir string) {
	if c.DBPath == defaultDBPath(c.DataDir) {
		c.DBPath = defaultDBPath(dir)
	}
	c.DataDir = dir
}

func defaultDBPath(dataDir string) string {
	return strings.TrimSuffix(dataDir, "/") + "/" + DefaultDBName
}

// LoadHeaders parses a request header file with one "key: value" pair per
// line. Quotes around keys and values are removed; lines without a colon
// are skipped.
func LoadHeaders(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening header file: %w", err)
	}
	defer f.Close()

	headers := make(map[string]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.ReplaceAll(key, "'", ""))
		value = strings.TrimSpace(strings.ReplaceAll(value, "'", ""))
		if key == "" {
			continue
		}
		headers[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading header file: %w", err)
	}
	return headers, nil
}

func envOrDefault(key, defaultValue string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultValue
}

func durationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed < 0 {
		return defaultValue
	}
	return parsed
}

func intEnvOrDefault(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return defaultValue
	}
	return val
}
