package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var ErrMissingConfig = errors.New("missing required configuration")

type Config struct {
	APIURL      string
	APIUsername string
	APIPassword string
	TimeoutMs   int
	DefaultPOP  string

	OutputPath        string
	InputPath         string
	PolycomOutputPath string
	XLSXOutputPath    string

	Title       string
	Prompt      string
	AliasesFile string

	LogLevel string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		APIURL:      getEnv("VOIPMS_API_URL", "https://voip.ms/api/v1/rest.php"),
		APIUsername: getEnv("VOIPMS_API_USERNAME", ""),
		APIPassword: getEnv("VOIPMS_API_PASSWORD", ""),
		TimeoutMs:   getEnvInt("VOIPMS_TIMEOUT_MS", 30000),
		DefaultPOP:  getEnv("VOIPMS_DEFAULT_POP", "newyork1.voip.ms"),

		OutputPath:        getEnv("OUTPUT_PATH", "dir.xml"),
		InputPath:         getEnv("INPUT_PATH", "dir.xml"),
		PolycomOutputPath: getEnv("POLYCOM_OUTPUT_PATH", "000000000000-directory.xml"),
		XLSXOutputPath:    getEnv("XLSX_OUTPUT_PATH", "dir.xlsx"),

		Title:       getEnv("DIRECTORY_TITLE", "Ham Subaccounts (VoIP.ms)"),
		Prompt:      getEnv("DIRECTORY_PROMPT", "Select contact"),
		AliasesFile: getEnv("ALIASES_FILE", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: env var %s", ErrMissingConfig, name)
	}
	return nil
}

// RequireCredentials must pass before any call to the provider is made.
func (c Config) RequireCredentials() error {
	if err := c.Require("VOIPMS_API_USERNAME", c.APIUsername); err != nil {
		return err
	}
	return c.Require("VOIPMS_API_PASSWORD", c.APIPassword)
}

// RequireTimeout is only checked by commands that reach the provider.
func (c Config) RequireTimeout() error {
	if c.TimeoutMs <= 0 {
		return fmt.Errorf("invalid VOIPMS_TIMEOUT_MS: %d", c.TimeoutMs)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(getEnv(key, ""))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
