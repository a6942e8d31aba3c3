// Package env loads agent configuration from the environment, with optional
// .env file support for local development.
package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"webagent/internal/infrastructure/llm/azure"

	"github.com/joho/godotenv"
)

// Recognized variables. The Azure ones mirror the deployment's app settings.
const (
	KeyAPIKey     = "AZURE_OPENAI_API_KEY"
	KeyEndpoint   = "AZURE_OPENAI_ENDPOINT"
	KeyDeployment = "AZURE_OPENAI_DEPLOYMENT"
	KeyAPIVersion = "AZURE_OPENAI_API_VERSION"

	KeyMaxIterations     = "AGENT_MAX_ITERATIONS"
	KeyParseFailureLimit = "AGENT_PARSE_FAILURE_LIMIT"
	KeyHeadless          = "AGENT_HEADLESS"
	KeyScreenshotDir     = "AGENT_SCREENSHOT_DIR"
	KeyLogFile           = "AGENT_LOG_FILE"
	KeyLogLevel          = "AGENT_LOG_LEVEL"
)

const (
	defaultScreenshotDir     = "screenshots"
	defaultMaxIterations     = 10
	defaultParseFailureLimit = 3
)

type Config struct {
	APIKey     string
	Endpoint   string
	Deployment string
	APIVersion string

	MaxIterations     int
	ParseFailureLimit int
	Headless          bool
	ScreenshotDir     string
	LogFile           string
	LogLevel          string
}

// Load reads configuration once at startup. A missing required variable is a
// fatal configuration error reported before any loop iteration begins.
func Load() (*Config, error) {
	// Secrets live in .env during local development; its absence is fine.
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:            os.Getenv(KeyAPIKey),
		Endpoint:          os.Getenv(KeyEndpoint),
		Deployment:        os.Getenv(KeyDeployment),
		APIVersion:        getOrDefault(KeyAPIVersion, azure.DefaultAPIVersion),
		MaxIterations:     getIntOrDefault(KeyMaxIterations, defaultMaxIterations),
		ParseFailureLimit: getIntOrDefault(KeyParseFailureLimit, defaultParseFailureLimit),
		Headless:          getBoolOrDefault(KeyHeadless, false),
		ScreenshotDir:     getOrDefault(KeyScreenshotDir, defaultScreenshotDir),
		LogFile:           os.Getenv(KeyLogFile),
		LogLevel:          getOrDefault(KeyLogLevel, "info"),
	}

	var missing []string
	for _, v := range []struct{ key, val string }{
		{KeyAPIKey, cfg.APIKey},
		{KeyEndpoint, cfg.Endpoint},
		{KeyDeployment, cfg.Deployment},
	} {
		if v.val == "" {
			missing = append(missing, v.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("%s must be a positive integer", KeyMaxIterations)
	}

	return cfg, nil
}

func getOrDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
