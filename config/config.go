package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds all configurable server parameters.
type Config struct {
	// WSPort is the websocket listener port.
	WSPort int `json:"ws_port"`
	// HTTPPort is the plain HTTP listener port (guide, checkname, static files).
	HTTPPort int `json:"http_port"`

	// GoalTarget is the shared countdown's starting value.
	GoalTarget int `json:"goal_target"`
	// GracePeriodMS is the reconnection window after a disconnect.
	GracePeriodMS int `json:"grace_period_ms"`

	// CodebookPath is the JSON file holding the codebook documents.
	CodebookPath string `json:"codebook_path"`
	// VictoryPath is the JSON file holding the opaque victory document.
	VictoryPath string `json:"victory_path"`

	// StaticDir is the root served by the HTTP side.
	StaticDir string `json:"static_dir"`
	// HomePath is where "/" redirects to.
	HomePath string `json:"home_path"`

	// DatabaseURL enables the optional event history store when non-empty.
	DatabaseURL string `json:"database_url"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		WSPort:        3637,
		HTTPPort:      8080,
		GoalTarget:    50,
		GracePeriodMS: 30000,
		CodebookPath:  "codebooks.json",
		VictoryPath:   "victory.json",
		StaticDir:     "web",
		HomePath:      "/guide/",
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideInt(&cfg.HTTPPort, "HTTP_PORT")
	overrideInt(&cfg.GoalTarget, "GOAL_TARGET")
	overrideInt(&cfg.GracePeriodMS, "GRACE_PERIOD_MS")
	overrideString(&cfg.CodebookPath, "CODEBOOK_PATH")
	overrideString(&cfg.VictoryPath, "VICTORY_PATH")
	overrideString(&cfg.StaticDir, "STATIC_DIR")
	overrideString(&cfg.HomePath, "HOME_PATH")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
