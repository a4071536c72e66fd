// Package settings handles runtime configuration for the guide creation
// pipeline and its companion tools. Values come from (in order of
// precedence) environment variables, a .env file in the working
// directory, and documented defaults.
package settings

import (
	"time"

	"github.com/ai8future/chassis-go/v5/config"
)

// Defaults for every recognized option.
const (
	DefaultModel           = "gpt-4o-mini"
	DefaultOutputDir       = "output"
	DefaultLogsDir         = "logs"
	DefaultPhoenixEndpoint = "https://app.phoenix.arize.com/v1/traces"
	DefaultPhoenixProject  = "ai-guide-creator"

	// Monitor cadence: the display refreshes every few seconds, the
	// process table is scanned less often.
	DefaultDisplayInterval = 5 * time.Second
	DefaultProcessInterval = 10 * time.Second
)

// PhoenixSettings configures trace export to Phoenix Cloud.
type PhoenixSettings struct {
	APIKey            string
	CollectorEndpoint string
	ProjectName       string
}

// MonitorSettings configures the advisory monitor's polling cadence.
type MonitorSettings struct {
	DisplayInterval time.Duration
	ProcessInterval time.Duration
}

// Settings holds all configuration for the guidecraft tools.
type Settings struct {
	OpenAIAPIKey string
	Model        string
	OutputDir    string
	LogsDir      string
	Phoenix      PhoenixSettings
	Monitor      MonitorSettings
}

// envVars maps environment variables onto settings. All fields are
// optional (required:"false") — only non-empty values apply.
type envVars struct {
	OpenAIAPIKey     string `env:"OPENAI_API_KEY" required:"false"`
	Model            string `env:"GUIDECRAFT_MODEL" required:"false"`
	OutputDir        string `env:"GUIDECRAFT_OUTPUT_DIR" required:"false"`
	LogsDir          string `env:"GUIDECRAFT_LOGS_DIR" required:"false"`
	PhoenixAPIKey    string `env:"PHOENIX_API_KEY" required:"false"`
	PhoenixEndpoint  string `env:"PHOENIX_COLLECTOR_ENDPOINT" required:"false"`
	PhoenixProject   string `env:"PHOENIX_PROJECT_NAME" required:"false"`
	DisplayIntervalS int    `env:"GUIDECRAFT_DISPLAY_INTERVAL" required:"false"`
	ProcessIntervalS int    `env:"GUIDECRAFT_PROCESS_INTERVAL" required:"false"`
}

// Default returns settings with every documented default filled in.
func Default() *Settings {
	return &Settings{
		Model:     DefaultModel,
		OutputDir: DefaultOutputDir,
		LogsDir:   DefaultLogsDir,
		Phoenix: PhoenixSettings{
			CollectorEndpoint: DefaultPhoenixEndpoint,
			ProjectName:       DefaultPhoenixProject,
		},
		Monitor: MonitorSettings{
			DisplayInterval: DefaultDisplayInterval,
			ProcessInterval: DefaultProcessInterval,
		},
	}
}

// applyEnvOverrides loads environment variable overrides and merges them
// into settings. Empty values leave the current setting untouched.
func applyEnvOverrides(s *Settings) {
	env := config.MustLoad[envVars]()

	if env.OpenAIAPIKey != "" {
		s.OpenAIAPIKey = env.OpenAIAPIKey
	}
	if env.Model != "" {
		s.Model = env.Model
	}
	if env.OutputDir != "" {
		s.OutputDir = env.OutputDir
	}
	if env.LogsDir != "" {
		s.LogsDir = env.LogsDir
	}
	if env.PhoenixAPIKey != "" {
		s.Phoenix.APIKey = env.PhoenixAPIKey
	}
	if env.PhoenixEndpoint != "" {
		s.Phoenix.CollectorEndpoint = env.PhoenixEndpoint
	}
	if env.PhoenixProject != "" {
		s.Phoenix.ProjectName = env.PhoenixProject
	}
	if env.DisplayIntervalS > 0 {
		s.Monitor.DisplayInterval = time.Duration(env.DisplayIntervalS) * time.Second
	}
	if env.ProcessIntervalS > 0 {
		s.Monitor.ProcessInterval = time.Duration(env.ProcessIntervalS) * time.Second
	}
}

// Load reads a .env file if one exists in the working directory, then
// merges environment variables over the defaults. Merge order:
// defaults < .env < process environment.
func Load() *Settings {
	// Best-effort: a missing or unreadable .env file is not an error.
	_ = LoadDotEnv(".env")

	s := Default()
	applyEnvOverrides(s)
	return s
}
