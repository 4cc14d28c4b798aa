package llm

import (
	"os"
	"strconv"
)

// TaskType identifies the kind of generation task being performed.
type TaskType string

const (
	TaskDiscovery  TaskType = "discovery"  // interview question generation
	TaskMotivation TaskType = "motivation" // root motivation synthesis
	TaskRoadmap    TaskType = "roadmap"    // full roadmap synthesis
	TaskRefine     TaskType = "refine"     // single-node refinement
	TaskDecompose  TaskType = "decompose"  // single-node decomposition
	TaskChat       TaskType = "chat"       // open-ended coach chat
)

// TaskConfig holds per-task generation parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// Config holds all configuration for the generation subsystem.
type Config struct {
	Enabled    bool
	LogCalls   bool
	Endpoint   string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns a Config with sensible defaults. Generation is
// disabled by default; every caller carries a deterministic fallback, so a
// disabled or unreachable model degrades to fixed content rather than
// failing.
func DefaultConfig() Config {
	return Config{
		Enabled:    false,
		LogCalls:   false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  10000,
		MaxRetries: 0,
		Tasks: map[TaskType]TaskConfig{
			TaskDiscovery:  {Temperature: 0.7, MaxTokens: 512, TimeoutMs: 12000},
			TaskMotivation: {Temperature: 0.5, MaxTokens: 256, TimeoutMs: 10000},
			TaskRoadmap:    {Temperature: 0.4, MaxTokens: 4096, TimeoutMs: 45000},
			TaskRefine:     {Temperature: 0.5, MaxTokens: 512, TimeoutMs: 12000},
			TaskDecompose:  {Temperature: 0.4, MaxTokens: 1024, TimeoutMs: 15000},
			TaskChat:       {Temperature: 0.8, MaxTokens: 1024, TimeoutMs: 15000},
		},
	}
}

// LoadConfig reads generation configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("TELOS_LLM_ENABLED"); v != "" {
		cfg.Enabled, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TELOS_LLM_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TELOS_LLM_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("TELOS_LLM_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TELOS_LLM_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("TELOS_LLM_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	applyTaskTimeoutEnv(&cfg, TaskDiscovery, "TELOS_LLM_DISCOVERY_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskMotivation, "TELOS_LLM_MOTIVATION_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskRoadmap, "TELOS_LLM_ROADMAP_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskRefine, "TELOS_LLM_REFINE_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskDecompose, "TELOS_LLM_DECOMPOSE_TIMEOUT_MS")
	applyTaskTimeoutEnv(&cfg, TaskChat, "TELOS_LLM_CHAT_TIMEOUT_MS")

	return cfg
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c Config) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

func applyTaskTimeoutEnv(cfg *Config, task TaskType, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	tc := cfg.Tasks[task]
	tc.TimeoutMs = n
	cfg.Tasks[task] = tc
}
