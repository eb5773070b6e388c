package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the harness's own runtime configuration, loaded from
// .contest.yaml. It never describes test cases; the recipe does that.
type Config struct {
	LogLevel string        `yaml:"log_level"`
	History  HistoryConfig `yaml:"history"`
	GitHub   GitHubConfig  `yaml:"github"`
}

// HistoryConfig controls the local run-history database.
type HistoryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	MaxEntries int    `yaml:"max_entries"`
}

// GitHubConfig enables commit-status reporting after a suite run. All four
// of Token, Repository and SHA must be present for a status to be posted;
// the zero value disables the feature.
type GitHubConfig struct {
	Token      string `yaml:"token"`
	Repository string `yaml:"repository"` // "owner/repo"
	SHA        string `yaml:"sha"`
	Context    string `yaml:"context"`
}

// Enabled reports whether enough is configured to post a status.
func (g GitHubConfig) Enabled() bool {
	return g.Token != "" && g.Repository != "" && g.SHA != ""
}

// Split returns the owner and repository name.
func (g GitHubConfig) Split() (owner, repo string, err error) {
	parts := strings.SplitN(g.Repository, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository %q: expected owner/repo", g.Repository)
	}
	return parts[0], parts[1], nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		LogLevel: "warning",
		History: HistoryConfig{
			Enabled:    true,
			Path:       ".contest_history.db",
			MaxEntries: 100,
		},
		GitHub: GitHubConfig{
			Context: "contest",
		},
	}
}

// Load reads the configuration file, falling back to defaults when it does
// not exist. CI-style environment variables fill in GitHub settings that
// the file leaves empty.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CONTEST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if cfg.GitHub.Token == "" {
		if v := os.Getenv("CONTEST_GITHUB_TOKEN"); v != "" {
			cfg.GitHub.Token = v
		} else {
			cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
		}
	}
	if cfg.GitHub.Repository == "" {
		cfg.GitHub.Repository = os.Getenv("GITHUB_REPOSITORY")
	}
	if cfg.GitHub.SHA == "" {
		cfg.GitHub.SHA = os.Getenv("GITHUB_SHA")
	}
}
