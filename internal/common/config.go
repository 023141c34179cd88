package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the resolved gate configuration. It is built once at
// startup (defaults -> optional TOML file -> environment) and passed
// explicitly to every component; nothing else reads the environment.
type Config struct {
	Manifest ManifestConfig `toml:"manifest"`
	GitHub   GitHubConfig   `toml:"github"`
	Jira     JiraConfig     `toml:"jira"`
	Logging  LoggingConfig  `toml:"logging"`
	// HTTPTimeout bounds every outbound API request. Requests are
	// independent GETs with no retry; a timeout degrades to an empty
	// result at the caller.
	HTTPTimeout time.Duration `toml:"http_timeout"`
}

// ManifestConfig describes the manifest collection to check against.
type ManifestConfig struct {
	RepoURL string `toml:"repo_url"` // Git URL of the manifest collection
	// Top-level directories whose manifests are not authoritative
	// (archival/sample trees) and are skipped entirely.
	SkipDirs []string `toml:"skip_dirs"`
}

// GitHubConfig carries the pull-request context and API credentials.
type GitHubConfig struct {
	Repo       string `toml:"repo" validate:"required"`        // "owner/name" slug (REPO)
	PRNumber   int    `toml:"pr_number" validate:"gt=0"`       // PR_NUMBER
	Token      string `toml:"token" validate:"required"`       // GITHUB_TOKEN
	BaseBranch string `toml:"base_branch" validate:"required"` // GITHUB_BASE_REF
}

// JiraConfig carries the issue tracker endpoint and credentials.
type JiraConfig struct {
	URL      string `toml:"url" validate:"required"`       // JIRA_URL, trailing slash trimmed
	Username string `toml:"username" validate:"required"`  // JIRA_USERNAME
	APIToken string `toml:"api_token" validate:"required"` // JIRA_API_TOKEN
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Manifest: ManifestConfig{
			RepoURL:  "https://github.com/couchbase/manifest.git",
			SkipDirs: []string{"toy", "released"},
		},
		HTTPTimeout: 10 * time.Second,
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> files -> env.
// Later files override earlier files; environment overrides all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// The GITHUB_*/JIRA_* names match the workflow contract this gate runs
// under; RELGATE_* names cover gate-specific tuning.
func applyEnvOverrides(config *Config) {
	if branch := os.Getenv("GITHUB_BASE_REF"); branch != "" {
		config.GitHub.BaseBranch = branch
	}
	if repo := os.Getenv("REPO"); repo != "" {
		config.GitHub.Repo = repo
	}
	if prNumber := os.Getenv("PR_NUMBER"); prNumber != "" {
		if n, err := strconv.Atoi(prNumber); err == nil {
			config.GitHub.PRNumber = n
		}
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		config.GitHub.Token = token
	}

	if jiraURL := os.Getenv("JIRA_URL"); jiraURL != "" {
		config.Jira.URL = jiraURL
	}
	if username := os.Getenv("JIRA_USERNAME"); username != "" {
		config.Jira.Username = username
	}
	if apiToken := os.Getenv("JIRA_API_TOKEN"); apiToken != "" {
		config.Jira.APIToken = apiToken
	}

	if repoURL := os.Getenv("RELGATE_MANIFEST_REPO"); repoURL != "" {
		config.Manifest.RepoURL = repoURL
	}
	if level := os.Getenv("RELGATE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if timeout := os.Getenv("RELGATE_HTTP_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.HTTPTimeout = d
		}
	}

	config.Jira.URL = strings.TrimRight(config.Jira.URL, "/")
}

// Validate checks that every required value is present. A failure here is
// a configuration error: the gate must exit non-zero before doing any
// filesystem or network work.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			missing := make([]string, 0, len(errs))
			for _, fe := range errs {
				missing = append(missing, envNameFor(fe.Namespace()))
			}
			return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
		}
		return err
	}
	return nil
}

// envNameFor maps a validator field namespace to the environment variable
// a CI operator would set to fix it.
func envNameFor(namespace string) string {
	switch namespace {
	case "Config.GitHub.Repo":
		return "REPO"
	case "Config.GitHub.PRNumber":
		return "PR_NUMBER"
	case "Config.GitHub.Token":
		return "GITHUB_TOKEN"
	case "Config.GitHub.BaseBranch":
		return "GITHUB_BASE_REF"
	case "Config.Jira.URL":
		return "JIRA_URL"
	case "Config.Jira.Username":
		return "JIRA_USERNAME"
	case "Config.Jira.APIToken":
		return "JIRA_API_TOKEN"
	}
	return namespace
}

// ProjectName derives the project name from the repository slug: the part
// after the last "/", or the whole slug when there is none.
func (c *Config) ProjectName() string {
	if idx := strings.LastIndex(c.GitHub.Repo, "/"); idx >= 0 {
		return c.GitHub.Repo[idx+1:]
	}
	return c.GitHub.Repo
}

// Owner returns the owner half of the repository slug, or "" when the
// slug has no owner segment.
func (c *Config) Owner() string {
	if idx := strings.Index(c.GitHub.Repo, "/"); idx >= 0 {
		return c.GitHub.Repo[:idx]
	}
	return ""
}
