package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/relgate/internal/common"
	"github.com/ternarybob/relgate/internal/gate"
	"github.com/ternarybob/relgate/internal/github"
	"github.com/ternarybob/relgate/internal/jira"
	"github.com/ternarybob/relgate/internal/manifest"
	"github.com/ternarybob/relgate/internal/tickets"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Relgate version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// run owns all deferred cleanup; os.Exit happens only here so the
	// manifest checkout is removed on every exit path.
	os.Exit(run())
}

func run() int {
	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("relgate.toml"); err == nil {
			configFiles = append(configFiles, "relgate.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Error().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		return 1
	}

	// Missing required configuration aborts before any filesystem or
	// network work.
	if err := config.Validate(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	runID := common.NewRunID()
	logger.Info().
		Str("run", runID).
		Str("repo", config.GitHub.Repo).
		Str("branch", config.GitHub.BaseBranch).
		Int("pr", config.GitHub.PRNumber).
		Msg("Starting restricted branch check")

	reporter := gate.NewReporter(os.Stdout)
	reporter.Checking(config.GitHub.Repo, config.GitHub.BaseBranch)

	ctx := context.Background()

	checkout, err := manifest.NewCheckout(ctx, config.Manifest.RepoURL, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to clone manifest repository")
		return 1
	}
	defer checkout.Close()

	store, err := manifest.LoadStore(checkout.Dir, config.Manifest.SkipDirs, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load manifest collection")
		return 1
	}

	githubClient, err := github.NewClient(config.GitHub.Token, config.HTTPTimeout, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create GitHub client")
		return 1
	}

	evaluator := gate.NewEvaluator(
		manifest.NewIndex(store, logger),
		githubClient,
		tickets.NewExtractor(logger),
		jira.NewClient(config.Jira, config.HTTPTimeout, logger),
		reporter,
		logger,
	)

	state := evaluator.Run(ctx, gate.Request{
		Owner:    config.Owner(),
		Repo:     config.ProjectName(),
		Project:  config.ProjectName(),
		Branch:   config.GitHub.BaseBranch,
		PRNumber: config.GitHub.PRNumber,
	})

	logger.Info().Str("run", runID).Str("state", string(state)).Msg("Check complete")

	if !state.Passed() {
		return 1
	}
	return 0
}
