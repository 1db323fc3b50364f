package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/bumper/application"
	"github.com/rios0rios0/bumper/config"
	"github.com/rios0rios0/bumper/domain"
	"github.com/rios0rios0/bumper/infrastructure/document"
	"github.com/rios0rios0/bumper/infrastructure/summary"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	configPath      string
	files           []string
	addMissing      bool
	detail          bool
	allowDowngrades bool
	dryRun          bool
	verbose         bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "bumper [package[==version]]...",
	Short: "Bump version constraints in requirements documents",
	Long: `A CLI tool that rewrites version constraint lines in requirements
documents, resolving each requested package against the package index.

Each package is bumped at most once per run. After all bumps are applied
the remaining declared requirements are re-checked, and any constraint no
longer satisfied is reported as a bump candidate instead of being bumped
automatically. Lines that do not declare a requirement (comments, include
directives, editable installs) are preserved byte for byte.`,
	Args: cobra.ArbitraryArgs,
	RunE: runBump,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.Flags().StringSliceVarP(
		&files, "file", "f", nil,
		"Requirements document to operate on (repeatable; defaults to requirements.txt and pinned.txt)",
	)
	rootCmd.Flags().BoolVar(
		&addMissing, "add", false,
		"Append packages that are not declared in any document",
	)
	rootCmd.Flags().BoolVar(
		&detail, "detail", false,
		"Include changelog excerpts in the summary",
	)
	rootCmd.Flags().BoolVar(
		&allowDowngrades, "allow-downgrades", false,
		"Permit bumps that lower a declared version",
	)
	rootCmd.Flags().BoolVarP(
		&dryRun, "dry-run", "n", false,
		"Show what would change without writing any file",
	)
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c", "",
		"Path to the configuration file",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Enable verbose output",
	)
}

func runBump(cmd *cobra.Command, args []string) error {
	if verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	targets, err := parseTargets(args, cfg.Changelog.Enabled || detail)
	if err != nil {
		return err
	}

	docs, err := readDocuments(cfg)
	if err != nil {
		return err
	}
	if docs == nil && len(targets) == 0 {
		return errors.New("no requirements document found and no package requested")
	}

	driver, err := buildDriver(cfg)
	if err != nil {
		return err
	}

	result, err := driver.Bump(ctx, docs, targets, application.BumpOptions{
		AllowDowngrades:  allowDowngrades,
		AddMissing:       addMissing,
		IncludeChangelog: cfg.Changelog.Enabled || detail,
	})
	if err != nil {
		return err
	}

	if docs != nil && !dryRun && len(result.Changes) > 0 {
		if writeErr := docs.Write(); writeErr != nil {
			return fmt.Errorf("failed to write documents: %w", writeErr)
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), summary.Render(result, summary.Options{Detail: detail, DryRun: dryRun}))

	if len(result.Skipped) > 0 {
		return fmt.Errorf("%d requested package(s) could not be bumped", len(result.Skipped))
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		found, err := config.FindConfigFile()
		if err != nil {
			logger.Debug("No config file found, using defaults")
			return config.Default(), nil
		}
		cfgPath = found
	}

	logger.Infof("Using config file: %s", cfgPath)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// parseTargets converts the positional arguments into version targets.
func parseTargets(args []string, includeChangelog bool) ([]domain.VersionTarget, error) {
	targets := make([]domain.VersionTarget, 0, len(args))
	for _, arg := range args {
		target, err := domain.ParseTarget(arg)
		if err != nil {
			return nil, err
		}
		target.IncludeChangelog = includeChangelog
		targets = append(targets, target)
	}
	return targets, nil
}

// readDocuments loads the requested files, or the configured defaults.
// With explicit --file flags every file must exist; with defaults, missing
// files are tolerated as long as at least one is found.
func readDocuments(cfg *config.Config) (*document.Set, error) {
	explicit := len(files) > 0
	paths := files
	if !explicit {
		paths = cfg.Files
	}

	var docs *document.Set
	for _, path := range paths {
		if _, statErr := os.Stat(path); statErr != nil {
			if explicit {
				return nil, fmt.Errorf("requirements document %q not found", path)
			}
			logger.Debugf("Skipping absent default document %s", path)
			continue
		}

		set, err := document.Read(path)
		if err != nil {
			return nil, err
		}
		if docs == nil {
			docs = set
		} else {
			docs.Merge(set)
		}
	}

	if docs == nil {
		logger.Warn("No requirements document found")
	}
	return docs, nil
}
