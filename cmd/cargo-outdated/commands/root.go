// Package commands implements the CLI for cargo-outdated.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/pombredanne/cargo-outdated/internal/app"
	"github.com/pombredanne/cargo-outdated/internal/build"
	"github.com/pombredanne/cargo-outdated/internal/core/domain"
	"github.com/pombredanne/cargo-outdated/internal/ui/report"
)

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, opts app.Options, emit func(domain.DriftRecord)) error
}

// LevelSetter adjusts the logger's minimum level from the verbosity flags.
type LevelSetter interface {
	SetLevel(level slog.Level)
}

// CLI represents the command line interface for cargo-outdated.
type CLI struct {
	app      Application
	levels   LevelSetter
	rootCmd  *cobra.Command
	opts     options
	exitCode int
}

// options mirrors the command's flags.
type options struct {
	manifestPath      string
	features          []string
	allFeatures       bool
	noDefaultFeatures bool
	packages          []string
	root              string
	depth             int
	rootDepsOnly      bool
	exitCode          int
	color             string
	verbose           bool
	quiet             bool
}

// New creates a new CLI instance with the given app.
func New(a Application, levels LevelSetter) *CLI {
	c := &CLI{app: a, levels: levels}

	rootCmd := &cobra.Command{
		Use:           "cargo-outdated",
		Short:         "Displays information about project dependency versions",
		Long: "Displays information about project dependency versions:\n" +
			"the locked version, the newest one within the declared version\n" +
			"ranges, and the newest one available at all.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		RunE:          c.runOutdated,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))

	flags := rootCmd.Flags()
	flags.StringVarP(&c.opts.manifestPath, "manifest-path", "m", "",
		"Path to the Cargo.toml file to use (defaults to Cargo.toml in the project root)")
	flags.StringSliceVar(&c.opts.features, "features", nil,
		"Comma-separated list of features to enable")
	flags.BoolVar(&c.opts.allFeatures, "all-features", false,
		"Check outdated packages with all features enabled")
	flags.BoolVar(&c.opts.noDefaultFeatures, "no-default-features", false,
		"Do not include the `default` feature")
	flags.StringSliceVarP(&c.opts.packages, "packages", "p", nil,
		"Packages to inspect for updates")
	flags.StringVarP(&c.opts.root, "root", "r", "",
		"Package to treat as the root package")
	flags.IntVarP(&c.opts.depth, "depth", "d", 0,
		"How deep in the dependency chain to search (defaults to all dependencies)")
	flags.BoolVarP(&c.opts.rootDepsOnly, "root-deps-only", "R", false,
		"Only check root dependencies (equivalent to --depth=1)")
	flags.IntVar(&c.opts.exitCode, "exit-code", 0,
		"The exit code to return when new versions are found")
	flags.StringVar(&c.opts.color, "color", string(report.ColorAuto),
		"Coloring: auto, always, never")
	flags.BoolVarP(&c.opts.verbose, "verbose", "v", false,
		"Use verbose output")
	flags.BoolVarP(&c.opts.quiet, "quiet", "q", false,
		"Suppress all log output")

	rootCmd.MarkFlagsMutuallyExclusive("features", "all-features", "no-default-features")
	rootCmd.MarkFlagsMutuallyExclusive("depth", "root-deps-only")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	c.rootCmd = rootCmd
	return c
}

func (c *CLI) runOutdated(cmd *cobra.Command, _ []string) error {
	switch {
	case c.opts.verbose:
		c.levels.SetLevel(slog.LevelDebug)
	case c.opts.quiet:
		c.levels.SetLevel(slog.LevelError)
	}

	mode := report.ColorMode(c.opts.color)
	if !mode.Valid() {
		return zerr.With(zerr.New("invalid color mode, expected auto, always or never"), "color", c.opts.color)
	}
	if c.opts.depth < 0 {
		return zerr.With(zerr.New("depth must not be negative"), "depth", c.opts.depth)
	}

	depth := c.opts.depth
	if c.opts.rootDepsOnly {
		depth = 1
	}

	workdir, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to determine working directory")
	}

	emitter := report.NewEmitter(cmd.OutOrStdout(), mode)
	runOpts := app.Options{
		Workdir:           workdir,
		ManifestPath:      c.opts.manifestPath,
		Features:          c.opts.features,
		AllFeatures:       c.opts.allFeatures,
		NoDefaultFeatures: c.opts.noDefaultFeatures,
		Packages:          c.opts.packages,
		Root:              c.opts.root,
		Depth:             depth,
	}
	if err := c.app.Run(cmd.Context(), runOpts, emitter.Emit); err != nil {
		return err
	}
	if err := emitter.Flush(); err != nil {
		return zerr.Wrap(err, "failed to write report")
	}

	c.exitCode = emitter.ExitCode(c.opts.exitCode)
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// ExitCode returns the exit code determined by the last run: the configured
// --exit-code value when drift was found, 0 otherwise.
func (c *CLI) ExitCode() int {
	return c.exitCode
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for
// testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
