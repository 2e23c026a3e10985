// Package cli implements the lockgraph command-line interface.
package cli

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lockgraph/pkg/buildinfo"
	"github.com/matzehuels/lockgraph/pkg/lockfile"
	"github.com/matzehuels/lockgraph/pkg/lockfile/berry"
	"github.com/matzehuels/lockgraph/pkg/lockfile/npm"
	"github.com/matzehuels/lockgraph/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and the config file.
	appName = "lockgraph"

	// configFileName is looked up in the project directory when --config is
	// not given.
	configFileName = appName + ".toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// parsers lists the supported lockfile formats in detection order.
var parsers = []lockfile.Parser{npm.Parser{}, berry.Parser{}}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	dir        string
	configPath string
	config     Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		dir:    ".",
		config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Lockgraph answers questions about your dependency tree",
		Long: `Lockgraph reads npm and yarn lockfiles into one dependency graph and answers
questions about it: why a package is installed, what a package depends on,
and whether every package can be verified.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.dir, c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg
			hooks := &logHooks{logger: c.Logger}
			observability.SetParseHooks(hooks)
			observability.SetResolveHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.dir, "dir", "C", ".", "project directory containing the lockfile")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default <dir>/"+configFileName+")")

	root.AddCommand(c.whyCommand())
	root.AddCommand(c.auditCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Project Loading
// =============================================================================

// loadProject parses the lockfile found in the project directory.
func (c *CLI) loadProject(ctx context.Context) (*lockfile.Result, error) {
	dir, err := filepath.Abs(c.dir)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("Reading project", "dir", dir)

	prog := newProgress(c.Logger)
	res, err := lockfile.Parse(ctx, lockfile.DirLoader(dir), lockfile.Options{Strict: c.config.Resolve.Strict}, parsers...)
	if err != nil {
		return nil, err
	}
	prog.done("Parsed " + res.Format + " lockfile")
	return res, nil
}
