package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Way/highcharts-utils/pkg/buildinfo"
	"github.com/Way/highcharts-utils/pkg/cache"
	"github.com/Way/highcharts-utils/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "hcutils"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "hcutils prepares time series for stacked-area Highcharts rendering",
		Long:         `hcutils detects null gaps in aligned time series and inserts boundary fix points around them, so stacked-area charts show clean breaks instead of interpolation artifacts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")

	root.AddCommand(c.fixCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// expandDefaults falls back to the configured default expansion options
// for flags that were left unset.
func (c *CLI) expandDefaults(delta float64, policy string) (float64, string) {
	if delta == 0 {
		delta = c.Config.Defaults.Delta
	}
	if policy == "" {
		policy = c.Config.Defaults.Policy
	}
	return delta, policy
}

// newRunner creates a pipeline runner for CLI use.
// The cache backend comes from configuration: Redis when an address is
// configured, the file cache otherwise.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, c.newKeyer(), loggerFromContext(ctx)), nil
}

// newKeyer selects the cache keyer for the configured backend. Redis keys
// are scoped with the application name so a shared instance stays tidy;
// the file cache lives in its own directory and needs no prefix.
func (c *CLI) newKeyer() cache.Keyer {
	if c.Config.Redis.Addr != "" {
		return cache.NewScopedKeyer(nil, appName+":")
	}
	return nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if c.Config.Redis.Addr != "" {
		return cache.NewRedisCache(ctx, c.Config.Redis.Addr, c.Config.Redis.Password, c.Config.Redis.DB)
	}
	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the cache directory using XDG standard (~/.cache/hcutils/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatHighcharts}
	}
	return strings.Split(s, ",")
}
