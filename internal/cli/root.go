package cli

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dungeonforge/pkg/config"
)

func (c *CLI) registerPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dungeonforge/config.toml)")
	flags.StringVar(&c.logFile, "log-file", "", "also write logs to this file, rotated by size")
}

// setup loads the configuration and wires logging before any subcommand runs.
//
// The log level comes from --verbose, then the config file, then info.
// The logger is attached to the command context for loggerFromContext.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		// The config commands must keep working so a broken file can be inspected and replaced.
		if !isConfigCommand(cmd) {
			return err
		}
		c.Logger.Warn("ignoring invalid config", "error", err)
		cfg = config.Default()
	}
	c.Config = cfg

	level := log.InfoLevel
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		level = lvl
	}
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)

	path := c.logFile
	if path == "" {
		path = cfg.Log.File
	}
	if path != "" {
		c.teeLogFile(path, cfg.Log)
		c.Logger.Debug("logging to file", "path", path)
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

func (c *CLI) teardown(cmd *cobra.Command, args []string) error {
	if c.logCloser == nil {
		return nil
	}
	err := c.logCloser.Close()
	c.logCloser = nil
	c.Logger.SetOutput(c.out)
	return err
}

func isConfigCommand(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		if p.Name() == "config" || p.Name() == "completion" {
			return true
		}
	}
	return false
}
