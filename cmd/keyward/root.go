package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/keyward/internal/app"
	"github.com/dshills/keyward/internal/config"
)

// globals holds the persistent flags.
type globals struct {
	configPath string
	logLevel   string
	plugins    []string
}

func (g *globals) open(cmd *cobra.Command) (*app.App, error) {
	return app.New(cmd.Context(), app.Options{
		ConfigPath: g.configPath,
		LogLevel:   g.logLevel,
		Plugins:    g.plugins,
		LogOutput:  cmd.ErrOrStderr(),
	})
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "keyward",
		Short: "Keyboard shortcut conflict manager",
		Long: `keyward keeps keyboard shortcuts free of conflicts.

Two shortcuts conflict when they are equal or when one is a prefix of
the other: "Ctrl+K" blocks "Ctrl+K, Ctrl+S" because the first chord
would already fire.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", config.DefaultFile, "settings file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringSliceVar(&g.plugins, "plugin", nil, "extra Lua plugin scripts")

	root.AddCommand(
		newCheckCmd(g),
		newLookupCmd(g),
		newFindCmd(g),
		newAuditCmd(g),
		newEditCmd(g),
		newNormalizeCmd(),
		newSchemaCmd(),
		newVersionCmd(),
	)
	return root
}
