// root.go — корневая команда и общие флаги
package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := newCommandContext()

	rootCmd := &cobra.Command{
		Use:           "datesort",
		Short:         "Sort photos and videos into folders by capture date",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configPath, "config", "c", "", "Settings file path")
	flags.BoolVar(&ctx.logToFile, "log", false, "Append log records to datesort.log in the current directory")
	flags.StringVar(&ctx.logLevel, "log-level", "", "Console log level (debug, info, warning, err)")

	rootCmd.AddCommand(newPreviewCommand(ctx))
	rootCmd.AddCommand(newCommitCommand(ctx))
	rootCmd.AddCommand(newPrefsCommand(ctx))
	rootCmd.AddCommand(newSettingsCommand())
	rootCmd.AddCommand(newPlaceholdersCommand())
	rootCmd.AddCommand(newFormatsCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
